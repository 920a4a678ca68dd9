package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/erinpentecost/markovr/pkg/weighted"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	configPath := flag.String("config", "./markovr.json", "path to the JSON config file")
	demo := flag.String("demo", "names", "demo to run: alphabet, names, or tilemap")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Printf("markovr %s (%s) built %s\n", Version, Commit, BuildDate)
		return
	}

	config, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(config.LogLevel),
	}))

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := weighted.NewSource(seed)
	logger.Debug("random source initialized", slog.Uint64("seed", seed))

	switch *demo {
	case "alphabet":
		err = runAlphabet()
	case "names":
		err = runNames(config, logger, src)
	case "tilemap":
		err = runTilemap(config.Tilemap, logger, src)
	default:
		err = fmt.Errorf("unknown demo %q (want alphabet, names, or tilemap)", *demo)
	}
	if err != nil {
		logger.Error("demo failed", slog.String("demo", *demo), slog.String("error", err.Error()))
		os.Exit(1)
	}
}
