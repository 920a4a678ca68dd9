package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erinpentecost/markovr/pkg/markov"
	"github.com/erinpentecost/markovr/pkg/store"
	"github.com/erinpentecost/markovr/pkg/weighted"
)

// monthsCorpus is month names from a handful of calendars: Gregorian,
// Hebrew, Islamic, Hindu, Punjabi, Icelandic, Coptic, and French
// Republican.
const monthsCorpus = `january february march april may june july august
september october november december nisan iyar sivan tammuz av elul
tishri marcheshvan kislev tevet shevat adar muharram safar rajab shaban
ramadan shawwal caitra vaikasi jyestha ashada sravana bhadrapada asvina
kartika maargazhi pausa magha chet vaisakh jeth harth sawan bhadon assu
katak maghar poh magh phagun gormanuour ylir morsugur porri goa
einmanuour harpa skerpla solmanuour heyannir tvimanuour haustmanuour
thout paopi hathor koiak tooba emshir paremhat paremoude pashons paoni
epip mesori vendemiarie brumaire frimaire nivose pluviose ventose
germinal floreal prairial messidor thermidor fructidor`

// wordEnd caps every training word so the model learns where names
// stop.
const wordEnd = ' '

// runNames trains a character model on the months corpus and prints
// generated names. All context positions are optional, so generation
// can start from a fully-unknown context and slide known characters in
// as they are produced.
func runNames(config *Config, logger *slog.Logger, src weighted.Source) error {
	cfg := config.Names

	positions := make([]int, cfg.Order)
	for i := range positions {
		positions[i] = i
	}
	m := markov.New[rune](cfg.Order, positions)
	m.SetLogger(logger)

	words := strings.Fields(monthsCorpus)
	for _, word := range words {
		if err := m.TrainSequence(append([]rune(word), wordEnd), 1); err != nil {
			return err
		}
	}
	m.SetSource(src)

	stats := m.Stats()
	logger.Info("model trained",
		slog.Int("words", len(words)),
		slog.Int("contexts", stats.Contexts),
		slog.Int("elements", stats.Elements),
	)

	const maxAttempts = 1000
	generated := 0
	for attempt := 0; attempt < maxAttempts && generated < cfg.Count; attempt++ {
		name, err := generateName(m, cfg)
		if err != nil {
			return err
		}
		if len(name) < cfg.MinLength {
			continue
		}
		fmt.Println(name)
		generated++
	}
	if generated < cfg.Count {
		logger.Warn("gave up before reaching the requested count",
			slog.Int("generated", generated),
			slog.Int("requested", cfg.Count),
		)
	}

	if config.DatabasePath != "" {
		return persistNames(context.Background(), config.DatabasePath, logger, m)
	}
	return nil
}

func generateName(m *markov.Model[rune], cfg *NamesConfig) (string, error) {
	// Start with nothing known; wildcard training makes this context
	// answerable.
	window := make([]markov.Term[rune], cfg.Order)
	for i := range window {
		window[i] = markov.Unknown[rune]()
	}

	var name []rune
	for len(name) < cfg.MaxLength {
		c, ok, err := m.GeneratePartial(window)
		if err != nil {
			return "", err
		}
		if !ok || c == wordEnd {
			break
		}
		name = append(name, c)
		// An order-0 window has nothing to slide.
		if len(window) > 0 {
			window = append(window[1:], markov.Known(c))
		}
	}
	return string(name), nil
}

// persistNames saves the trained model to SQLite so later runs (or
// other tools) can reload it without retraining.
func persistNames(ctx context.Context, path string, logger *slog.Logger, m *markov.Model[rune]) error {
	db, err := initDB(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := store.SetupSchema(db); err != nil {
		return fmt.Errorf("failed to set up schema: %w", err)
	}

	st, err := store.New[rune](db)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()
	st.SetLogger(logger)

	return st.Save(ctx, "names", m)
}
