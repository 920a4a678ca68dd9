package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/erinpentecost/markovr/pkg/markov"
	"github.com/erinpentecost/markovr/pkg/weighted"
)

// boxArt is the training map for tile synthesis: nested boxes drawn
// with box-drawing characters, surrounded by space.
const boxArt = `
 ┏━━━━┳━━━━━━┓ ┏━┳━━┳━━━━━━━━━━┓
 ┃    ┃ ┏━┓  ┃ ┃ ┃  ┃          ┃
 ┣━━━━╋━╋━╋━━╋━┫ ┃ ┏╋━━━━┓     ┃
 ┃    ┃ ┗━┛  ┃ ┃ ┃ ┗╋━━━━┛     ┃
 ┗━━━━┻━━━━━━┛ ┗━┻━━┻━━━━━━━━━━┛
                                 `

// runTilemap synthesizes a new map from an order-3 model whose
// context is a cell's (up-left, up, left) neighborhood. All three
// positions are optional: training only happens where the full
// neighborhood exists inside the training map, and cells on the
// output's edges query with unknown terms instead of indexing out of
// range.
func runTilemap(cfg *TilemapConfig, logger *slog.Logger, src weighted.Source) error {
	m := markov.New[rune](3, []int{0, 1, 2})
	m.SetLogger(logger)
	m.SetSource(src)

	rows := trainingRows(boxArt)
	trained := 0
	for r := 1; r < len(rows); r++ {
		for c := 1; c < len(rows[r]); c++ {
			if c >= len(rows[r-1]) {
				continue
			}
			window := []rune{rows[r-1][c-1], rows[r-1][c], rows[r][c-1]}
			if err := m.Train(window, rows[r][c], 1); err != nil {
				return err
			}
			trained++
		}
	}
	logger.Info("tile model trained",
		slog.Int("cells", trained),
		slog.Int("contexts", m.Stats().Contexts),
	)

	grid := make([][]rune, cfg.Height)
	for r := range grid {
		grid[r] = make([]rune, cfg.Width)
		for c := range grid[r] {
			window := []markov.Term[rune]{
				cellAt(grid, r-1, c-1),
				cellAt(grid, r-1, c),
				cellAt(grid, r, c-1),
			}
			tile, ok, err := m.GeneratePartial(window)
			if err != nil {
				return err
			}
			if !ok {
				// Neighborhood never observed; fall back to empty
				// space.
				tile = ' '
			}
			grid[r][c] = tile
		}
	}

	for _, row := range grid {
		fmt.Println(string(row))
	}
	return nil
}

func trainingRows(art string) [][]rune {
	lines := strings.Split(art, "\n")
	rows := make([][]rune, len(lines))
	for i, line := range lines {
		rows[i] = []rune(line)
	}
	return rows
}

// cellAt returns the already-generated tile at (r, c), or an unknown
// term when the coordinates fall outside the grid.
func cellAt(grid [][]rune, r, c int) markov.Term[rune] {
	if r < 0 || c < 0 || r >= len(grid) || c >= len(grid[r]) {
		return markov.Unknown[rune]()
	}
	return markov.Known(grid[r][c])
}
