package markov

import (
	"errors"
	"io"
	"log/slog"
	"sort"

	"github.com/erinpentecost/markovr/pkg/weighted"
)

// ErrShortWindow is returned when a context window holds fewer
// elements than the model's order. Windows longer than the order are
// fine (only the most recent elements are consulted), but a short
// window cannot form a context key.
var ErrShortWindow = errors.New("markov: context window is shorter than the model order")

// Term is one slot of a partially-known context window: either a
// known element or an explicit unknown. Unknown slots only match
// contexts recorded with an unknown in the same position, which
// happens when the position is marked optional at training time.
type Term[T comparable] struct {
	value T
	known bool
}

// Known returns a term holding a concrete element.
func Known[T comparable](v T) Term[T] {
	return Term[T]{value: v, known: true}
}

// Unknown returns a wildcard term.
func Unknown[T comparable]() Term[T] {
	return Term[T]{}
}

// Value returns the term's element. The second return is false for
// wildcard terms.
func (t Term[T]) Value() (T, bool) {
	return t.value, t.known
}

// Model is a variable-order sequence model: a sparse mapping from
// context keys of length Order to one weighted sampler each.
//
// A model of order 1 is a classic Markov chain. Order 0 is valid and
// intentional: it collapses to a single context-free sampler, which
// is occasionally exactly what a caller wants. Higher orders with
// optional positions are the building blocks of tile-map synthesis.
//
// Models are not safe for concurrent use; callers needing shared
// access must serialize Train calls against everything else.
type Model[T comparable] struct {
	order    int
	optional []int

	// Elements are interned so context keys can be compact strings of
	// element IDs, one sampler per key.
	vocab map[T]int
	elems []T
	table map[string]*weighted.Sampler[T]

	src    weighted.Source
	logger *slog.Logger
}

// New creates a model with the given order and optional positions.
// Optional positions outside [0, order) are silently dropped, and
// duplicates are collapsed. Each optional position doubles the number
// of samplers touched per training call, so memory use grows by
// 2^len(optional).
func New[T comparable](order int, optional []int) *Model[T] {
	if order < 0 {
		order = 0
	}
	opts := make([]int, 0, len(optional))
	seen := make(map[int]struct{}, len(optional))
	for _, pos := range optional {
		if pos < 0 || pos >= order {
			continue
		}
		if _, dup := seen[pos]; dup {
			continue
		}
		seen[pos] = struct{}{}
		opts = append(opts, pos)
	}
	sort.Ints(opts)

	return &Model[T]{
		order:    order,
		optional: opts,
		vocab:    make(map[T]int),
		table:    make(map[string]*weighted.Sampler[T]),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Order returns the number of most-recent context elements the model
// consults.
func (m *Model[T]) Order() int {
	return m.order
}

// OptionalPositions returns the sorted set of wildcard-eligible
// context positions.
func (m *Model[T]) OptionalPositions() []int {
	out := make([]int, len(m.optional))
	copy(out, m.optional)
	return out
}

// SetSource sets the random source used for implicit draws in
// Generate and GeneratePartial. The source is shared by every sampler
// the model owns. Without one, only the deterministic GenerateAt
// variants work.
func (m *Model[T]) SetSource(src weighted.Source) {
	m.src = src
	for _, s := range m.table {
		s.SetSource(src)
	}
}

// SetLogger sets the logger for the model. By default, all logs are
// discarded.
func (m *Model[T]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}
