package markov

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/erinpentecost/markovr/pkg/weighted"
	"github.com/natefinch/atomic"
)

// ExportedModel is the serializable representation of a trained
// model. It captures content only: the order of contexts and of items
// within a context is unspecified, and intern IDs are not part of the
// format, so two content-equal models may export differently ordered
// snapshots.
type ExportedModel[T comparable] struct {
	Order             int                  `json:"order"`
	OptionalPositions []int                `json:"optional_positions"`
	Contexts          []ExportedContext[T] `json:"contexts"`
}

// ExportedContext is one context key and its distribution. A null key
// slot marks a wildcard position.
type ExportedContext[T comparable] struct {
	Key   []*T              `json:"key"`
	Items []ExportedItem[T] `json:"items"`
}

// ExportedItem is a single weighted element within a context.
type ExportedItem[T comparable] struct {
	Element T      `json:"element"`
	Weight  uint64 `json:"weight"`
}

// Snapshot captures the model's state in exportable form. Contexts
// whose distribution has gone empty (every weight trained back down
// to zero) contribute no content and are omitted.
func (m *Model[T]) Snapshot() ExportedModel[T] {
	snap := ExportedModel[T]{
		Order:             m.order,
		OptionalPositions: m.OptionalPositions(),
		Contexts:          make([]ExportedContext[T], 0, len(m.table)),
	}
	for key, s := range m.table {
		if s.Len() == 0 {
			continue
		}
		terms := m.decodeKey(key)
		ctx := ExportedContext[T]{Key: make([]*T, len(terms))}
		for i, t := range terms {
			if v, known := t.Value(); known {
				ctx.Key[i] = &v
			}
		}
		for _, it := range s.Items() {
			ctx.Items = append(ctx.Items, ExportedItem[T]{Element: it.Face, Weight: it.Weight})
		}
		snap.Contexts = append(snap.Contexts, ctx)
	}
	return snap
}

// Restore rebuilds a model from a snapshot. Weights are replayed
// through the samplers, so a weight past the int64 range is rejected
// as out of contract.
func Restore[T comparable](snap ExportedModel[T]) (*Model[T], error) {
	m := New[T](snap.Order, snap.OptionalPositions)
	for _, ctx := range snap.Contexts {
		if len(ctx.Key) != m.order {
			return nil, fmt.Errorf("markov: snapshot context key has %d slots, model order is %d", len(ctx.Key), m.order)
		}
		ids := make([]int64, len(ctx.Key))
		for i, slot := range ctx.Key {
			if slot == nil {
				ids[i] = -1
				continue
			}
			ids[i] = int64(m.intern(*slot))
		}
		s, _ := m.samplerFor(keyOf(ids), true)
		for _, it := range ctx.Items {
			if it.Weight > math.MaxInt64 {
				return nil, fmt.Errorf("markov: snapshot weight %d exceeds supported range: %w", it.Weight, weighted.ErrWeightOverflow)
			}
			if err := s.Modify(it.Element, int64(it.Weight)); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Export serializes the model as indented JSON and writes it to w.
func (m *Model[T]) Export(w io.Writer) error {
	snap := m.Snapshot()

	m.logger.Info("model exported",
		slog.Int("order", snap.Order),
		slog.Int("contexts_exported", len(snap.Contexts)),
		slog.Int("vocab_size", len(m.vocab)),
	)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(snap)
}

// Import reads a JSON model representation from r and rebuilds the
// model it describes.
func Import[T comparable](r io.Reader) (*Model[T], error) {
	var snap ExportedModel[T]
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("markov: failed to decode json model: %w", err)
	}
	return Restore(snap)
}

// ExportFile writes the model to a file atomically, so a crash
// mid-write never leaves a truncated model on disk.
func (m *Model[T]) ExportFile(path string) error {
	var buf bytes.Buffer
	if err := m.Export(&buf); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}

// ImportFile reads a model previously written with ExportFile.
func ImportFile[T comparable](path string) (*Model[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return Import[T](f)
}

// Equal reports whether two models hold the same content: the same
// order, optional positions, and the same element weights under the
// same contexts. Neither internal intern-ID assignment (which depends
// on training order) nor contexts with emptied distributions affect
// equality.
func (m *Model[T]) Equal(o *Model[T]) bool {
	if o == nil {
		return false
	}
	if m.order != o.order || !slices.Equal(m.optional, o.optional) {
		return false
	}
	if m.populatedContexts() != o.populatedContexts() {
		return false
	}
	for key, s := range m.table {
		if s.Len() == 0 {
			continue
		}
		ids, found, err := o.lookupIDs(m.decodeKey(key))
		if err != nil || !found {
			return false
		}
		other, ok := o.samplerFor(keyOf(ids), false)
		if !ok || !sameDistribution(s, other) {
			return false
		}
	}
	return true
}

func (m *Model[T]) populatedContexts() int {
	n := 0
	for _, s := range m.table {
		if s.Len() > 0 {
			n++
		}
	}
	return n
}

func sameDistribution[T comparable](a, b *weighted.Sampler[T]) bool {
	if a.Len() != b.Len() || a.Total() != b.Total() {
		return false
	}
	for _, it := range a.Items() {
		if b.Weight(it.Face) != it.Weight {
			return false
		}
	}
	return true
}
