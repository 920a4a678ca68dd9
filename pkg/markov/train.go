package markov

import (
	"fmt"
	"log/slog"
)

// Train records one observed transition: after the context in window,
// the element next was seen delta more times. Only the most recent
// Order elements of window are consulted; a shorter window returns
// ErrShortWindow.
//
// The transition is recorded under the exact context key and under
// every wildcard variant implied by the model's optional positions,
// so queries with partially-known context answer from data gathered
// here. A negative delta reduces previously trained weight, removing
// the element from a context's distribution once its weight reaches
// zero.
func (m *Model[T]) Train(window []T, next T, delta int64) error {
	ids, err := m.trainIDs(window)
	if err != nil {
		return err
	}
	return m.forEachVariant(ids, func(key string) error {
		s, _ := m.samplerFor(key, true)
		if err := s.Modify(next, delta); err != nil {
			return fmt.Errorf("markov: training context %q: %w", key, err)
		}
		return nil
	})
}

// TrainSequence slides a window of length Order across seq and calls
// Train for every (window, next) pair. A sequence no longer than the
// order trains nothing and returns nil.
func (m *Model[T]) TrainSequence(seq []T, delta int64) error {
	trained := 0
	for i := m.order; i < len(seq); i++ {
		if err := m.Train(seq[i-m.order:i], seq[i], delta); err != nil {
			return err
		}
		trained++
	}
	m.logger.Debug("sequence trained",
		slog.Int("transitions", trained),
		slog.Int("order", m.order),
	)
	return nil
}
