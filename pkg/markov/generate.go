package markov

import "github.com/erinpentecost/markovr/pkg/weighted"

// Generate draws the next element for a fully-known context window
// using the model's random source. The boolean return is false when
// the context was never trained; weighted.ErrNoSource is returned if
// no source has been configured.
func (m *Model[T]) Generate(window []T) (T, bool, error) {
	return m.GeneratePartial(knownTerms(window))
}

// GeneratePartial is Generate for a context window that may contain
// unknown terms. Unknown slots match only contexts recorded under a
// wildcard, which requires the slot's position to have been marked
// optional when the model was built.
func (m *Model[T]) GeneratePartial(window []Term[T]) (T, bool, error) {
	var zero T
	s, ok, err := m.lookup(window)
	if err != nil || !ok {
		return zero, false, err
	}
	return s.Draw()
}

// GenerateAt draws the next element deterministically: the roll value
// is reduced modulo the context's total weight, so any value is
// valid and repeated calls with the same roll return the same
// element. This needs no random source.
func (m *Model[T]) GenerateAt(window []T, roll uint64) (T, bool, error) {
	return m.GeneratePartialAt(knownTerms(window), roll)
}

// GeneratePartialAt is GenerateAt for partially-known context.
func (m *Model[T]) GeneratePartialAt(window []Term[T], roll uint64) (T, bool, error) {
	var zero T
	s, ok, err := m.lookup(window)
	if err != nil || !ok {
		return zero, false, err
	}
	face, ok := s.DrawAt(roll)
	return face, ok, nil
}

// Probability returns the probability that candidate follows the
// given fully-known context, or 0 when the context was never trained.
func (m *Model[T]) Probability(window []T, candidate T) (float64, error) {
	return m.ProbabilityPartial(knownTerms(window), candidate)
}

// ProbabilityPartial is Probability for partially-known context.
func (m *Model[T]) ProbabilityPartial(window []Term[T], candidate T) (float64, error) {
	s, ok, err := m.lookup(window)
	if err != nil || !ok {
		return 0, err
	}
	return s.Probability(candidate), nil
}

func (m *Model[T]) lookup(window []Term[T]) (*weighted.Sampler[T], bool, error) {
	ids, found, err := m.lookupIDs(window)
	if err != nil || !found {
		return nil, false, err
	}
	s, ok := m.samplerFor(keyOf(ids), false)
	return s, ok, nil
}
