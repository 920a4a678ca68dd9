package markov

// ModelStats holds aggregated statistics for a single model.
type ModelStats struct {
	Contexts    int    // Number of distinct context keys, wildcard variants included.
	Elements    int    // Number of distinct elements seen in context windows.
	Transitions uint64 // Sum of all recorded weights across every context.
}

// Stats returns a snapshot of the model's size. Because every
// training call also records wildcard variants, Transitions counts
// each observation once per variant.
func (m *Model[T]) Stats() ModelStats {
	stats := ModelStats{
		Contexts: len(m.table),
		Elements: len(m.vocab),
	}
	for _, s := range m.table {
		stats.Transitions += s.Total()
	}
	return stats
}
