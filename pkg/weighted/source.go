package weighted

import "math/rand/v2"

// Source supplies uniformly distributed draw values for implicit
// draws. Implementations must return a value in [0, n) for any n > 0.
// *math/rand/v2.Rand satisfies this interface directly.
type Source interface {
	Uint64N(n uint64) uint64
}

// NewSource returns a Source backed by a PCG generator with the given
// seed. It is a convenience for callers that want reproducible draws
// without wiring up math/rand/v2 themselves.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
