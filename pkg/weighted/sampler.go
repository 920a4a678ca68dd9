package weighted

import (
	"errors"
	"math"
	"sort"
)

var (
	// ErrNoSource is returned by Draw when no Source has been
	// configured and no explicit draw value is available.
	ErrNoSource = errors.New("weighted: implicit draw requested but no random source is set")

	// ErrWeightOverflow is returned when a weight change would push a
	// sampler's total weight past the maximum representable value.
	ErrWeightOverflow = errors.New("weighted: total weight overflows uint64")
)

// Item is a single face of a Sampler: an element and its integer
// weight relative to its peers.
type Item[T comparable] struct {
	Face   T
	Weight uint64
}

// Sampler is a finite weighted multiset over unique faces. It keeps
// the faces in insertion order alongside a parallel cumulative-weight
// slice, so draws cost O(log n) and weight edits cost O(n).
//
// A face appears at most once. Modify enforces this; From does not
// guard against duplicates in its input, so callers assembling a
// sampler from untrusted data should use Modify instead.
type Sampler[T comparable] struct {
	faces   []T
	running []uint64 // running[i] = sum of weights of faces[0..i]
	src     Source
}

// New returns an empty sampler.
func New[T comparable]() *Sampler[T] {
	return &Sampler[T]{}
}

// From builds a sampler from an explicit item list, computing the
// cumulative-weight slice in one pass. It returns ErrWeightOverflow
// if the summed weights overflow.
func From[T comparable](items []Item[T]) (*Sampler[T], error) {
	s := &Sampler[T]{
		faces:   make([]T, 0, len(items)),
		running: make([]uint64, 0, len(items)),
	}
	var total uint64
	for _, it := range items {
		if it.Weight > math.MaxUint64-total {
			return nil, ErrWeightOverflow
		}
		total += it.Weight
		s.faces = append(s.faces, it.Face)
		s.running = append(s.running, total)
	}
	return s, nil
}

// SetSource sets the random source used by Draw. A nil source leaves
// the sampler usable only through DrawAt.
func (s *Sampler[T]) SetSource(src Source) {
	s.src = src
}

// Len returns the number of distinct faces.
func (s *Sampler[T]) Len() int {
	return len(s.faces)
}

// Total returns the sum of all face weights.
func (s *Sampler[T]) Total() uint64 {
	if len(s.running) == 0 {
		return 0
	}
	return s.running[len(s.running)-1]
}

// Weight returns the weight of a face, or 0 if the face is absent.
func (s *Sampler[T]) Weight(face T) uint64 {
	idx := s.find(face)
	if idx < 0 {
		return 0
	}
	return s.weightAt(idx)
}

// Items returns a snapshot of the sampler's contents in insertion
// order.
func (s *Sampler[T]) Items() []Item[T] {
	items := make([]Item[T], len(s.faces))
	for i, f := range s.faces {
		items[i] = Item[T]{Face: f, Weight: s.weightAt(i)}
	}
	return items
}

func (s *Sampler[T]) find(face T) int {
	for i, f := range s.faces {
		if f == face {
			return i
		}
	}
	return -1
}

func (s *Sampler[T]) weightAt(idx int) uint64 {
	if idx == 0 {
		return s.running[0]
	}
	return s.running[idx] - s.running[idx-1]
}

// rebuild recomputes the cumulative slice from the weights passed in,
// which must be parallel to s.faces.
func (s *Sampler[T]) rebuild(weights []uint64) {
	s.running = s.running[:0]
	var total uint64
	for _, w := range weights {
		total += w
		s.running = append(s.running, total)
	}
}

// magnitude returns the absolute value of a negative delta without
// overflowing on math.MinInt64.
func magnitude(delta int64) uint64 {
	return uint64(-(delta + 1)) + 1
}

// Modify adds delta to the weight of face. If the face is absent and
// delta is positive, the face is appended; if absent and delta is
// non-positive, Modify is a no-op. A negative delta whose magnitude
// reaches or exceeds the current weight removes the face entirely
// rather than letting its weight go negative. Runs in O(n).
func (s *Sampler[T]) Modify(face T, delta int64) error {
	idx := s.find(face)
	if idx < 0 {
		if delta <= 0 {
			return nil
		}
		if uint64(delta) > math.MaxUint64-s.Total() {
			return ErrWeightOverflow
		}
		prev := s.Total()
		s.faces = append(s.faces, face)
		s.running = append(s.running, prev+uint64(delta))
		return nil
	}

	if delta >= 0 {
		if uint64(delta) > math.MaxUint64-s.Total() {
			return ErrWeightOverflow
		}
		for i := idx; i < len(s.running); i++ {
			s.running[i] += uint64(delta)
		}
		return nil
	}

	cur := s.weightAt(idx)
	if magnitude(delta) >= cur {
		s.removeAt(idx)
		return nil
	}
	for i := idx; i < len(s.running); i++ {
		s.running[i] -= magnitude(delta)
	}
	return nil
}

// Remove deletes a face from the sampler, returning the removed item.
// The second return is false if the face was not present.
func (s *Sampler[T]) Remove(face T) (Item[T], bool) {
	idx := s.find(face)
	if idx < 0 {
		return Item[T]{}, false
	}
	item := Item[T]{Face: face, Weight: s.weightAt(idx)}
	s.removeAt(idx)
	return item, true
}

func (s *Sampler[T]) removeAt(idx int) {
	weights := make([]uint64, 0, len(s.faces)-1)
	for i := range s.faces {
		if i != idx {
			weights = append(weights, s.weightAt(i))
		}
	}
	s.faces = append(s.faces[:idx], s.faces[idx+1:]...)
	s.rebuild(weights)
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Probability returns weight(face) / total weight. Both operands are
// reduced by their greatest common divisor before the floating-point
// division to minimize rounding error. Returns 0 for absent faces and
// for empty samplers.
func (s *Sampler[T]) Probability(face T) float64 {
	w := s.Weight(face)
	total := s.Total()
	if w == 0 || total == 0 {
		return 0
	}
	g := gcd(w, total)
	return float64(w/g) / float64(total/g)
}

// DrawAt performs a deterministic weighted draw. Any roll value is
// valid: it is reduced modulo the total weight, so values past the
// total wrap around to the first faces. The selected face is the one
// whose cumulative weight first exceeds the reduced roll, found by
// binary search. Returns false when the sampler is empty or all
// weights are zero.
func (s *Sampler[T]) DrawAt(roll uint64) (T, bool) {
	var zero T
	total := s.Total()
	if len(s.faces) == 0 || total == 0 {
		return zero, false
	}
	roll %= total
	idx := sort.Search(len(s.running), func(i int) bool {
		return s.running[i] > roll
	})
	return s.faces[idx], true
}

// Draw performs a weighted draw using the configured Source. It
// returns ErrNoSource when no source has been set; an empty sampler
// returns false with a nil error.
func (s *Sampler[T]) Draw() (T, bool, error) {
	var zero T
	if s.src == nil {
		return zero, false, ErrNoSource
	}
	total := s.Total()
	if len(s.faces) == 0 || total == 0 {
		return zero, false, nil
	}
	face, ok := s.DrawAt(s.src.Uint64N(total))
	return face, ok, nil
}
