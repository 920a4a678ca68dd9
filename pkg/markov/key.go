package markov

import (
	"strconv"
	"strings"

	"github.com/erinpentecost/markovr/pkg/weighted"
)

// Context keys are the last `order` elements of a window, interned to
// element IDs and joined with spaces, the same way prefixes are keyed
// elsewhere in this project's lineage. A wildcard slot is "_", which
// can never collide with a decimal ID.
const wildcardSlot = "_"

func (m *Model[T]) intern(e T) int {
	if id, ok := m.vocab[e]; ok {
		return id
	}
	id := len(m.elems)
	m.vocab[e] = id
	m.elems = append(m.elems, e)
	return id
}

// keyOf renders interned IDs as a map key. A nil or empty slice
// yields the empty key, which is the single context of an order-0
// model.
func keyOf(ids []int64) string {
	var buf []byte
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ' ')
		}
		if id < 0 {
			buf = append(buf, wildcardSlot...)
		} else {
			buf = strconv.AppendInt(buf, id, 10)
		}
	}
	return string(buf)
}

// trainIDs derives the effective full-context IDs for a training
// window, interning any new elements.
func (m *Model[T]) trainIDs(window []T) ([]int64, error) {
	if len(window) < m.order {
		return nil, ErrShortWindow
	}
	window = window[len(window)-m.order:]
	ids := make([]int64, len(window))
	for i, e := range window {
		ids[i] = int64(m.intern(e))
	}
	return ids, nil
}

// lookupIDs derives context IDs for a read-only query. The second
// return is false when some known element was never trained, in which
// case no context containing it can exist.
func (m *Model[T]) lookupIDs(terms []Term[T]) ([]int64, bool, error) {
	if len(terms) < m.order {
		return nil, false, ErrShortWindow
	}
	terms = terms[len(terms)-m.order:]
	ids := make([]int64, len(terms))
	for i, t := range terms {
		if !t.known {
			ids[i] = -1
			continue
		}
		id, ok := m.vocab[t.value]
		if !ok {
			return nil, false, nil
		}
		ids[i] = int64(id)
	}
	return ids, true, nil
}

func knownTerms[T comparable](window []T) []Term[T] {
	terms := make([]Term[T], len(window))
	for i, e := range window {
		terms[i] = Known(e)
	}
	return terms
}

// forEachVariant calls fn with the key of every wildcard variant of
// the full-context IDs: one variant per subset of the optional
// positions, 2^len(optional) in total. The loop is an explicit
// bitmask walk so large optional sets cannot blow the stack.
func (m *Model[T]) forEachVariant(ids []int64, fn func(key string) error) error {
	variant := make([]int64, len(ids))
	for mask := 0; mask < 1<<len(m.optional); mask++ {
		copy(variant, ids)
		for bit, pos := range m.optional {
			if mask&(1<<bit) != 0 {
				variant[pos] = -1
			}
		}
		if err := fn(keyOf(variant)); err != nil {
			return err
		}
	}
	return nil
}

// samplerFor fetches the sampler for a key, creating it when asked.
func (m *Model[T]) samplerFor(key string, create bool) (*weighted.Sampler[T], bool) {
	if s, ok := m.table[key]; ok {
		return s, true
	}
	if !create {
		return nil, false
	}
	s := weighted.New[T]()
	s.SetSource(m.src)
	m.table[key] = s
	return s, true
}

// decodeKey reverses keyOf back into context terms using the model's
// intern table.
func (m *Model[T]) decodeKey(key string) []Term[T] {
	if key == "" {
		return nil
	}
	slots := strings.Split(key, " ")
	terms := make([]Term[T], len(slots))
	for i, slot := range slots {
		if slot == wildcardSlot {
			terms[i] = Unknown[T]()
			continue
		}
		id, _ := strconv.Atoi(slot)
		terms[i] = Known(m.elems[id])
	}
	return terms
}
