package markov

import (
	"errors"
	"testing"

	"github.com/erinpentecost/markovr/pkg/weighted"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// alphabetModel trains a first-order model on consecutive letter
// pairs: a->b, b->c, ..., y->z.
func alphabetModel(t *testing.T) *Model[rune] {
	t.Helper()
	m := New[rune](1, nil)
	letters := []rune(alphabet)
	for i := 1; i < len(letters); i++ {
		if err := m.Train([]rune{letters[i-1]}, letters[i], 1); err != nil {
			t.Fatalf("Train() failed: %v", err)
		}
	}
	return m
}

func TestGenerateUntrained(t *testing.T) {
	for _, order := range []int{0, 1, 2} {
		m := New[int](order, nil)
		window := make([]int, order)

		if _, ok, err := m.Generate(window); ok || err != nil {
			t.Errorf("order %d: Generate on empty model = (ok=%v, err=%v), want (false, nil)", order, ok, err)
		}
		if _, ok, err := m.GenerateAt(window, 33); ok || err != nil {
			t.Errorf("order %d: GenerateAt on empty model = (ok=%v, err=%v), want (false, nil)", order, ok, err)
		}
		// An oversized window truncates and still finds nothing.
		if _, ok, err := m.Generate(append(window, 1)); ok || err != nil {
			t.Errorf("order %d: Generate with long window = (ok=%v, err=%v), want (false, nil)", order, ok, err)
		}
	}
}

func TestAlphabetFirstOrder(t *testing.T) {
	m := alphabetModel(t)
	m.SetSource(weighted.NewSource(1))

	letters := []rune(alphabet)
	for i := 0; i < len(letters)-1; i++ {
		// Each context has exactly one successor, so any roll and any
		// seed must produce it.
		got, ok, err := m.GenerateAt([]rune{letters[i]}, 12345)
		if err != nil || !ok || got != letters[i+1] {
			t.Fatalf("GenerateAt(%q) = (%q, %v, %v), want (%q, true, nil)", letters[i], got, ok, err, letters[i+1])
		}
		got, ok, err = m.Generate([]rune{letters[i]})
		if err != nil || !ok || got != letters[i+1] {
			t.Fatalf("Generate(%q) = (%q, %v, %v), want (%q, true, nil)", letters[i], got, ok, err, letters[i+1])
		}
	}

	// 'z' never appears as context, so generation dead-ends there.
	if _, ok, err := m.Generate([]rune{'z'}); ok || err != nil {
		t.Errorf("Generate('z') = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	if p, err := m.Probability([]rune{'y'}, 'z'); err != nil || p != 1.0 {
		t.Errorf("Probability(y -> z) = (%v, %v), want (1.0, nil)", p, err)
	}
	if p, err := m.Probability([]rune{'a'}, 'z'); err != nil || p != 0.0 {
		t.Errorf("Probability(a -> z) = (%v, %v), want (0.0, nil)", p, err)
	}
}

func TestAlphabetSecondOrder(t *testing.T) {
	m := New[rune](2, nil)
	letters := []rune(alphabet)
	for i := 2; i < len(letters); i++ {
		if err := m.Train([]rune{letters[i-2], letters[i-1]}, letters[i], 1); err != nil {
			t.Fatalf("Train() failed: %v", err)
		}
	}

	for i := 1; i < len(letters)-1; i++ {
		got, ok, err := m.GenerateAt([]rune{letters[i-1], letters[i]}, 0)
		if err != nil || !ok || got != letters[i+1] {
			t.Fatalf("GenerateAt(%q%q) = (%q, %v, %v), want (%q, true, nil)",
				letters[i-1], letters[i], got, ok, err, letters[i+1])
		}
	}
}

func TestWindowTruncation(t *testing.T) {
	m := alphabetModel(t)

	// Only the most recent Order elements count, so the garbage at
	// the front of the window is ignored.
	got, ok, err := m.GenerateAt([]rune("xya"), 0)
	if err != nil || !ok || got != 'b' {
		t.Errorf("GenerateAt(xya) = (%q, %v, %v), want ('b', true, nil)", got, ok, err)
	}
}

func TestShortWindow(t *testing.T) {
	m := New[rune](2, nil)

	if err := m.Train([]rune{'a'}, 'b', 1); !errors.Is(err, ErrShortWindow) {
		t.Errorf("Train with short window: got %v, want ErrShortWindow", err)
	}
	if _, _, err := m.Generate([]rune{'a'}); !errors.Is(err, ErrShortWindow) {
		t.Errorf("Generate with short window: got %v, want ErrShortWindow", err)
	}
	if _, _, err := m.GenerateAt([]rune{'a'}, 0); !errors.Is(err, ErrShortWindow) {
		t.Errorf("GenerateAt with short window: got %v, want ErrShortWindow", err)
	}
	if _, err := m.Probability([]rune{'a'}, 'b'); !errors.Is(err, ErrShortWindow) {
		t.Errorf("Probability with short window: got %v, want ErrShortWindow", err)
	}
	if _, _, err := m.GeneratePartial([]Term[rune]{Unknown[rune]()}); !errors.Is(err, ErrShortWindow) {
		t.Errorf("GeneratePartial with short window: got %v, want ErrShortWindow", err)
	}
}

func TestGenerateNoSource(t *testing.T) {
	m := alphabetModel(t)

	// A trained context with no source must fail loudly, not fall
	// back to some fixed draw.
	if _, _, err := m.Generate([]rune{'a'}); !errors.Is(err, weighted.ErrNoSource) {
		t.Errorf("Generate without source: got %v, want ErrNoSource", err)
	}
	// Deterministic generation never needs a source.
	if _, ok, err := m.GenerateAt([]rune{'a'}, 0); !ok || err != nil {
		t.Errorf("GenerateAt without source = (ok=%v, err=%v), want (true, nil)", ok, err)
	}
}

func TestWildcardPartial(t *testing.T) {
	m := New[string](2, []int{0})
	if err := m.Train([]string{"X", "Y"}, "Z", 1); err != nil {
		t.Fatalf("Train() failed: %v", err)
	}

	// The model was never trained on an exact (unknown, Y) context;
	// the wildcard variant recorded at training time answers it.
	partial := []Term[string]{Unknown[string](), Known("Y")}
	got, ok, err := m.GeneratePartialAt(partial, 7)
	if err != nil || !ok || got != "Z" {
		t.Fatalf("GeneratePartialAt = (%q, %v, %v), want (Z, true, nil)", got, ok, err)
	}
	if p, err := m.ProbabilityPartial(partial, "Z"); err != nil || p != 1.0 {
		t.Errorf("ProbabilityPartial = (%v, %v), want (1.0, nil)", p, err)
	}

	m.SetSource(weighted.NewSource(3))
	got, ok, err = m.GeneratePartial(partial)
	if err != nil || !ok || got != "Z" {
		t.Errorf("GeneratePartial = (%q, %v, %v), want (Z, true, nil)", got, ok, err)
	}

	// Position 1 was not optional, so a wildcard there matches nothing.
	badPartial := []Term[string]{Known("X"), Unknown[string]()}
	if _, ok, err := m.GeneratePartialAt(badPartial, 0); ok || err != nil {
		t.Errorf("wildcard at non-optional position = (ok=%v, err=%v), want (false, nil)", ok, err)
	}

	// The exact context still answers too.
	got, ok, err = m.GenerateAt([]string{"X", "Y"}, 0)
	if err != nil || !ok || got != "Z" {
		t.Errorf("GenerateAt(X, Y) = (%q, %v, %v), want (Z, true, nil)", got, ok, err)
	}
}

func TestOrderZero(t *testing.T) {
	// Order 0 is a context-free weighted sampler: one empty key that
	// every query matches.
	m := New[string](0, nil)
	if err := m.Train(nil, "heads", 3); err != nil {
		t.Fatalf("Train() failed: %v", err)
	}
	if err := m.Train(nil, "tails", 1); err != nil {
		t.Fatalf("Train() failed: %v", err)
	}

	if p, err := m.Probability(nil, "heads"); err != nil || p != 0.75 {
		t.Errorf("Probability(heads) = (%v, %v), want (0.75, nil)", p, err)
	}
	got, ok, err := m.GenerateAt(nil, 3)
	if err != nil || !ok || got != "tails" {
		t.Errorf("GenerateAt(nil, 3) = (%q, %v, %v), want (tails, true, nil)", got, ok, err)
	}
	// Context elements are ignored entirely at order 0.
	got, ok, err = m.GenerateAt([]string{"anything"}, 0)
	if err != nil || !ok || got != "heads" {
		t.Errorf("GenerateAt with ignored context = (%q, %v, %v), want (heads, true, nil)", got, ok, err)
	}
}

func TestGenerateUnseenElement(t *testing.T) {
	m := alphabetModel(t)

	// '?' was never trained anywhere, so no context can contain it.
	if _, ok, err := m.Generate([]rune{'?'}); ok || err != nil {
		t.Errorf("Generate(untrained element) = (ok=%v, err=%v), want (false, nil)", ok, err)
	}
	if p, err := m.Probability([]rune{'?'}, 'a'); err != nil || p != 0.0 {
		t.Errorf("Probability(untrained element) = (%v, %v), want (0.0, nil)", p, err)
	}
}
