package main

import (
	"fmt"

	"github.com/erinpentecost/markovr/pkg/markov"
)

// runAlphabet walks a first-order model trained on consecutive letter
// pairs. Every context has exactly one successor, so the walk is
// deterministic and needs no random source.
func runAlphabet() error {
	m := markov.New[rune](1, nil)
	if err := m.TrainSequence([]rune("abcdefghijklmnopqrstuvwxyz"), 1); err != nil {
		return err
	}

	last := 'a'
	fmt.Printf("%c", last)
	for {
		next, ok, err := m.GenerateAt([]rune{last}, 0)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		fmt.Printf(" %c", next)
		last = next
	}
	fmt.Println()

	pYZ, err := m.Probability([]rune{'y'}, 'z')
	if err != nil {
		return err
	}
	pAZ, err := m.Probability([]rune{'a'}, 'z')
	if err != nil {
		return err
	}
	fmt.Printf("P(z|y) = %v\nP(z|a) = %v\n", pYZ, pAZ)
	return nil
}
