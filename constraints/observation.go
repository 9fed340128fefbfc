package constraints

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"

	"github.com/powellquiring/wordlesolver/wordle"
)

// Observation is what a single turn says about the answer, derived from the guess and the
// pattern shown for it.
type Observation struct {
	Guess   wordle.Word
	Pattern wordle.Pattern
	// PresentCount is the number of positions each letter was marked Present or Correct.
	PresentCount map[byte]int
	// GuessCount is the number of times each letter was guessed.
	GuessCount map[byte]int
	// UpperBound holds the letters guessed more often than they were marked: the answer has
	// exactly PresentCount copies of them.
	UpperBound map[byte]int
	// LocallyExcluded holds letters marked Absent and nowhere Present or Correct this turn.
	LocallyExcluded mapset.Set
}

// Observe derives the per turn record for guess and the pattern it received.
func Observe(guess wordle.Word, pattern wordle.Pattern) (Observation, error) {
	if err := guess.Validate(); err != nil {
		return Observation{}, err
	}
	if err := pattern.Validate(); err != nil {
		return Observation{}, err
	}
	if len(guess) != len(pattern) {
		return Observation{}, fmt.Errorf("%w: guess %q has %d letters, pattern %s has %d", wordle.ErrInvalidInput, guess, len(guess), pattern, len(pattern))
	}
	ret := Observation{
		Guess:           guess,
		Pattern:         pattern,
		PresentCount:    make(map[byte]int, len(guess)),
		GuessCount:      make(map[byte]int, len(guess)),
		UpperBound:      make(map[byte]int),
		LocallyExcluded: mapset.NewThreadUnsafeSet(),
	}
	for i, s := range pattern {
		letter := guess[i]
		ret.GuessCount[letter]++
		if s != wordle.Absent {
			ret.PresentCount[letter]++
		}
	}
	for letter, guessed := range ret.GuessCount {
		if present := ret.PresentCount[letter]; guessed > present {
			ret.UpperBound[letter] = present
		}
	}
	for i, s := range pattern {
		if s == wordle.Absent && ret.PresentCount[guess[i]] == 0 {
			ret.LocallyExcluded.Add(guess[i])
		}
	}
	return ret, nil
}
