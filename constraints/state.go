package constraints

import (
	"fmt"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set"

	"github.com/powellquiring/wordlesolver/wordle"
)

// State summarises every turn of one game.  It only ever gets stricter: Accumulate returns a new
// State and leaves its argument alone, so a State can be shared once built.  Callers must not
// modify the maps.
type State struct {
	// Fixed maps a position to the letter known to be there.
	Fixed map[int]byte
	// ExcludedPositions maps a letter to the set of positions (int) it is known not to occupy.
	ExcludedPositions map[byte]mapset.Set
	// MinCount is the largest number of copies of a letter any one turn proved.
	MinCount map[byte]int
	// MaxCount is the smallest upper bound any turn proved, never below MinCount.
	MaxCount map[byte]int
	// GloballyExcluded holds letters (byte) that are not in the answer at all.
	GloballyExcluded mapset.Set

	length int
	turns  int
}

// NewState returns the state of a game before the first guess.
func NewState() *State {
	return &State{
		Fixed:             make(map[int]byte),
		ExcludedPositions: make(map[byte]mapset.Set),
		MinCount:          make(map[byte]int),
		MaxCount:          make(map[byte]int),
		GloballyExcluded:  mapset.NewThreadUnsafeSet(),
	}
}

// Accumulate folds one turn into state and returns the result.  A nil state is the empty state.
func Accumulate(state *State, guess wordle.Word, pattern wordle.Pattern) (*State, error) {
	observation, err := Observe(guess, pattern)
	if err != nil {
		return nil, err
	}
	return AccumulateObservation(state, observation)
}

func AccumulateObservation(state *State, o Observation) (*State, error) {
	if state == nil {
		state = NewState()
	}
	if state.length != 0 && len(o.Guess) != state.length {
		return nil, fmt.Errorf("%w: guess %q has %d letters, earlier guesses had %d", wordle.ErrInvalidInput, o.Guess, len(o.Guess), state.length)
	}
	for i, s := range o.Pattern {
		if s != wordle.Correct {
			continue
		}
		if fixed, ok := state.Fixed[i]; ok && fixed != o.Guess[i] {
			return nil, fmt.Errorf("%w: position %d is already known to be %c, not %c", wordle.ErrInvalidInput, i+1, fixed, o.Guess[i])
		}
	}

	ret := state.Clone()
	ret.length = len(o.Guess)
	ret.turns++
	for i, s := range o.Pattern {
		letter := o.Guess[i]
		switch s {
		case wordle.Correct:
			ret.Fixed[i] = letter
		case wordle.Present, wordle.Absent:
			ret.excludePosition(letter, i)
		}
	}
	for letter, n := range o.PresentCount {
		if n > ret.MinCount[letter] {
			ret.MinCount[letter] = n
		}
	}
	for letter, n := range o.UpperBound {
		if current, ok := ret.MaxCount[letter]; !ok || n < current {
			ret.MaxCount[letter] = n
		}
	}
	ret.GloballyExcluded = ret.GloballyExcluded.Union(o.LocallyExcluded)
	// a proven lower bound wins over a stale upper bound
	for letter, n := range ret.MinCount {
		if current, ok := ret.MaxCount[letter]; ok && current < n {
			ret.MaxCount[letter] = n
		}
	}
	return ret, nil
}

func (s *State) excludePosition(letter byte, position int) {
	positions, ok := s.ExcludedPositions[letter]
	if !ok {
		positions = mapset.NewThreadUnsafeSet()
		s.ExcludedPositions[letter] = positions
	}
	positions.Add(position)
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	ret := &State{
		Fixed:             make(map[int]byte, len(s.Fixed)),
		ExcludedPositions: make(map[byte]mapset.Set, len(s.ExcludedPositions)),
		MinCount:          make(map[byte]int, len(s.MinCount)),
		MaxCount:          make(map[byte]int, len(s.MaxCount)),
		GloballyExcluded:  s.GloballyExcluded.Clone(),
		length:            s.length,
		turns:             s.turns,
	}
	for k, v := range s.Fixed {
		ret.Fixed[k] = v
	}
	for k, v := range s.ExcludedPositions {
		ret.ExcludedPositions[k] = v.Clone()
	}
	for k, v := range s.MinCount {
		ret.MinCount[k] = v
	}
	for k, v := range s.MaxCount {
		ret.MaxCount[k] = v
	}
	return ret
}

// Turns is the number of observations folded into the state.
func (s *State) Turns() int {
	return s.turns
}

// WordLength is the length of the guesses seen so far, 0 before the first.
func (s *State) WordLength() int {
	return s.length
}

// String is a stable one line summary, e.g. "fixed r2 e5; not-at a1; min a1 e1 r1; excluded o s".
func (s *State) String() string {
	var parts []string
	if len(s.Fixed) > 0 {
		positions := make([]int, 0, len(s.Fixed))
		for pos := range s.Fixed {
			positions = append(positions, pos)
		}
		sort.Ints(positions)
		items := make([]string, 0, len(positions))
		for _, pos := range positions {
			items = append(items, fmt.Sprintf("%c%d", s.Fixed[pos], pos+1))
		}
		parts = append(parts, "fixed "+strings.Join(items, " "))
	}
	if len(s.ExcludedPositions) > 0 {
		var items []string
		for _, letter := range sortedLetters(s.ExcludedPositions) {
			var positions []int
			s.ExcludedPositions[letter].Each(func(p interface{}) bool {
				positions = append(positions, p.(int))
				return false
			})
			sort.Ints(positions)
			for _, pos := range positions {
				items = append(items, fmt.Sprintf("%c%d", letter, pos+1))
			}
		}
		parts = append(parts, "not-at "+strings.Join(items, " "))
	}
	if len(s.MinCount) > 0 {
		parts = append(parts, "min "+countsString(s.MinCount))
	}
	if len(s.MaxCount) > 0 {
		parts = append(parts, "max "+countsString(s.MaxCount))
	}
	if s.GloballyExcluded.Cardinality() > 0 {
		var letters []string
		s.GloballyExcluded.Each(func(l interface{}) bool {
			letters = append(letters, string(l.(byte)))
			return false
		})
		sort.Strings(letters)
		parts = append(parts, "excluded "+strings.Join(letters, " "))
	}
	if len(parts) == 0 {
		return "no constraints"
	}
	return strings.Join(parts, "; ")
}

func countsString(counts map[byte]int) string {
	items := make([]string, 0, len(counts))
	for _, letter := range sortedLetters(counts) {
		items = append(items, fmt.Sprintf("%c%d", letter, counts[letter]))
	}
	return strings.Join(items, " ")
}

func sortedLetters[V any](m map[byte]V) []byte {
	ret := make([]byte, 0, len(m))
	for letter := range m {
		ret = append(ret, letter)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })
	return ret
}
