package constraints

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/powellquiring/wordlesolver/wordle"
)

/*
Matcher indexes a dictionary so a State can be applied with a handful of bitset operations.

letters[0]['a'-'a'] is the set of words whose first letter is an a, letters[1] the second
letter and so on.  count['a'-'a'][0] is the set of words with 1 or more a, [1] with 2 or more.

a word is represented by its index into the dictionary
*/
type Matcher struct {
	dict    *wordle.Dictionary
	letters [][wordle.Alphabet]*bitset.BitSet
	count   [wordle.Alphabet][]*bitset.BitSet
}

func NewMatcher(dict *wordle.Dictionary) *Matcher {
	ret := &Matcher{
		dict:    dict,
		letters: make([][wordle.Alphabet]*bitset.BitSet, dict.WordLength()),
	}
	size := uint(dict.Len())
	for w, word := range dict.Words() {
		for l := 0; l < len(word); l++ {
			letter := word[l] - 'a'
			if ret.letters[l][letter] == nil {
				ret.letters[l][letter] = bitset.New(size)
			}
			ret.letters[l][letter].Set(uint(w))
		}
		for letter, count := range word.LetterCounts() {
			for c := 0; c < count; c++ {
				if len(ret.count[letter]) <= c {
					ret.count[letter] = append(ret.count[letter], bitset.New(size))
				}
				ret.count[letter][c].Set(uint(w))
			}
		}
	}
	return ret
}

func (m *Matcher) Dictionary() *wordle.Dictionary {
	return m.dict
}

// Filter returns the dictionary words consistent with state, the same set as Filter(dict, state).
func (m *Matcher) Filter(state *State) *wordle.WordList {
	return m.FilterWithin(m.dict.WordlistAll(), state)
}

// FilterWithin narrows prev, a candidate set of the matcher's dictionary.  Constraints only get
// stricter during a game so the previous turn's candidates can stand in for the dictionary.
func (m *Matcher) FilterWithin(prev *wordle.WordList, state *State) *wordle.WordList {
	if prev.Dictionary() != m.dict {
		panic("word list is not from the matcher's dictionary")
	}
	ret := prev.Bits().Clone()
	if state.length != 0 && state.length != m.dict.WordLength() {
		ret.ClearAll()
		return m.dict.WordlistFromBits(ret)
	}

	// greens: only words with the letter at that index
	for pos, letter := range state.Fixed {
		set := m.letters[pos][letter-'a']
		if set == nil {
			ret.ClearAll()
			return m.dict.WordlistFromBits(ret)
		}
		ret.InPlaceIntersection(set)
	}

	// yellows and grays: remove the words with the letter at that index
	for letter, positions := range state.ExcludedPositions {
		positions.Each(func(p interface{}) bool {
			if set := m.letters[p.(int)][letter-'a']; set != nil {
				ret.InPlaceDifference(set)
			}
			return false
		})
	}

	state.GloballyExcluded.Each(func(l interface{}) bool {
		if counts := m.count[l.(byte)-'a']; len(counts) > 0 {
			ret.InPlaceDifference(counts[0])
		}
		return false
	})

	// must have n or more copies
	for letter, n := range state.MinCount {
		if n == 0 {
			continue
		}
		counts := m.count[letter-'a']
		if len(counts) < n {
			ret.ClearAll()
			return m.dict.WordlistFromBits(ret)
		}
		ret.InPlaceIntersection(counts[n-1])
	}

	// must not have more than n copies
	for letter, n := range state.MaxCount {
		if counts := m.count[letter-'a']; len(counts) > n {
			ret.InPlaceDifference(counts[n])
		}
	}
	return m.dict.WordlistFromBits(ret)
}
