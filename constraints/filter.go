package constraints

import (
	"github.com/powellquiring/wordlesolver/wordle"
)

// Matches reports whether word is consistent with every turn folded into state.
func Matches(word wordle.Word, state *State) bool {
	if state.length != 0 && len(word) != state.length {
		return false
	}
	for i := 0; i < len(word); i++ {
		if state.GloballyExcluded.Contains(word[i]) {
			return false
		}
	}
	for pos, letter := range state.Fixed {
		if word[pos] != letter {
			return false
		}
	}
	for letter, positions := range state.ExcludedPositions {
		excluded := false
		positions.Each(func(p interface{}) bool {
			excluded = word[p.(int)] == letter
			return excluded
		})
		if excluded {
			return false
		}
	}
	counts := word.LetterCounts()
	for letter, n := range state.MinCount {
		if counts[letter-'a'] < n {
			return false
		}
	}
	for letter, n := range state.MaxCount {
		if counts[letter-'a'] > n {
			return false
		}
	}
	return true
}

// Filter returns the dictionary words consistent with state.
func Filter(dict *wordle.Dictionary, state *State) *wordle.WordList {
	ret := dict.WordlistEmpty()
	for _, word := range dict.Words() {
		if Matches(word, state) {
			ret.Insert(word)
		}
	}
	return ret
}

// FilterWords is Filter over a plain slice, order preserved.
func FilterWords(words []wordle.Word, state *State) []wordle.Word {
	var ret []wordle.Word
	for _, word := range words {
		if Matches(word, state) {
			ret = append(ret, word)
		}
	}
	return ret
}
