package wordle

import (
	"fmt"
	"strings"
)

// Alphabet is the number of letters a word may be drawn from, 'a'..'z'.
const Alphabet = 26

// Word is a fixed-length sequence of lowercase letters.
type Word string

// ParseWord validates s as a word.  Upper case is rejected rather than folded, callers reading
// user input lower case it first.
func ParseWord(s string) (Word, error) {
	ret := Word(s)
	if err := ret.Validate(); err != nil {
		return "", err
	}
	return ret, nil
}

// MustParseWord is ParseWord for literals, it panics on a malformed word.
func MustParseWord(s string) Word {
	ret, err := ParseWord(s)
	if err != nil {
		panic(err)
	}
	return ret
}

func (w Word) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: empty word", ErrInvalidInput)
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return fmt.Errorf("%w: %q has non-alphabetic character at position %d", ErrInvalidInput, string(w), i+1)
		}
	}
	return nil
}

func (w Word) Len() int {
	return len(w)
}

// LetterCounts returns the number of occurrences of each letter, indexed by letter-'a'.
func (w Word) LetterCounts() [Alphabet]int {
	var ret [Alphabet]int
	for i := 0; i < len(w); i++ {
		ret[w[i]-'a']++
	}
	return ret
}

// Count returns how many times letter occurs in w.
func (w Word) Count(letter byte) int {
	return strings.Count(string(w), string(letter))
}

// Letters returns the distinct letters of w in order of first appearance.
func (w Word) Letters() []byte {
	var seen [Alphabet]bool
	ret := make([]byte, 0, len(w))
	for i := 0; i < len(w); i++ {
		if !seen[w[i]-'a'] {
			seen[w[i]-'a'] = true
			ret = append(ret, w[i])
		}
	}
	return ret
}

func (w Word) String() string {
	return string(w)
}

func WordsToStrings(words []Word) []string {
	ret := make([]string, 0, len(words))
	for _, word := range words {
		ret = append(ret, string(word))
	}
	return ret
}
