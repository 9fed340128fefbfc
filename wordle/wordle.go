package wordle

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Dictionary is the ordered, read-only set of words a game is played with.  Words are
// identified by their index, which is also their bit in a WordList.
type Dictionary struct {
	words        []Word
	stringToWord map[Word]int
	length       int
}

// NewDictionary builds a dictionary from strings that must all be valid words of one length.
// Duplicates keep their first position.
func NewDictionary(strings []string) (*Dictionary, error) {
	if len(strings) == 0 {
		return nil, fmt.Errorf("%w: empty dictionary", ErrInvalidInput)
	}
	ret := &Dictionary{
		words:        make([]Word, 0, len(strings)),
		stringToWord: make(map[Word]int, len(strings)),
	}
	for i, s := range strings {
		word, err := ParseWord(s)
		if err != nil {
			return nil, fmt.Errorf("dictionary entry %d: %w", i+1, err)
		}
		if ret.length == 0 {
			ret.length = len(word)
		} else if len(word) != ret.length {
			return nil, fmt.Errorf("%w: dictionary entry %d %q has %d letters, want %d", ErrInvalidInput, i+1, s, len(word), ret.length)
		}
		if _, ok := ret.stringToWord[word]; ok {
			continue
		}
		ret.stringToWord[word] = len(ret.words)
		ret.words = append(ret.words, word)
	}
	if ret.length > MaxCodeLength {
		return nil, fmt.Errorf("%w: words longer than %d letters are not supported", ErrInvalidInput, MaxCodeLength)
	}
	return ret, nil
}

// MustNewDictionary is NewDictionary for word lists known to be well formed.
func MustNewDictionary(strings ...string) *Dictionary {
	ret, err := NewDictionary(strings)
	if err != nil {
		panic(err)
	}
	return ret
}

func (d *Dictionary) Len() int {
	return len(d.words)
}

// WordLength is the number of letters in every word of the dictionary.
func (d *Dictionary) WordLength() int {
	return d.length
}

// Words returns the words in dictionary order.  The slice is shared and must not be modified.
func (d *Dictionary) Words() []Word {
	return d.words
}

func (d *Dictionary) Word(index int) Word {
	return d.words[index]
}

func (d *Dictionary) Index(word Word) (int, bool) {
	ret, ok := d.stringToWord[word]
	return ret, ok
}

func (d *Dictionary) Contains(word Word) bool {
	_, ok := d.stringToWord[word]
	return ok
}

// Truncate returns a dictionary of the first n words, or d itself when n is 0 or not smaller
// than the dictionary.
func (d *Dictionary) Truncate(n int) *Dictionary {
	if n <= 0 || n >= len(d.words) {
		return d
	}
	ret := &Dictionary{
		words:        d.words[:n:n],
		stringToWord: make(map[Word]int, n),
		length:       d.length,
	}
	for i, word := range ret.words {
		ret.stringToWord[word] = i
	}
	return ret
}

func (d *Dictionary) WordlistAll() *WordList {
	wordsLen := uint(len(d.words))
	return &WordList{dict: d, bits: bitset.New(wordsLen).Complement()}
}

func (d *Dictionary) WordlistEmpty() *WordList {
	return &WordList{dict: d, bits: bitset.New(uint(len(d.words)))}
}

// WordlistFromBits wraps a bitset indexed by dictionary position.
func (d *Dictionary) WordlistFromBits(bits *bitset.BitSet) *WordList {
	return &WordList{dict: d, bits: bits}
}

func (d *Dictionary) WordlistFromWords(words []Word) (*WordList, error) {
	ret := d.WordlistEmpty()
	for _, word := range words {
		if !ret.Insert(word) {
			return nil, fmt.Errorf("%w: %q is not in the dictionary", ErrInvalidInput, word)
		}
	}
	return ret, nil
}

// WordList is a subset of a dictionary, one bit per dictionary word.
type WordList struct {
	dict *Dictionary
	bits *bitset.BitSet
}

// Range iterates the words in dictionary order, i counts from 0.
func (wl *WordList) Range(yield func(i int, word Word) bool) {
	i := 0
	for index, ok := wl.bits.NextSet(0); ok; index, ok = wl.bits.NextSet(index + 1) {
		if !yield(i, wl.dict.words[index]) {
			return
		}
		i++
	}
}

func (wl *WordList) Words() []Word {
	ret := make([]Word, 0, wl.Len())
	for _, word := range wl.Range {
		ret = append(ret, word)
	}
	return ret
}

func (wl *WordList) Strings() []string {
	return WordsToStrings(wl.Words())
}

func (wl *WordList) Len() int {
	return int(wl.bits.Count())
}

func (wl *WordList) Contains(word Word) bool {
	index, ok := wl.dict.Index(word)
	return ok && wl.bits.Test(uint(index))
}

// Insert adds a dictionary word and reports false for words not in the dictionary.
func (wl *WordList) Insert(word Word) bool {
	index, ok := wl.dict.Index(word)
	if !ok {
		return false
	}
	wl.bits.Set(uint(index))
	return true
}

func (wl *WordList) FirstWord() (Word, bool) {
	index, ok := wl.bits.NextSet(0)
	if !ok {
		return "", false
	}
	return wl.dict.words[index], true
}

func (wl *WordList) Clone() *WordList {
	return &WordList{dict: wl.dict, bits: wl.bits.Clone()}
}

// IsSubset reports whether every word of wl is also in other.
func (wl *WordList) IsSubset(other *WordList) bool {
	return wl.bits.Difference(other.bits).None()
}

func (wl *WordList) Bits() *bitset.BitSet {
	return wl.bits
}

func (wl *WordList) Dictionary() *Dictionary {
	return wl.dict
}
