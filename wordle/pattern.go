package wordle

import (
	"fmt"
	"strings"
)

// Symbol is the feedback for one position of a guess.
type Symbol uint8

const (
	Absent Symbol = iota
	Present
	Correct
)

// Pattern is the feedback for a whole guess, one Symbol per position.
type Pattern []Symbol

// MaxCodeLength is the longest pattern whose Code fits in a uint32.
const MaxCodeLength = 20

// ParsePattern reads a pattern written with digits (0 absent, 1 present, 2 correct) or
// colours (r/b/x gray, y yellow, g green).  Separators ',' and ' ' are ignored.
func ParsePattern(s string) (Pattern, error) {
	ret := make(Pattern, 0, len(s))
	for _, c := range strings.ToLower(s) {
		switch c {
		case '0', 'r', 'b', 'x':
			ret = append(ret, Absent)
		case '1', 'y':
			ret = append(ret, Present)
		case '2', 'g':
			ret = append(ret, Correct)
		case ',', ' ':
		default:
			return nil, fmt.Errorf("%w: pattern %q has unknown symbol %q", ErrInvalidInput, s, c)
		}
	}
	if len(ret) == 0 {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidInput)
	}
	return ret, nil
}

func MustParsePattern(s string) Pattern {
	ret, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return ret
}

// AllCorrect returns the pattern of a solved guess of the given length.
func AllCorrect(length int) Pattern {
	ret := make(Pattern, length)
	for i := range ret {
		ret[i] = Correct
	}
	return ret
}

func (p Pattern) Validate() error {
	for i, s := range p {
		if s > Correct {
			return fmt.Errorf("%w: symbol %d at position %d", ErrInvalidInput, s, i+1)
		}
	}
	return nil
}

// Solved reports whether every position is Correct.
func (p Pattern) Solved() bool {
	for _, s := range p {
		if s != Correct {
			return false
		}
	}
	return len(p) > 0
}

// Code packs the pattern into a base 3 integer, first position most significant.
// Patterns longer than MaxCodeLength overflow and must not be coded.
func (p Pattern) Code() uint32 {
	ret := uint32(0)
	for _, s := range p {
		ret = ret*3 + uint32(s)
	}
	return ret
}

// String renders digits, "12002".
func (p Pattern) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('0' + byte(s))
	}
	return b.String()
}

// Colors renders the r/y/g form used when entering patterns by hand, "ygrrg".
func (p Pattern) Colors() string {
	var b strings.Builder
	for _, s := range p {
		switch s {
		case Absent:
			b.WriteByte('r')
		case Present:
			b.WriteByte('y')
		case Correct:
			b.WriteByte('g')
		default:
			panic(fmt.Sprintf("can not render symbol %d", s))
		}
	}
	return b.String()
}
