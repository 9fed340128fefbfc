package constraints

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powellquiring/wordlesolver/wordle"
)

func WW(s string) wordle.Word {
	return wordle.MustParseWord(s)
}

func accumulate(t *testing.T, state *State, guess, pattern string) *State {
	t.Helper()
	ret, err := Accumulate(state, WW(guess), wordle.MustParsePattern(pattern))
	require.NoError(t, err)
	return ret
}

func TestObserve(t *testing.T) {
	o, err := Observe(WW("speed"), wordle.MustParsePattern("00101"))
	require.NoError(t, err)
	assert.Equal(t, map[byte]int{'e': 1, 'd': 1}, o.PresentCount)
	assert.Equal(t, map[byte]int{'s': 1, 'p': 1, 'e': 2, 'd': 1}, o.GuessCount)
	assert.Equal(t, map[byte]int{'s': 0, 'p': 0, 'e': 1}, o.UpperBound)
	assert.True(t, o.LocallyExcluded.Contains(byte('s'), byte('p')))
	assert.Equal(t, 2, o.LocallyExcluded.Cardinality())

	_, err = Observe(WW("speed"), wordle.MustParsePattern("0010"))
	assert.ErrorIs(t, err, wordle.ErrInvalidInput)
	_, err = Observe(wordle.Word("spEed"), wordle.MustParsePattern("00100"))
	assert.ErrorIs(t, err, wordle.ErrInvalidInput)
	_, err = Observe(WW("speed"), wordle.Pattern{0, 0, 1, 0, 5})
	assert.ErrorIs(t, err, wordle.ErrInvalidInput)
}

func TestAccumulateArose(t *testing.T) {
	state := accumulate(t, nil, "arose", "12002")
	assert.Equal(t, "fixed r2 e5; not-at a1 o3 s4; min a1 e1 r1; max o0 s0; excluded o s", state.String())
	assert.Equal(t, 1, state.Turns())
	assert.Equal(t, 5, state.WordLength())
	assert.Equal(t, "no constraints", NewState().String())
}

func TestAccumulateDoesNotMutate(t *testing.T) {
	first := accumulate(t, nil, "arose", "12002")
	before := first.String()
	second := accumulate(t, first, "crane", "22222")
	assert.Equal(t, before, first.String())
	assert.Equal(t, 1, first.Turns())
	assert.Equal(t, 2, second.Turns())
	assert.NotEqual(t, before, second.String())
}

func TestAccumulateCounts(t *testing.T) {
	// min count is the max over turns, not the sum
	state := accumulate(t, nil, "aabcd", "11000")
	state = accumulate(t, state, "aefgh", "10000")
	assert.Equal(t, 2, state.MinCount['a'])
	_, capped := state.MaxCount['a']
	assert.False(t, capped)

	// a surplus copy caps the count at what was marked that turn
	state = accumulate(t, nil, "aabcd", "10000")
	assert.Equal(t, 1, state.MaxCount['a'])
	assert.Equal(t, 1, state.MinCount['a'])

	// a later turn without surplus copies keeps the cap
	state = accumulate(t, nil, "aabcd", "10000")
	state = accumulate(t, state, "efagh", "00100")
	assert.Equal(t, 1, state.MaxCount['a'])
	assert.Equal(t, 1, state.MinCount['a'])
}

func TestAccumulateLowerBoundRaisesUpperBound(t *testing.T) {
	state := accumulate(t, nil, "aabcd", "10000")
	assert.Equal(t, 1, state.MaxCount['a'])
	state = accumulate(t, state, "eaafg", "01100")
	assert.Equal(t, 2, state.MinCount['a'])
	assert.Equal(t, 2, state.MaxCount['a'])
}

func TestAccumulateGlobalExclusion(t *testing.T) {
	// absent in one occurrence, present in another: only the position is excluded
	state := accumulate(t, nil, "speed", "00101")
	assert.False(t, state.GloballyExcluded.Contains(byte('e')))
	assert.True(t, state.GloballyExcluded.Contains(byte('s')))
	assert.True(t, state.ExcludedPositions['e'].Contains(3))
	assert.True(t, state.ExcludedPositions['e'].Contains(2))
}

func TestAccumulateInvalid(t *testing.T) {
	state := accumulate(t, nil, "arose", "12002")
	_, err := Accumulate(state, WW("tulips"), wordle.MustParsePattern("000000"))
	assert.ErrorIs(t, err, wordle.ErrInvalidInput)
	_, err = Accumulate(state, WW("tulip"), wordle.MustParsePattern("0000"))
	assert.ErrorIs(t, err, wordle.ErrInvalidInput)
	// position 2 is already an r
	_, err = Accumulate(state, WW("boney"), wordle.MustParsePattern("02000"))
	assert.ErrorIs(t, err, wordle.ErrInvalidInput)
}

func testMatching(t *testing.T, words []string, guess, pattern string, expected []string) {
	t.Helper()
	dict, err := wordle.NewDictionary(words)
	require.NoError(t, err)
	state := accumulate(t, nil, guess, pattern)
	sort.Strings(expected)

	matching := NewMatcher(dict).Filter(state).Strings()
	sort.Strings(matching)
	assert.Equal(t, expected, matching)

	filtered := Filter(dict, state).Strings()
	sort.Strings(filtered)
	assert.Equal(t, expected, filtered)
}

func TestMatching1(t *testing.T) {
	testMatching(t, []string{"aaaaa", "abbbb"}, "aazzz", "ggrrr", []string{"aaaaa"})
	testMatching(t, []string{"aaaaa", "abbbb"}, "bzzzz", "yrrrr", []string{"abbbb"})
}

func TestMatching3(t *testing.T) {
	testMatching(t,
		[]string{"aaazz", "abbbb", "bcazz"},
		"bxxac", "yrryr", // answer abbbb
		[]string{"abbbb"},
	)
}

func TestMatching4(t *testing.T) {
	testMatching(t,
		[]string{"aaazz", "abbzz", "abczz", "abazz", "bbazz"},
		"xabxx", "ryyrr", // answer abazz
		[]string{"abczz", "abazz", "bbazz"},
	)
}

func TestGreenYellow(t *testing.T) {
	testMatching(t,
		[]string{"aaazz", "abbzz", "abczz", "abazz", "bbazz", "azzza", "azzzz"},
		"axxxa", "grrry", // answer abazz
		[]string{"aaazz", "abazz"},
	)
}

func TestYellowRed(t *testing.T) {
	testMatching(t,
		[]string{"aaazz", "abbzz", "abczz", "abazz", "bbazz", "azzza", "azzzz", "aazzz", "aaazz"},
		"axxaa", "grryr", // answer abazz, two a's, but not 3
		[]string{"abazz", "aazzz"},
	)
}

func TestMatcherUnknownLetters(t *testing.T) {
	dict := wordle.MustNewDictionary("abcde", "bcdea")
	matcher := NewMatcher(dict)
	// q is fixed but no word has a q there
	state := accumulate(t, nil, "qzzzz", "20000")
	assert.Equal(t, 0, matcher.Filter(state).Len())
	// two q's needed, no word has any
	state = accumulate(t, nil, "qqzzz", "11000")
	assert.Equal(t, 0, matcher.Filter(state).Len())
	assert.Equal(t, 0, Filter(dict, state).Len())
	// other length
	state = accumulate(t, nil, "abc", "000")
	assert.Equal(t, 0, matcher.Filter(state).Len())
	assert.Equal(t, 0, Filter(dict, state).Len())
}

// Play random games with true feedback: the answer always survives, the candidate set only
// shrinks, and the matcher agrees with the plain predicate.
func TestFilterSoundAndMonotonic(t *testing.T) {
	dict := wordle.DefaultDictionary()
	matcher := NewMatcher(dict)
	words := dict.Words()
	r := rand.New(rand.NewSource(7))
	for game := 0; game < 200; game++ {
		answer := words[r.Intn(len(words))]
		state := NewState()
		prev := dict.WordlistAll()
		for turn := 0; turn < 6; turn++ {
			guess := words[r.Intn(len(words))]
			next, err := Accumulate(state, guess, wordle.MustFeedback(guess, answer))
			require.NoError(t, err)
			state = next

			candidates := Filter(dict, state)
			assert.True(t, candidates.Contains(answer), "%s lost after %s: %s", answer, guess, state)
			assert.True(t, candidates.IsSubset(prev))
			assert.Equal(t, candidates.Words(), matcher.Filter(state).Words(), state.String())
			assert.Equal(t, candidates.Words(), matcher.FilterWithin(prev, state).Words(), state.String())
			assert.Equal(t, candidates.Words(), FilterWords(words, state))
			prev = candidates
		}
	}
}

func TestFilterWithinOtherDictionary(t *testing.T) {
	matcher := NewMatcher(wordle.MustNewDictionary("abcde"))
	other := wordle.MustNewDictionary("abcde")
	assert.Panics(t, func() { matcher.FilterWithin(other.WordlistAll(), NewState()) })
}
