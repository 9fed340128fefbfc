package solver

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/powellquiring/wordlesolver/wordle"
)

// Criterion orders scored guesses.
type Criterion int

const (
	// MaxEntropy prefers the guess whose pattern distribution carries the most information.
	MaxEntropy Criterion = iota
	// MinExpectedRemaining prefers the guess leaving the fewest candidates on average.
	MinExpectedRemaining
)

func ParseCriterion(s string) (Criterion, error) {
	switch s {
	case "", "entropy":
		return MaxEntropy, nil
	case "expected":
		return MinExpectedRemaining, nil
	}
	return MaxEntropy, fmt.Errorf("%w: criterion %q, want entropy or expected", wordle.ErrInvalidInput, s)
}

func (c Criterion) String() string {
	if c == MinExpectedRemaining {
		return "expected"
	}
	return "entropy"
}

// entropies closer than this are equal
const tieTolerance = 1e-9

// Score is what a guess is expected to reveal about a candidate set.
type Score struct {
	Guess wordle.Word
	// Entropy in bits of the feedback pattern distribution over the candidates.
	Entropy float64
	// ExpectedRemaining is the mean size of the candidate set after the guess.
	ExpectedRemaining float64
	// Coverage sums, over the distinct letters of the guess, the candidates containing the letter.
	Coverage int
	// Patterns is the number of distinct patterns the guess can produce.
	Patterns int
}

func (s Score) String() string {
	return fmt.Sprintf("%s %.4f %.2f %d", s.Guess, s.Entropy, s.ExpectedRemaining, s.Coverage)
}

// Better reports whether a ranks ahead of b.
func (c Criterion) Better(a, b Score) bool {
	if c == MinExpectedRemaining {
		if d := a.ExpectedRemaining - b.ExpectedRemaining; math.Abs(d) > tieTolerance {
			return d < 0
		}
	}
	if d := a.Entropy - b.Entropy; math.Abs(d) > tieTolerance {
		return d > 0
	}
	if a.Coverage != b.Coverage {
		return a.Coverage > b.Coverage
	}
	return a.Guess < b.Guess
}

// letterPresence counts the candidates containing each letter at least once.
func letterPresence(candidates []wordle.Word) [wordle.Alphabet]int {
	var ret [wordle.Alphabet]int
	for _, word := range candidates {
		var seen [wordle.Alphabet]bool
		for i := 0; i < len(word); i++ {
			letter := word[i] - 'a'
			if !seen[letter] {
				seen[letter] = true
				ret[letter]++
			}
		}
	}
	return ret
}

// ScoreGuess buckets the candidates by the pattern guess would produce against each of them.
func ScoreGuess(guess wordle.Word, candidates []wordle.Word) Score {
	presence := letterPresence(candidates)
	return scoreGuess(guess, candidates, &presence, nil)
}

// largest word length whose patterns are counted in a slice rather than a map
const denseHistogramLength = 8

type histogram struct {
	dense  []int
	sparse map[uint32]int
}

func newHistogram(length int) *histogram {
	if length <= denseHistogramLength {
		return &histogram{dense: make([]int, int(math.Pow(3, float64(length))))}
	}
	return &histogram{sparse: make(map[uint32]int)}
}

func (h *histogram) reset() {
	if h.dense != nil {
		clear(h.dense)
	} else {
		clear(h.sparse)
	}
}

func (h *histogram) add(code uint32) {
	if h.dense != nil {
		h.dense[code]++
	} else {
		h.sparse[code]++
	}
}

func (h *histogram) each(f func(count int)) {
	if h.dense != nil {
		for _, c := range h.dense {
			if c > 0 {
				f(c)
			}
		}
		return
	}
	for _, c := range h.sparse {
		f(c)
	}
}

// scoreGuess reuses hist when it is not nil.
func scoreGuess(guess wordle.Word, candidates []wordle.Word, presence *[wordle.Alphabet]int, hist *histogram) Score {
	ret := Score{Guess: guess}
	for _, letter := range guess.Letters() {
		ret.Coverage += presence[letter-'a']
	}
	if len(candidates) == 0 {
		return ret
	}
	if hist == nil {
		hist = newHistogram(len(guess))
	} else {
		hist.reset()
	}
	for _, answer := range candidates {
		hist.add(wordle.FeedbackCode(guess, answer))
	}
	n := float64(len(candidates))
	hist.each(func(count int) {
		c := float64(count)
		p := c / n
		ret.Entropy -= p * math.Log2(p)
		ret.ExpectedRemaining += c * c / n
		ret.Patterns++
	})
	return ret
}

// Options control a scoring pass.
type Options struct {
	Criterion Criterion
	// Workers bounds the goroutines scoring the pool, 0 is GOMAXPROCS.
	Workers int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// scorePool scores every guess of the pool against the candidates.  Guesses are split into
// chunks scored in parallel; once ctx is done the workers stop and scored reports which
// entries of the result were filled in.
func scorePool(ctx context.Context, pool, candidates []wordle.Word, opts Options) (scores []Score, scored []bool) {
	scores = make([]Score, len(pool))
	scored = make([]bool, len(pool))
	if len(pool) == 0 {
		return scores, scored
	}
	presence := letterPresence(candidates)
	workers := opts.workers()
	chunk := (len(pool) + workers*4 - 1) / (workers * 4)

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(pool); start += chunk {
		end := min(start+chunk, len(pool))
		g.Go(func() error {
			hist := newHistogram(len(pool[start]))
			for i := start; i < end; i++ {
				if ctx.Err() != nil {
					return nil
				}
				scores[i] = scoreGuess(pool[i], candidates, &presence, hist)
				scored[i] = true
			}
			return nil
		})
	}
	// workers never fail
	_ = g.Wait()
	return scores, scored
}

// BestGuess scores the pool against the candidates and returns the best guess by the criterion.
// ok is false when there is nothing to choose from: an empty pool, no candidates, or a context
// that was done before any guess was scored.  A context done part way through returns the best
// of the guesses scored so far.
func BestGuess(ctx context.Context, pool, candidates []wordle.Word, opts Options) (best Score, ok bool) {
	if len(pool) == 0 || len(candidates) == 0 {
		return Score{}, false
	}
	scores, scored := scorePool(ctx, pool, candidates, opts)
	for i, score := range scores {
		if !scored[i] {
			continue
		}
		if !ok || opts.Criterion.Better(score, best) {
			best = score
			ok = true
		}
	}
	return best, ok
}

// Mode selects the words a guess may be drawn from.
type Mode int

const (
	// HardMode only guesses words that could still be the answer.
	HardMode Mode = iota
	// OpenMode guesses from the whole dictionary until few candidates remain.
	OpenMode
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "hard":
		return HardMode, nil
	case "open", "normal":
		return OpenMode, nil
	}
	return HardMode, fmt.Errorf("%w: mode %q, want hard or open", wordle.ErrInvalidInput, s)
}

func (m Mode) String() string {
	if m == OpenMode {
		return "open"
	}
	return "hard"
}

// PoolFor returns the guesses allowed in mode.  In OpenMode the whole dictionary is the pool while
// more than finish candidates remain.
func PoolFor(mode Mode, dict *wordle.Dictionary, candidates *wordle.WordList, finish int) []wordle.Word {
	if mode == OpenMode && candidates.Len() > finish {
		return dict.Words()
	}
	return candidates.Words()
}
