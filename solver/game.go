package solver

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/powellquiring/wordlesolver/constraints"
	"github.com/powellquiring/wordlesolver/wordle"
)

const (
	DefaultFinishThreshold = 12
	DefaultMaxTurns        = 6
)

// Config drives a Solver.  The zero value is hard mode, maximum entropy, no openers.
type Config struct {
	Mode      Mode
	Criterion Criterion
	// FinishThreshold is the candidate count at or below which OpenMode guesses candidates only.
	FinishThreshold int
	// Openers are guessed first, in order, while more than FinishThreshold candidates remain.
	Openers []wordle.Word
	// MaxTurns is the number of guesses a game allows.
	MaxTurns int
	// Workers bounds the scoring goroutines, 0 is GOMAXPROCS.
	Workers int
	// TurnDeadline bounds one scoring pass, 0 is no limit.
	TurnDeadline time.Duration
	Logger       zerolog.Logger
}

// DefaultConfig is hard mode with the default limits and a silent logger.
func DefaultConfig() Config {
	return Config{
		FinishThreshold: DefaultFinishThreshold,
		MaxTurns:        DefaultMaxTurns,
		Workers:         runtime.GOMAXPROCS(0),
		Logger:          zerolog.Nop(),
	}
}

// Solver holds the dictionary, its matcher index and the configuration shared by every game.
type Solver struct {
	dict    *wordle.Dictionary
	matcher *constraints.Matcher
	config  Config

	// the first suggestion only depends on the dictionary and config
	firstOnce  sync.Once
	first      Suggestion
	firstError error
}

// New checks the openers against the dictionary and fills in zero limits with the defaults.
func New(dict *wordle.Dictionary, config Config) (*Solver, error) {
	if config.FinishThreshold <= 0 {
		config.FinishThreshold = DefaultFinishThreshold
	}
	if config.MaxTurns <= 0 {
		config.MaxTurns = DefaultMaxTurns
	}
	for _, opener := range config.Openers {
		if !dict.Contains(opener) {
			return nil, fmt.Errorf("%w: opener %q is not in the dictionary", wordle.ErrInvalidInput, opener)
		}
	}
	return &Solver{
		dict:    dict,
		matcher: constraints.NewMatcher(dict),
		config:  config,
	}, nil
}

func (s *Solver) Dictionary() *wordle.Dictionary {
	return s.dict
}

func (s *Solver) Config() Config {
	return s.config
}

func (s *Solver) options() Options {
	return Options{Criterion: s.config.Criterion, Workers: s.config.Workers}
}

// Status says whether a Suggestion holds a guess or why it does not.
type Status int

const (
	StatusGuess Status = iota
	StatusSolved
	// StatusNoCandidates means the observations contradict every dictionary word.
	StatusNoCandidates
	// StatusNoGuess means nothing could be scored, e.g. the turn deadline passed immediately.
	StatusNoGuess
)

func (s Status) String() string {
	switch s {
	case StatusGuess:
		return "guess"
	case StatusSolved:
		return "solved"
	case StatusNoCandidates:
		return "no_candidates"
	case StatusNoGuess:
		return "no_guess"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type Suggestion struct {
	Guess  wordle.Word
	Score  Score
	Status Status
}

// Game is one puzzle in progress.  It is not safe for concurrent use.
type Game struct {
	solver     *Solver
	state      *constraints.State
	candidates *wordle.WordList
	guesses    []wordle.Word
	patterns   []wordle.Pattern
	solved     bool
}

func (s *Solver) NewGame() *Game {
	return &Game{
		solver:     s,
		state:      constraints.NewState(),
		candidates: s.dict.WordlistAll(),
	}
}

// Observe records the pattern shown for guess.  The guess need not be in the dictionary.
func (g *Game) Observe(guess wordle.Word, pattern wordle.Pattern) error {
	if len(guess) != g.solver.dict.WordLength() {
		return fmt.Errorf("%w: guess %q has %d letters, the dictionary has %d", wordle.ErrInvalidInput, guess, len(guess), g.solver.dict.WordLength())
	}
	state, err := constraints.Accumulate(g.state, guess, pattern)
	if err != nil {
		return err
	}
	g.state = state
	g.candidates = g.solver.matcher.FilterWithin(g.candidates, state)
	g.guesses = append(g.guesses, guess)
	g.patterns = append(g.patterns, pattern)
	g.solved = pattern.Solved()
	g.solver.config.Logger.Debug().
		Int("turn", len(g.guesses)).
		Str("guess", string(guess)).
		Str("pattern", pattern.String()).
		Int("candidates", g.candidates.Len()).
		Msg("observed")
	return nil
}

func (g *Game) Candidates() *wordle.WordList {
	return g.candidates
}

func (g *Game) State() *constraints.State {
	return g.state
}

// Turns is the number of guesses observed.
func (g *Game) Turns() int {
	return len(g.guesses)
}

func (g *Game) Guesses() []wordle.Word {
	return g.guesses
}

func (g *Game) Patterns() []wordle.Pattern {
	return g.patterns
}

// Solved reports whether the last pattern was all Correct.
func (g *Game) Solved() bool {
	return g.solved
}

// Next suggests the following guess.  The terminal statuses are not errors.
func (g *Game) Next(ctx context.Context) (Suggestion, error) {
	if g.solved {
		return Suggestion{Guess: g.guesses[len(g.guesses)-1], Status: StatusSolved}, nil
	}
	if g.Turns() == 0 {
		s := g.solver
		s.firstOnce.Do(func() {
			// the first suggestion is shared, keep one caller's deadline from cutting it short
			s.first, s.firstError = g.next(context.WithoutCancel(ctx))
		})
		return s.first, s.firstError
	}
	return g.next(ctx)
}

func (g *Game) next(ctx context.Context) (Suggestion, error) {
	s := g.solver
	config := s.config
	n := g.candidates.Len()
	switch {
	case n == 0:
		return Suggestion{Status: StatusNoCandidates}, nil
	case n == 1:
		answer, _ := g.candidates.FirstWord()
		return Suggestion{Guess: answer, Score: ScoreGuess(answer, []wordle.Word{answer}), Status: StatusGuess}, nil
	}

	turn := g.Turns()
	if turn < len(config.Openers) && n > config.FinishThreshold {
		opener := config.Openers[turn]
		// hard mode only plays an opener the earlier feedback still allows
		if config.Mode == OpenMode || constraints.Matches(opener, g.state) {
			return Suggestion{Guess: opener, Score: ScoreGuess(opener, g.candidates.Words()), Status: StatusGuess}, nil
		}
		config.Logger.Debug().Str("opener", string(opener)).Int("turn", turn+1).Msg("opener inconsistent in hard mode, scoring instead")
	}

	if config.TurnDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.TurnDeadline)
		defer cancel()
	}
	candidates := g.candidates.Words()
	pool := PoolFor(config.Mode, s.dict, g.candidates, config.FinishThreshold)
	best, ok := BestGuess(ctx, pool, candidates, s.options())
	if ctx.Err() != nil {
		config.Logger.Debug().Err(ctx.Err()).Int("turn", turn+1).Bool("ok", ok).Msg("scoring cut short")
	}
	if !ok {
		return Suggestion{Status: StatusNoGuess}, nil
	}
	config.Logger.Debug().
		Int("turn", turn+1).
		Int("pool", len(pool)).
		Int("candidates", n).
		Str("guess", string(best.Guess)).
		Float64("entropy", best.Entropy).
		Msg("best guess")
	return Suggestion{Guess: best.Guess, Score: best, Status: StatusGuess}, nil
}

// ObservationSource supplies the pattern for a guess, from an answer or from a person.
type ObservationSource interface {
	Observe(ctx context.Context, turn int, guess wordle.Word) (wordle.Pattern, error)
}

// OracleSource answers with the feedback against a known answer.
type OracleSource struct {
	Answer wordle.Word
}

func (o OracleSource) Observe(_ context.Context, _ int, guess wordle.Word) (wordle.Pattern, error) {
	return wordle.Feedback(guess, o.Answer)
}

// Outcome is the record of one played game.
type Outcome struct {
	Answer   wordle.Word
	Guesses  []wordle.Word
	Patterns []wordle.Pattern
	Solved   bool
	// Status is why the game ended when it was not solved.
	Status Status
	// MaxTurns is the turn limit the game was played with.
	MaxTurns int
}

// Score is the number of guesses taken, one more than the turn limit when unsolved.
func (o Outcome) Score() int {
	if o.Solved {
		return len(o.Guesses)
	}
	return o.MaxTurns + 1
}

// Play runs a game to the end against source: solved, out of candidates or guesses, or out of
// turns.  answer is only recorded in the Outcome.
func (s *Solver) Play(ctx context.Context, source ObservationSource, answer wordle.Word) (Outcome, error) {
	ret := Outcome{Answer: answer, MaxTurns: s.config.MaxTurns}
	game := s.NewGame()
	for turn := 0; turn < s.config.MaxTurns; turn++ {
		suggestion, err := game.Next(ctx)
		if err != nil {
			return ret, err
		}
		if suggestion.Status != StatusGuess {
			ret.Status = suggestion.Status
			break
		}
		pattern, err := source.Observe(ctx, turn, suggestion.Guess)
		if err != nil {
			return ret, err
		}
		if err := game.Observe(suggestion.Guess, pattern); err != nil {
			return ret, err
		}
		ret.Guesses = append(ret.Guesses, suggestion.Guess)
		ret.Patterns = append(ret.Patterns, pattern)
		if game.Solved() {
			ret.Solved = true
			ret.Status = StatusSolved
			break
		}
	}
	return ret, nil
}

// Simulate plays the game whose answer is known.
func (s *Solver) Simulate(ctx context.Context, answer wordle.Word) (Outcome, error) {
	if len(answer) != s.dict.WordLength() {
		return Outcome{}, fmt.Errorf("%w: answer %q has %d letters, the dictionary has %d", wordle.ErrInvalidInput, answer, len(answer), s.dict.WordLength())
	}
	if err := answer.Validate(); err != nil {
		return Outcome{}, err
	}
	return s.Play(ctx, OracleSource{Answer: answer}, answer)
}

// SimulateAll simulates every answer in parallel.  Outcomes are in the order of answers; progress,
// when not nil, is called once per finished game from the worker goroutines.
func (s *Solver) SimulateAll(ctx context.Context, answers []wordle.Word, progress func(Outcome)) ([]Outcome, error) {
	ret := make([]Outcome, len(answers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options().workers())
	for i, answer := range answers {
		g.Go(func() error {
			outcome, err := s.Simulate(ctx, answer)
			if err != nil {
				return err
			}
			ret[i] = outcome
			if progress != nil {
				progress(outcome)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ret, nil
}
