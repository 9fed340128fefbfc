package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/felixge/fgprof"
	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3" // imports as package "cli"

	"github.com/powellquiring/wordlesolver/config"
	"github.com/powellquiring/wordlesolver/report"
	"github.com/powellquiring/wordlesolver/server"
	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/stats"
	"github.com/powellquiring/wordlesolver/wordle"
)

type GlobalConfiguration struct {
	settings config.Settings
	solver   *solver.Solver
	logger   zerolog.Logger
	progress bool
}

func (g GlobalConfiguration) dictionary() *wordle.Dictionary {
	return g.solver.Dictionary()
}

// flags holds the global flag values, applied over the file and environment settings when set.
type flags struct {
	configFile string
	dict       string
	count      int
	progress   bool
	profile    string
	logLevel   string
	mode       string
	criterion  string
	finish     int
	openers    []string
	workers    int
	deadline   time.Duration
}

func globalConfiguration(cmd *cli.Command, f *flags) (GlobalConfiguration, error) {
	settings, err := config.FromEnv(f.configFile)
	if err != nil {
		return GlobalConfiguration{}, err
	}
	if cmd.IsSet("dict") {
		settings.Dict = f.dict
	}
	if cmd.IsSet("count") {
		settings.Count = f.count
	}
	if cmd.IsSet("log-level") {
		settings.LogLevel = f.logLevel
	}
	if cmd.IsSet("mode") {
		settings.Mode = f.mode
	}
	if cmd.IsSet("criterion") {
		settings.Criterion = f.criterion
	}
	if cmd.IsSet("finish") {
		settings.Finish = f.finish
	}
	if cmd.IsSet("opener") {
		settings.Openers = f.openers
	}
	if cmd.IsSet("workers") {
		settings.Workers = f.workers
	}
	if cmd.IsSet("deadline") {
		settings.Deadline = f.deadline
	}

	level, err := settings.Level()
	if err != nil {
		return GlobalConfiguration{}, err
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().Level(level)
	log.Logger = logger

	s, err := settings.Solver(logger)
	if err != nil {
		return GlobalConfiguration{}, err
	}
	logger.Debug().
		Int("words", s.Dictionary().Len()).
		Str("mode", s.Config().Mode.String()).
		Str("criterion", s.Config().Criterion.String()).
		Msg("solver ready")
	return GlobalConfiguration{settings: settings, solver: s, logger: logger, progress: f.progress}, nil
}

// startProfile starts a cpu (runtime/pprof) or wall clock (fgprof) profile and returns the stop
// function.
func startProfile(kind string) (func() error, error) {
	if kind == "" {
		return func() error { return nil }, nil
	}
	f, err := os.Create(kind + ".prof")
	if err != nil {
		return nil, err
	}
	switch kind {
	case "cpu":
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, err
		}
		return func() error {
			pprof.StopCPUProfile()
			return f.Close()
		}, nil
	case "wall":
		stop := fgprof.Start(f, fgprof.FormatPprof)
		return func() error {
			if err := stop(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}, nil
	}
	f.Close()
	os.Remove(f.Name())
	return nil, fmt.Errorf("%w: profile %q, want cpu or wall", wordle.ErrInvalidInput, kind)
}

// playWordle with guess/pattern pairs provided
func playWordle(ctx context.Context, globalConfig GlobalConfiguration, args []string, explain bool) error {
	game := globalConfig.solver.NewGame()
	for i := 0; i < len(args); i += 2 {
		guess, err := wordle.ParseWord(args[i])
		if err != nil {
			return err
		}
		pattern, err := wordle.ParsePattern(args[i+1])
		if err != nil {
			return err
		}
		if err := game.Observe(guess, pattern); err != nil {
			return err
		}
	}
	if explain {
		fmt.Println(game.State())
		pretty.Println(game.State())
	}
	suggestion, err := game.Next(ctx)
	if err != nil {
		return err
	}
	switch suggestion.Status {
	case solver.StatusGuess:
		fmt.Print(suggestion.Guess, ":")
	default:
		fmt.Print(suggestion.Status, ":")
	}
	for _, word := range game.Candidates().Strings() {
		fmt.Print(" ", word)
	}
	fmt.Println()
	return nil
}

func simulate(ctx context.Context, globalConfig GlobalConfiguration, answerStrings []string, verbose bool, db string) error {
	s := globalConfig.solver
	var answers []wordle.Word
	if len(answerStrings) == 0 {
		answers = globalConfig.dictionary().Words()
	} else {
		for _, answerString := range answerStrings {
			answer, err := wordle.ParseWord(answerString)
			if err != nil {
				return err
			}
			answers = append(answers, answer)
		}
	}

	var bar *progressbar.ProgressBar
	if globalConfig.progress {
		bar = progressbar.Default(int64(len(answers)))
	} else {
		bar = progressbar.DefaultSilent(int64(len(answers)))
	}
	var mu sync.Mutex
	outcomes, err := s.SimulateAll(ctx, answers, func(outcome solver.Outcome) {
		_ = bar.Add(1)
		if verbose {
			mu.Lock()
			fmt.Println(renderOutcome(outcome))
			mu.Unlock()
		}
	})
	_ = bar.Finish()
	if err != nil {
		return err
	}

	summary := stats.Summarize(outcomes)
	for _, line := range summary.Lines() {
		fmt.Println(line)
	}
	if db != "" {
		store, err := report.Open(db)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveRun(ctx, pretty.Sprint(globalConfig.settings), outcomes)
		if err != nil {
			return err
		}
		globalConfig.logger.Info().Int64("run", id).Str("db", db).Msg("saved simulation")
	}
	return nil
}

// history lists the runs saved in db, or the games of one run when runID is set
func history(ctx context.Context, w io.Writer, db string, runID int64) error {
	store, err := report.Open(db)
	if err != nil {
		return err
	}
	defer store.Close()
	if runID == 0 {
		runs, err := store.Runs(ctx)
		if err != nil {
			return err
		}
		for _, run := range runs {
			fmt.Fprintf(w, "%d %s games %s solved %.2f%% average %.4f\n",
				run.ID, humanize.Time(run.Started), humanize.Comma(int64(run.Games)), run.SolveRate(), run.Average)
		}
		return nil
	}
	outcomes, err := store.Outcomes(ctx, runID)
	if err != nil {
		return err
	}
	if len(outcomes) == 0 {
		return fmt.Errorf("no games for run %d in %s", runID, db)
	}
	for _, outcome := range outcomes {
		fmt.Fprintln(w, renderOutcome(outcome))
	}
	for _, line := range stats.Summarize(outcomes).Lines() {
		fmt.Fprintln(w, line)
	}
	return nil
}

// first ranks the guesses of the pool against the whole dictionary
func first(ctx context.Context, globalConfig GlobalConfiguration, top int, frequency bool) {
	d := globalConfig.dictionary()
	if frequency {
		for i, word := range solver.RankByFrequency(d.Words()) {
			if top > 0 && i >= top {
				break
			}
			fmt.Println(word)
		}
		return
	}
	config := globalConfig.solver.Config()
	opts := solver.Options{Criterion: config.Criterion, Workers: config.Workers}
	for _, score := range solver.Rank(ctx, d.Words(), d.Words(), opts, top) {
		fmt.Printf("%s %.4f %.2f %d\n", score.Guess, score.Entropy, score.ExpectedRemaining, score.Coverage)
	}
}

func feedback(guessString, answerString string) error {
	pattern, err := wordle.Feedback(wordle.Word(guessString), wordle.Word(answerString))
	if err != nil {
		return err
	}
	fmt.Println(pattern, renderGuess(wordle.Word(guessString), pattern))
	return nil
}

func main() {
	f := &flags{}
	var globalConfig GlobalConfiguration
	stopProfile := func() error { return nil }
	// command specific flags
	explain := false
	verbose := false
	db := ""
	runID := int64(0)
	top := 0
	frequency := false
	addr := ""
	timeout := time.Duration(0)

	cmd := &cli.Command{
		Name:  "wdl",
		Usage: "wordle solver",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "ini file with a [solver] section",
				Sources:     cli.EnvVars("WDL_CONFIG"),
				Destination: &f.configFile,
			},
			&cli.StringFlag{
				Name:        "dict",
				Usage:       "word list file, one word per line, default is the built in list",
				Destination: &f.dict,
			},
			&cli.IntFlag{
				Name:        "count",
				Value:       0,
				Aliases:     []string{"c"},
				Usage:       "number of words, 0 is all words",
				Destination: &f.count,
			},
			&cli.BoolFlag{
				Name:        "progress",
				Value:       false,
				Aliases:     []string{"p"},
				Usage:       "show progress bar",
				Destination: &f.progress,
			},
			&cli.StringFlag{
				Name:        "profile",
				Usage:       "store profile data to analyze: cpu or wall",
				Destination: &f.profile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "trace, debug, info, warn or error",
				Destination: &f.logLevel,
			},
			&cli.StringFlag{
				Name:        "mode",
				Usage:       "hard guesses only possible answers, open guesses any word until few candidates remain",
				Destination: &f.mode,
			},
			&cli.StringFlag{
				Name:        "criterion",
				Usage:       "entropy or expected (fewest expected remaining candidates)",
				Destination: &f.criterion,
			},
			&cli.IntFlag{
				Name:        "finish",
				Usage:       "open mode guesses candidates only at or below this many candidates",
				Destination: &f.finish,
			},
			&cli.StringSliceFlag{
				Name:        "opener",
				Aliases:     []string{"f"},
				Usage:       "--opener arose --opener tulip, guessed in order before scoring",
				Destination: &f.openers,
			},
			&cli.IntFlag{
				Name:        "workers",
				Usage:       "scoring goroutines, 0 is one per cpu",
				Destination: &f.workers,
			},
			&cli.DurationFlag{
				Name:        "deadline",
				Usage:       "time limit for choosing one guess, 0 is none",
				Destination: &f.deadline,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			var err error
			if globalConfig, err = globalConfiguration(cmd, f); err != nil {
				return ctx, cli.Exit(err.Error(), 1)
			}
			if stopProfile, err = startProfile(f.profile); err != nil {
				return ctx, cli.Exit(err.Error(), 1)
			}
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			return stopProfile()
		},
		Commands: []*cli.Command{
			{
				Name: "play",
				Usage: `play guess pattern [guess pattern]...
				Enter the patterns the game showed, digits 0 1 2 or letters r y g.  Prints the next guess and the
				remaining candidates.  https://www.nytimes.com/games/wordle/index.html
				`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "explain",
						Usage:       "print the constraints derived from the patterns",
						Destination: &explain,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg()%2 != 0 {
						return cli.Exit("must have pairs of guess pattern", 1)
					}
					if err := playWordle(ctx, globalConfig, cmd.Args().Slice(), explain); err != nil {
						return cli.Exit(err.Error(), 2)
					}
					return nil
				},
			},
			{
				Name:  "interactive",
				Usage: "play a game turn by turn, typing the pattern shown for each guess",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := interactive(ctx, globalConfig); err != nil {
						return cli.Exit(err.Error(), 2)
					}
					return nil
				},
			},
			{
				Name: "sim",
				Usage: `sim [answer]...
				Simulate a game for each answer, all dictionary words when none are given.  All words can be cut back
				by using the -count global flag for testing.
				`,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "verbose",
						Aliases:     []string{"v"},
						Usage:       "print every game",
						Destination: &verbose,
					},
					&cli.StringFlag{
						Name:        "db",
						Usage:       "append the results to this sqlite file",
						Destination: &db,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := simulate(ctx, globalConfig, cmd.Args().Slice(), verbose, db); err != nil {
						return cli.Exit(err.Error(), 2)
					}
					return nil
				},
			},
			{
				Name: "runs",
				Usage: `runs --db file [--id run]
				List the simulations saved with sim --db, or replay the games of one of them
				`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "db",
						Usage:       "sqlite file written by sim --db",
						Required:    true,
						Destination: &db,
					},
					&cli.Int64Flag{
						Name:        "id",
						Usage:       "print the games of this run",
						Destination: &runID,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := history(ctx, os.Stdout, db, runID); err != nil {
						return cli.Exit(err.Error(), 2)
					}
					return nil
				},
			},
			{
				Name: "rank",
				Usage: `rank
				Rank first guesses against the whole dictionary
				`,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "top",
						Value:       20,
						Usage:       "number of guesses to print, 0 is all",
						Destination: &top,
					},
					&cli.BoolFlag{
						Name:        "frequency",
						Usage:       "rank by letter frequency instead of scoring",
						Destination: &frequency,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					first(ctx, globalConfig, top, frequency)
					return nil
				},
			},
			{
				Name:  "feedback",
				Usage: "feedback guess answer, print the pattern the game would show",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.NArg() != 2 {
						return cli.Exit("must have guess and answer", 1)
					}
					if err := feedback(strings.ToLower(cmd.Args().Get(0)), strings.ToLower(cmd.Args().Get(1))); err != nil {
						return cli.Exit(err.Error(), 2)
					}
					return nil
				},
			},
			{
				Name:  "serve",
				Usage: "serve the solver over http",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "addr",
						Value:       ":8080",
						Sources:     cli.EnvVars("WDL_ADDR"),
						Destination: &addr,
					},
					&cli.DurationFlag{
						Name:        "timeout",
						Value:       10 * time.Second,
						Usage:       "request time limit",
						Destination: &timeout,
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					s := globalConfig.solver
					srv := server.New(s.Dictionary(), s.Config(), globalConfig.logger, timeout)
					globalConfig.logger.Info().Str("addr", addr).Msg("starting server")
					return srv.Start(addr)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("wdl")
	}
}
