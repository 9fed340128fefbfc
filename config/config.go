// Package config layers the solver settings: defaults, then an ini file, then the environment
// (including a .env file), and finally command line flags, applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	ini "github.com/vaughan0/go-ini"

	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/wordle"
)

// Section is the ini section holding the settings.
const Section = "solver"

// EnvPrefix starts every environment variable read by ApplyEnv.
const EnvPrefix = "WDL_"

type Settings struct {
	// Dict is a word list file, empty for the embedded list.
	Dict string
	// Count keeps the first Count dictionary words, 0 keeps all.
	Count     int
	Mode      string
	Criterion string
	Finish    int
	Openers   []string
	Workers   int
	Deadline  time.Duration
	LogLevel  string
}

func Default() Settings {
	return Settings{
		Mode:      solver.HardMode.String(),
		Criterion: solver.MaxEntropy.String(),
		Finish:    solver.DefaultFinishThreshold,
		LogLevel:  zerolog.InfoLevel.String(),
	}
}

// LoadFile overlays the [solver] section of an ini file on s.
func (s Settings) LoadFile(path string) (Settings, error) {
	file, err := ini.LoadFile(path)
	if err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s.apply(path, func(key string) (string, bool) { return file.Get(Section, key) })
}

// Load overlays the [solver] section of ini text on s.
func (s Settings) Load(r io.Reader) (Settings, error) {
	file, err := ini.Load(r)
	if err != nil {
		return s, fmt.Errorf("config: %w", err)
	}
	return s.apply("config", func(key string) (string, bool) { return file.Get(Section, key) })
}

// ApplyEnv overlays WDL_DICT, WDL_COUNT and the other WDL_ variables named after the ini keys.
// LOG_LEVEL is honoured too.  lookup is normally os.LookupEnv.
func (s Settings) ApplyEnv(lookup func(string) (string, bool)) (Settings, error) {
	ret, err := s.apply("environment", func(key string) (string, bool) {
		return lookup(EnvPrefix + strings.ToUpper(key))
	})
	if err != nil {
		return s, err
	}
	if _, ok := lookup(EnvPrefix + "LOG_LEVEL"); !ok {
		if level, ok := lookup("LOG_LEVEL"); ok && level != "" {
			ret.LogLevel = level
		}
	}
	return ret, nil
}

// LoadDotenv copies the variables of the .env files, default ./.env, into the environment without
// overriding what is already set.  Missing files are not an error.
func LoadDotenv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("dotenv: %w", err)
	}
	return nil
}

// FromEnv is Default, then the optional ini file, then .env and the environment.
func FromEnv(path string) (Settings, error) {
	s := Default()
	if err := LoadDotenv(); err != nil {
		return s, err
	}
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		var err error
		if s, err = s.LoadFile(path); err != nil {
			return s, err
		}
	}
	return s.ApplyEnv(os.LookupEnv)
}

func (s Settings) apply(source string, get func(key string) (string, bool)) (Settings, error) {
	ret := s
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				errs = append(errs, fmt.Errorf("%w: %s %s=%q is not a count", wordle.ErrInvalidInput, source, key, v))
				return
			}
			*dst = n
		}
	}
	str("dict", &ret.Dict)
	num("count", &ret.Count)
	str("mode", &ret.Mode)
	str("criterion", &ret.Criterion)
	num("finish", &ret.Finish)
	num("workers", &ret.Workers)
	str("log_level", &ret.LogLevel)
	if v, ok := get("openers"); ok {
		ret.Openers = nil
		for _, opener := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
			ret.Openers = append(ret.Openers, strings.ToLower(opener))
		}
	}
	if v, ok := get("deadline"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%w: %s deadline=%q is not a duration", wordle.ErrInvalidInput, source, v))
		} else {
			ret.Deadline = d
		}
	}
	if err := errors.Join(errs...); err != nil {
		return s, err
	}
	return ret, nil
}

// Level parses LogLevel, an empty level is info.
func (s Settings) Level() (zerolog.Level, error) {
	if s.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("%w: log level %q", wordle.ErrInvalidInput, s.LogLevel)
	}
	return level, nil
}

// Dictionary loads Dict, or the embedded list, and keeps the first Count words.
func (s Settings) Dictionary(logger zerolog.Logger) (*wordle.Dictionary, error) {
	var dict *wordle.Dictionary
	if s.Dict == "" {
		dict = wordle.DefaultDictionary()
	} else {
		var stats wordle.LoadStats
		var err error
		dict, stats, err = wordle.LoadDictionaryFile(s.Dict, 0)
		if err != nil {
			return nil, err
		}
		logger.Debug().
			Str("file", s.Dict).
			Int("lines", stats.Lines).
			Int("words", stats.Words).
			Int("duplicates", stats.Duplicates).
			Int("skipped", len(stats.Skipped)).
			Msg("dictionary loaded")
		for _, line := range stats.Skipped {
			logger.Debug().Str("line", line).Msg("skipped dictionary entry")
		}
	}
	return dict.Truncate(s.Count), nil
}

// SolverConfig converts the settings for dict.  Openers are checked by solver.New.
func (s Settings) SolverConfig(logger zerolog.Logger) (solver.Config, error) {
	mode, err := solver.ParseMode(s.Mode)
	if err != nil {
		return solver.Config{}, err
	}
	criterion, err := solver.ParseCriterion(s.Criterion)
	if err != nil {
		return solver.Config{}, err
	}
	ret := solver.DefaultConfig()
	ret.Mode = mode
	ret.Criterion = criterion
	if s.Finish > 0 {
		ret.FinishThreshold = s.Finish
	}
	if s.Workers > 0 {
		ret.Workers = s.Workers
	}
	ret.TurnDeadline = s.Deadline
	ret.Logger = logger
	for _, opener := range s.Openers {
		word, err := wordle.ParseWord(opener)
		if err != nil {
			return solver.Config{}, fmt.Errorf("opener: %w", err)
		}
		ret.Openers = append(ret.Openers, word)
	}
	return ret, nil
}

// Solver loads the dictionary and builds a solver from the settings.
func (s Settings) Solver(logger zerolog.Logger) (*solver.Solver, error) {
	dict, err := s.Dictionary(logger)
	if err != nil {
		return nil, err
	}
	config, err := s.SolverConfig(logger)
	if err != nil {
		return nil, err
	}
	return solver.New(dict, config)
}
