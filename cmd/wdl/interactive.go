package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/wordle"
)

// candidates are listed when there are at most this many
const listLimit = 25

// errQuit ends the game at the player's request.
var errQuit = errors.New("quit")

// humanSource asks the player for the pattern the game showed.
type humanSource struct {
	rl *readline.Instance
}

var _ solver.ObservationSource = (*humanSource)(nil)

// readLine returns io.EOF on ctrl-d and errQuit for ctrl-c or "q".
func (h *humanSource) readLine(prompt string) (string, error) {
	h.rl.SetPrompt(prompt)
	line, err := h.rl.Readline()
	if err == readline.ErrInterrupt {
		return "", errQuit
	}
	if err != nil {
		return "", err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "q" || line == "quit" {
		return "", errQuit
	}
	return line, nil
}

// Observe reads a pattern as digits or r/y/g letters, "x" and "b" work for gray too.
func (h *humanSource) Observe(ctx context.Context, turn int, guess wordle.Word) (wordle.Pattern, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line, err := h.readLine(fmt.Sprintf("pattern for %s (g/y/x or 2/1/0): ", guess))
		if err != nil {
			return nil, err
		}
		pattern, err := wordle.ParsePattern(line)
		if err == nil && len(pattern) != len(guess) {
			err = fmt.Errorf("%w: need %d symbols", wordle.ErrInvalidInput, len(guess))
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		return pattern, nil
	}
}

// guess reads the word played, an empty line plays the suggestion.
func (h *humanSource) guess(turn int, suggestion wordle.Word, length int) (wordle.Word, error) {
	for {
		line, err := h.readLine(fmt.Sprintf("guess %d [%s]: ", turn+1, suggestion))
		if err != nil {
			return "", err
		}
		if line == "" {
			if suggestion == "" {
				continue
			}
			return suggestion, nil
		}
		guess, err := wordle.ParseWord(line)
		if err == nil && len(guess) != length {
			err = fmt.Errorf("%w: need %d letters", wordle.ErrInvalidInput, length)
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		return guess, nil
	}
}

func printCandidates(ctx context.Context, globalConfig GlobalConfiguration, game *solver.Game) {
	candidates := game.Candidates()
	fmt.Printf("%d candidates\n", candidates.Len())
	if candidates.Len() <= listLimit {
		fmt.Println(" ", strings.Join(candidates.Strings(), " "))
	}
	byFrequency := solver.RankByFrequency(candidates.Words())
	fmt.Println("  by frequency:", strings.Join(wordle.WordsToStrings(byFrequency[:min(5, len(byFrequency))]), " "))

	config := globalConfig.solver.Config()
	opts := solver.Options{Criterion: config.Criterion, Workers: config.Workers}
	pool := solver.PoolFor(config.Mode, globalConfig.dictionary(), candidates, config.FinishThreshold)
	var ranked []string
	for _, score := range solver.Rank(ctx, pool, candidates.Words(), opts, 5) {
		ranked = append(ranked, fmt.Sprintf("%s(%.2f)", score.Guess, score.Entropy))
	}
	fmt.Println("  by entropy:  ", strings.Join(ranked, " "))
}

func interactive(ctx context.Context, globalConfig GlobalConfiguration) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "> "})
	if err != nil {
		return err
	}
	defer rl.Close()
	source := &humanSource{rl: rl}

	s := globalConfig.solver
	game := s.NewGame()
	for turn := 0; turn < s.Config().MaxTurns; turn++ {
		suggestion, err := game.Next(ctx)
		if err != nil {
			return err
		}
		switch suggestion.Status {
		case solver.StatusNoCandidates:
			fmt.Println("no word matches those patterns")
			return nil
		case solver.StatusSolved:
			fmt.Println("solved in", game.Turns())
			return nil
		}
		if turn > 0 {
			printCandidates(ctx, globalConfig, game)
		}

		guess, err := source.guess(turn, suggestion.Guess, s.Dictionary().WordLength())
		if err == nil {
			var pattern wordle.Pattern
			if pattern, err = source.Observe(ctx, turn, guess); err == nil {
				err = game.Observe(guess, pattern)
			}
		}
		switch {
		case err == nil:
		case errors.Is(err, errQuit), errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, wordle.ErrInvalidInput):
			fmt.Println(err)
			turn--
			continue
		default:
			return err
		}
		fmt.Println(renderGuess(guess, game.Patterns()[game.Turns()-1]))
		if game.Solved() {
			fmt.Println("solved in", game.Turns())
			return nil
		}
	}
	fmt.Println("out of turns,", game.Candidates().Len(), "candidates left")
	return nil
}
