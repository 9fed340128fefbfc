package main

import (
	"fmt"
	"strings"

	"github.com/mitchellh/colorstring"

	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/wordle"
)

var symbolColors = map[wordle.Symbol]string{
	wordle.Absent:  "[dark_gray]",
	wordle.Present: "[yellow]",
	wordle.Correct: "[green]",
}

// renderGuess colours each letter of guess by its symbol.
func renderGuess(guess wordle.Word, pattern wordle.Pattern) string {
	var b strings.Builder
	for i, s := range pattern {
		b.WriteString("[bold]")
		b.WriteString(symbolColors[s])
		b.WriteByte(guess[i])
		b.WriteString("[reset]")
	}
	return colorstring.Color(b.String())
}

func renderOutcome(outcome solver.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d:", outcome.Answer, outcome.Score())
	for i, guess := range outcome.Guesses {
		b.WriteString(" ")
		b.WriteString(renderGuess(guess, outcome.Patterns[i]))
	}
	if !outcome.Solved {
		b.WriteString(colorstring.Color(" [red]unsolved"))
	}
	return b.String()
}
