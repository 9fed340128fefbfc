package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/wordle"
)

func outcome(answer string, guesses int, solved bool) solver.Outcome {
	ret := solver.Outcome{Answer: wordle.Word(answer), Solved: solved, MaxTurns: 6}
	for i := 0; i < guesses; i++ {
		ret.Guesses = append(ret.Guesses, "zzzzz")
	}
	return ret
}

func TestSummarize(t *testing.T) {
	s := Summarize([]solver.Outcome{
		outcome("aaaaa", 3, true),
		outcome("bbbbb", 2, true),
		outcome("ccccc", 6, false),
	})
	assert.Equal(t, 3, s.Games)
	assert.Equal(t, 2, s.Solved)
	assert.Equal(t, 12, s.Guesses)
	assert.Equal(t, 2, s.Best)
	assert.Equal(t, 7, s.Worst)
	assert.InDelta(t, 4.0, s.Average(), 1e-12)
	assert.InDelta(t, 66.666, s.SolveRate(), 0.01)
	assert.Equal(t, map[int]int{2: 1, 3: 1, 7: 1}, s.Distribution)

	assert.Empty(t, s.Metrics)

	assert.Equal(t, []string{
		"games 3 solved 2 (66.67%)",
		"average 4.0000 best 2 worst 7",
		"2: 1 (cum. 1/3)",
		"3: 1 (cum. 2/3)",
		"7: 1 (cum. 3/3)",
	}, s.Lines())
}

func TestSummarizeRepeatedAnswers(t *testing.T) {
	s := Summarize([]solver.Outcome{
		outcome("aaaaa", 2, true),
		outcome("aaaaa", 4, true),
		outcome("bbbbb", 3, true),
		outcome("bbbbb", 3, true),
	})
	// nothing was lost, so there is no not-in-6 metric
	require.Len(t, s.Metrics, 3)
	assert.Equal(t, Metric{Name: "guesses", Value: 4, Answers: []wordle.Word{"aaaaa"}}, s.Metrics[0])
	assert.Equal(t, Metric{Name: "best", Value: 3, Answers: []wordle.Word{"bbbbb"}}, s.Metrics[1])
	assert.Equal(t, Metric{Name: "average", Value: 3.0, Answers: []wordle.Word{"aaaaa", "bbbbb"}}, s.Metrics[2])
	assert.Equal(t, 100.0, s.SolveRate())
}

func TestSummarizeRepeatedLoss(t *testing.T) {
	s := Summarize([]solver.Outcome{
		outcome("aaaaa", 2, true),
		outcome("aaaaa", 6, false),
		outcome("bbbbb", 3, true),
	})
	require.Len(t, s.Metrics, 4)
	assert.Equal(t, []string{
		"games 3 solved 2 (66.67%)",
		"average 4.0000 best 2 worst 7",
		"2: 1 (cum. 1/3)",
		"3: 1 (cum. 2/3)",
		"7: 1 (cum. 3/3)",
		"worst guesses: 7 (aaaaa)",
		"worst best: 3 (bbbbb)",
		"worst average: 4.50 (aaaaa)",
		"worst not-in-6: 50.00 (aaaaa)",
	}, s.Lines())
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, 0, s.Games)
	assert.Equal(t, 0.0, s.Average())
	assert.Equal(t, 0.0, s.SolveRate())
	assert.Empty(t, s.Metrics)
}

func TestLinesHumanized(t *testing.T) {
	s := Summary{Games: 12345, Solved: 12000, Guesses: 45678, Best: 1, Worst: 7, Distribution: map[int]int{4: 12345}}
	lines := s.Lines()
	assert.Equal(t, "games 12,345 solved 12,000 (97.21%)", lines[0])
	assert.Equal(t, "4: 12,345 (cum. 12,345/12,345)", lines[2])
}

func TestMetricManyAnswers(t *testing.T) {
	var answers []wordle.Word
	for _, s := range []string{"aaaaa", "bbbbb", "ccccc", "ddddd", "eeeee", "fffff", "ggggg", "hhhhh", "iiiii", "jjjjj", "kkkkk", "lllll"} {
		answers = append(answers, wordle.Word(s))
	}
	m := Metric{Name: "guesses", Value: 3, Answers: answers}
	assert.Equal(t, "worst guesses: 3 (aaaaa bbbbb ccccc ddddd eeeee fffff ggggg hhhhh iiiii jjjjj and 2 more)", m.String())
}
