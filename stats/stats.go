// Package stats summarises simulated games.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"golang.org/x/exp/constraints"

	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/wordle"
)

// scores above this are counted in the last bucket
const m = 32

// Scores counts the games of one answer by score.
type Scores [m]int

func (s *Scores) add(score int) {
	s[min(score, m-1)]++
}

type metricImpl[T constraints.Ordered] struct {
	name        string
	badnessFunc func(*Scores) T
}

// Metric is the worst value of a per answer measure and the answers that reach it.
type Metric struct {
	Name    string
	Value   any
	Answers []wordle.Word
}

func (m Metric) String() string {
	answers := wordle.WordsToStrings(m.Answers)
	if len(answers) > 10 {
		answers = append(answers[:10], fmt.Sprintf("and %s more", humanize.Comma(int64(len(m.Answers)-10))))
	}
	value := m.Value
	if f, ok := value.(float64); ok {
		value = fmt.Sprintf("%.2f", f)
	}
	return fmt.Sprintf("worst %v: %v (%v)", m.Name, value, strings.Join(answers, " "))
}

// run finds the worst answers, false when even the worst is zero.
func (mi *metricImpl[T]) run(results map[wordle.Word]*Scores) (Metric, bool) {
	var worst, zero T
	var worstAnswers []wordle.Word
	first := true
	for w, r := range results {
		badness := mi.badnessFunc(r)
		switch {
		case first || worst < badness:
			worstAnswers = []wordle.Word{w}
			worst = badness
			first = false
		case worst == badness:
			worstAnswers = append(worstAnswers, w)
		}
	}
	sort.Slice(worstAnswers, func(i, j int) bool { return worstAnswers[i] < worstAnswers[j] })
	return Metric{Name: mi.name, Value: worst, Answers: worstAnswers}, worst != zero
}

type metric interface {
	run(results map[wordle.Word]*Scores) (Metric, bool)
}

func metrics(maxTurns int) []metric {
	return []metric{
		&metricImpl[int]{"guesses", func(r *Scores) int {
			for i := m - 1; i >= 0; i-- {
				if r[i] > 0 {
					return i
				}
			}
			panic("empty result")
		}},
		&metricImpl[int]{"best", func(r *Scores) int {
			for i := 0; i < m; i++ {
				if r[i] > 0 {
					return i
				}
			}
			panic("empty result")
		}},
		&metricImpl[float64]{"average", func(r *Scores) float64 {
			sum := 0
			ct := 0
			for i := 0; i < m; i++ {
				sum += i * r[i]
				ct += r[i]
			}
			return float64(sum) / float64(ct)
		}},
		&metricImpl[float64]{fmt.Sprintf("not-in-%d", maxTurns), func(r *Scores) float64 {
			win := 0
			loss := 0
			for i := 0; i <= maxTurns; i++ {
				win += r[i]
			}
			for i := maxTurns + 1; i < m; i++ {
				loss += r[i]
			}
			return 100 * float64(loss) / float64(win+loss)
		}},
	}
}

// Summary describes a batch of simulated games.
type Summary struct {
	Games  int
	Solved int
	// Guesses is the total of the game scores, unsolved games count MaxTurns+1.
	Guesses  int
	MaxTurns int
	Best     int
	Worst    int
	// Distribution counts games by score.
	Distribution map[int]int
	// Metrics are per answer measures, only set when some answer was played more than once.
	Metrics []Metric
}

// Summarize computes the Summary of outcomes.  An empty slice gives the zero Summary.
func Summarize(outcomes []solver.Outcome) Summary {
	ret := Summary{Distribution: make(map[int]int)}
	if len(outcomes) == 0 {
		return ret
	}
	results := make(map[wordle.Word]*Scores)
	for i, outcome := range outcomes {
		score := outcome.Score()
		ret.Games++
		ret.Guesses += score
		ret.Distribution[score]++
		if outcome.Solved {
			ret.Solved++
		}
		if i == 0 || score < ret.Best {
			ret.Best = score
		}
		if score > ret.Worst {
			ret.Worst = score
		}
		ret.MaxTurns = max(ret.MaxTurns, outcome.MaxTurns)
		r, ok := results[outcome.Answer]
		if !ok {
			r = new(Scores)
			results[outcome.Answer] = r
		}
		r.add(score)
	}
	if len(results) == ret.Games {
		// every answer played once, the per answer metrics would repeat the totals
		return ret
	}
	for _, metric := range metrics(ret.MaxTurns) {
		if worst, ok := metric.run(results); ok {
			ret.Metrics = append(ret.Metrics, worst)
		}
	}
	return ret
}

// Average is the mean score, 0 for no games.
func (s Summary) Average() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.Guesses) / float64(s.Games)
}

// SolveRate is the percentage of games solved within the turn limit.
func (s Summary) SolveRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return 100 * float64(s.Solved) / float64(s.Games)
}

// Lines renders the summary for a terminal.
func (s Summary) Lines() []string {
	ret := []string{
		fmt.Sprintf("games %s solved %s (%.2f%%)", humanize.Comma(int64(s.Games)), humanize.Comma(int64(s.Solved)), s.SolveRate()),
		fmt.Sprintf("average %.4f best %d worst %d", s.Average(), s.Best, s.Worst),
	}
	scores := make([]int, 0, len(s.Distribution))
	for score := range s.Distribution {
		scores = append(scores, score)
	}
	sort.Ints(scores)
	cum := 0
	for _, score := range scores {
		count := s.Distribution[score]
		cum += count
		ret = append(ret, fmt.Sprintf("%d: %s (cum. %s/%s)", score, humanize.Comma(int64(count)), humanize.Comma(int64(cum)), humanize.Comma(int64(s.Games))))
	}
	for _, metric := range s.Metrics {
		ret = append(ret, metric.String())
	}
	return ret
}
