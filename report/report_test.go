package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/wordle"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "runs.db"))
	if err != nil {
		// the driver needs cgo
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveRun(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	outcomes := []solver.Outcome{
		{
			Answer:   "crane",
			Guesses:  []wordle.Word{"arose", "crane"},
			Patterns: []wordle.Pattern{wordle.MustParsePattern("12002"), wordle.AllCorrect(5)},
			Solved:   true,
			MaxTurns: 6,
		},
		{
			Answer:   "tulip",
			Guesses:  []wordle.Word{"arose", "build", "cight", "dumpy", "fjord", "gawky"},
			Patterns: []wordle.Pattern{wordle.MustParsePattern("00000"), wordle.MustParsePattern("01110"), wordle.MustParsePattern("00101"), wordle.MustParsePattern("01010"), wordle.MustParsePattern("00000"), wordle.MustParsePattern("00000")},
			MaxTurns: 6,
		},
	}
	id, err := store.SaveRun(ctx, "mode hard", outcomes)
	require.NoError(t, err)
	_, err = store.SaveRun(ctx, "mode open", outcomes[:1])
	require.NoError(t, err)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "mode open", runs[0].Settings)
	run := runs[1]
	assert.Equal(t, id, run.ID)
	assert.Equal(t, 2, run.Games)
	assert.Equal(t, 1, run.Solved)
	assert.InDelta(t, 4.5, run.Average, 1e-9)
	assert.InDelta(t, 50.0, run.SolveRate(), 1e-9)
	assert.False(t, run.Started.IsZero())

	back, err := store.Outcomes(ctx, id)
	require.NoError(t, err)
	require.Len(t, back, 2)
	for i := range outcomes {
		assert.Equal(t, outcomes[i].Answer, back[i].Answer)
		assert.Equal(t, outcomes[i].Guesses, back[i].Guesses)
		assert.Equal(t, outcomes[i].Patterns, back[i].Patterns)
		assert.Equal(t, outcomes[i].Solved, back[i].Solved)
		assert.Equal(t, outcomes[i].Score(), back[i].Score())
	}
}

func TestRunsEmpty(t *testing.T) {
	store := openStore(t)
	runs, err := store.Runs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.Zero(t, Run{}.SolveRate())
}
