package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/powellquiring/wordlesolver/solver"
	"github.com/powellquiring/wordlesolver/wordle"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := New(wordle.DefaultDictionary(), solver.DefaultConfig(), zerolog.Nop(), 30*time.Second)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string, out any) int {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, map[string]bool{"ok": true}, body)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedback(t *testing.T) {
	ts := newTestServer(t)
	var res feedbackRes
	assert.Equal(t, http.StatusOK, post(t, ts, "/feedback", `{"guess":"arose","answer":"crane"}`, &res))
	assert.Equal(t, "12002", res.Pattern)

	var e map[string]string
	assert.Equal(t, http.StatusBadRequest, post(t, ts, "/feedback", `{"guess":"arose","answer":"cranes"}`, &e))
	assert.Contains(t, e["error"], "invalid input")
	assert.Equal(t, http.StatusBadRequest, post(t, ts, "/feedback", `{"guess":`, &e))
	assert.Equal(t, "bad_json", e["error"])
}

func TestSolve(t *testing.T) {
	ts := newTestServer(t)
	var res solveRes
	assert.Equal(t, http.StatusOK, post(t, ts, "/solve", `{"turns":[{"guess":"arose","pattern":"12002"}],"limit":1000}`, &res))
	assert.Equal(t, "guess", res.Status)
	assert.Contains(t, res.Words, "crane")
	assert.Equal(t, res.Candidates, len(res.Words))
	assert.Contains(t, res.Words, res.Best, "hard mode guesses a candidate")

	res = solveRes{}
	assert.Equal(t, http.StatusOK, post(t, ts, "/solve", `{"turns":[{"guess":"crane","pattern":"ggggg"}]}`, &res))
	assert.Equal(t, "solved", res.Status)
	assert.Equal(t, "crane", res.Best)

	res = solveRes{}
	assert.Equal(t, http.StatusOK, post(t, ts, "/solve", `{"turns":[{"guess":"qxzjv","pattern":"11111"}]}`, &res))
	assert.Equal(t, "no_candidates", res.Status)
	assert.Equal(t, 0, res.Candidates)
	assert.Empty(t, res.Best)

	res = solveRes{}
	assert.Equal(t, http.StatusOK, post(t, ts, "/solve", `{"turns":[],"limit":3}`, &res))
	assert.Equal(t, wordle.DefaultDictionary().Len(), res.Candidates)
	assert.Len(t, res.Words, 3)
	assert.Greater(t, res.Entropy, 0.0)
}

func TestSolveInvalid(t *testing.T) {
	ts := newTestServer(t)
	var e map[string]string
	assert.Equal(t, http.StatusBadRequest, post(t, ts, "/solve", `{"turns":[{"guess":"arose","pattern":"1200"}]}`, &e))
	assert.Equal(t, http.StatusBadRequest, post(t, ts, "/solve", `{"turns":[{"guess":"ar0se","pattern":"12002"}]}`, &e))
	assert.Equal(t, http.StatusBadRequest, post(t, ts, "/solve", `{"turns":[{"guess":"arose","pattern":"12z02"}]}`, &e))
	assert.Equal(t, http.StatusBadRequest, post(t, ts, "/solve", `{"mode":"easy"}`, &e))
	assert.Equal(t, http.StatusBadRequest, post(t, ts, "/solve", `{"criterion":"luck"}`, &e))
	assert.Equal(t, http.StatusBadRequest, post(t, ts, "/solve", `[`, &e))
}

func TestRank(t *testing.T) {
	ts := newTestServer(t)
	body := `{"turns":[{"guess":"arose","pattern":"12002"}],"top":3,"mode":"open"}`
	var res rankRes
	assert.Equal(t, http.StatusOK, post(t, ts, "/rank", body, &res))
	require.NotEmpty(t, res.Scores)
	assert.LessOrEqual(t, len(res.Scores), 3)
	for i := 1; i < len(res.Scores); i++ {
		assert.GreaterOrEqual(t, res.Scores[i-1].Entropy+1e-9, res.Scores[i].Entropy)
	}

	var solved solveRes
	assert.Equal(t, http.StatusOK, post(t, ts, "/solve", body, &solved))
	assert.Equal(t, res.Scores[0].Guess, solved.Best)
	assert.Equal(t, res.Candidates, solved.Candidates)
}

func TestRankTimeout(t *testing.T) {
	s := New(wordle.DefaultDictionary(), solver.DefaultConfig(), zerolog.Nop(), time.Nanosecond)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	for _, path := range []string{"/rank", "/solve"} {
		resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(`{"turns":[{"guess":"arose","pattern":"12002"}]}`))
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode, path)
		assert.Empty(t, body, path)
	}
}
