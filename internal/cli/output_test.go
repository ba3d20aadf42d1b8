package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetrisgame-go/internal/services/bot"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func render(format string, data any) string {
	var buf bytes.Buffer
	newOutputTo(format, &buf).Print(data)
	return buf.String()
}

func TestPrintSessionDrawsBoard(t *testing.T) {
	out := render("text", Session{
		ID:             "ABCD2345",
		GameNumber:     2,
		Phase:          "falling",
		Score:          12345,
		Level:          3,
		Lines:          21,
		Pieces:         40,
		DropIntervalMS: 800,
		Next:           &Piece{Type: "T"},
		Rows:           []string{"...IIII...", "#........#"},
	})

	assert.Contains(t, out, "Session: ABCD2345 (game 2)")
	assert.Contains(t, out, "State: falling")
	assert.Contains(t, out, "Score: 12,345  Level: 3  Lines: 21  Pieces: 40")
	assert.Contains(t, out, "Drop interval: 800ms")
	assert.Contains(t, out, "Next: T")
	assert.Contains(t, out, "+----------+\n|...IIII...|\n|#........#|\n+----------+\n")
}

func TestPrintSessionStates(t *testing.T) {
	assert.Contains(t, render("text", Session{Paused: true}), "State: paused")
	assert.Contains(t, render("text", Session{GameOver: true, Paused: true}), "State: game over")
}

func TestPrintCommandResult(t *testing.T) {
	out := render("text", CommandResult{
		Applied: true,
		Lock: &Lock{
			Piece:       "I",
			ClearedRows: []int{18, 19},
			Points:      1200,
			GameOver:    true,
			Reason:      "block out",
		},
	})
	assert.Contains(t, out, "Cleared 2 line(s) for 1,200 points")
	assert.Contains(t, out, "Game over (block out)")
	assert.NotContains(t, out, "no effect")

	out = render("text", CommandResult{Applied: false})
	assert.Contains(t, out, "Command had no effect")
}

func TestPrintLeaderboard(t *testing.T) {
	assert.Contains(t, render("text", Leaderboard{}), "No games recorded yet")

	out := render("text", Leaderboard{Scores: []ScoreEntry{
		{DisplayName: "Alice", Score: 9000, Level: 4, Lines: 31, AchievedAt: time.Now()},
		{DisplayName: "Bob", Score: 120, Level: 1, Lines: 1, AchievedAt: time.Now()},
	}})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "PLAYER")
	assert.Contains(t, lines[1], "Alice")
	assert.Contains(t, lines[1], "9,000")
	assert.Contains(t, lines[2], "Bob")
}

func TestPrintJSON(t *testing.T) {
	out := render("json", HealthResult{Status: "ok"})

	var decoded HealthResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "ok", decoded.Status)
}

func TestSimulationReport(t *testing.T) {
	report := simulationReport("greedy", []bot.SimulationResult{
		{Game: 1, Seed: 5, Score: 100, Pieces: 10},
		{Game: 2, Seed: 6, Score: 300, Pieces: 20, GameOver: true},
	})

	assert.Equal(t, "greedy", report.Strategy)
	assert.Equal(t, 300, report.Best)
	assert.InDelta(t, 200.0, report.Mean, 0.001)
	require.Len(t, report.Games, 2)
	assert.True(t, report.Games[1].GameOver)

	out := render("text", report)
	assert.Contains(t, out, "Strategy Greedy: best 300, mean 200")
}

func TestSimulationReportEmpty(t *testing.T) {
	report := simulationReport("random", nil)
	assert.Zero(t, report.Mean)
	assert.Empty(t, report.Games)
}
