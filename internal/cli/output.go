package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

var (
	emph = color.New(color.FgBlue, color.Bold).SprintFunc()
	warn = color.New(color.FgYellow, color.Bold).SprintFunc()
	bad  = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return newOutputTo(format, os.Stdout)
}

func newOutputTo(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Session:
		o.printSession(v)
	case CommandResult:
		o.printCommandResult(v)
	case TickResult:
		o.printTickResult(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case PlayerStats:
		o.printPlayerStats(v)
	case SimulationReport:
		o.printSimulation(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// AuthResult combines player and token
type AuthResult struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// Position is a board cell
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Piece response type
type Piece struct {
	Type  string     `json:"type"`
	X     int        `json:"x"`
	Y     int        `json:"y"`
	Cells []Position `json:"cells"`
}

// Session response type
type Session struct {
	ID             string   `json:"id"`
	PlayerID       string   `json:"player_id"`
	GameNumber     int      `json:"game_number"`
	Phase          string   `json:"phase"`
	Paused         bool     `json:"paused"`
	GameOver       bool     `json:"game_over"`
	Score          int      `json:"score"`
	Level          int      `json:"level"`
	Lines          int      `json:"lines"`
	Pieces         int      `json:"pieces"`
	DropIntervalMS int64    `json:"drop_interval_ms"`
	Current        *Piece   `json:"current,omitempty"`
	Next           *Piece   `json:"next,omitempty"`
	Board          [][]int  `json:"board"`
	Rows           []string `json:"rows"`
}

// Lock response type
type Lock struct {
	Piece       string     `json:"piece"`
	Cells       []Position `json:"cells"`
	ClearedRows []int      `json:"cleared_rows,omitempty"`
	Points      int        `json:"points"`
	GameOver    bool       `json:"game_over"`
	Reason      string     `json:"reason,omitempty"`
}

// CommandResult response type
type CommandResult struct {
	Applied bool    `json:"applied"`
	Lock    *Lock   `json:"lock,omitempty"`
	Session Session `json:"session"`
}

// TickResult response type
type TickResult struct {
	Dropped bool    `json:"dropped"`
	Lock    *Lock   `json:"lock,omitempty"`
	Session Session `json:"session"`
}

// ScoreEntry response type
type ScoreEntry struct {
	GameID      string    `json:"game_id"`
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	Score       int       `json:"score"`
	Level       int       `json:"level"`
	Lines       int       `json:"lines"`
	AchievedAt  time.Time `json:"achieved_at"`
}

// Leaderboard response type
type Leaderboard struct {
	Scores []ScoreEntry `json:"scores"`
}

// GameSummary response type
type GameSummary struct {
	GameID     string    `json:"game_id"`
	SessionID  string    `json:"session_id"`
	PlayerID   string    `json:"player_id"`
	Score      int       `json:"score"`
	Level      int       `json:"level"`
	Lines      int       `json:"lines"`
	Pieces     int       `json:"pieces"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// PlayerStats response type
type PlayerStats struct {
	Best   ScoreEntry    `json:"best"`
	Recent []GameSummary `json:"recent"`
}

// SimulatedGame is one row of a simulation report
type SimulatedGame struct {
	Game     int    `json:"game"`
	Seed     uint64 `json:"seed"`
	Score    int    `json:"score"`
	Level    int    `json:"level"`
	Lines    int    `json:"lines"`
	Pieces   int    `json:"pieces"`
	GameOver bool   `json:"game_over"`
}

// SimulationReport is the output of the simulate command
type SimulationReport struct {
	Strategy string          `json:"strategy"`
	Games    []SimulatedGame `json:"games"`
	Best     int             `json:"best"`
	Mean     float64         `json:"mean"`
}

// HealthResult response type
type HealthResult struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (o *Output) printPlayer(p Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", emph(p.DisplayName), p.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printSession(s Session) {
	fmt.Fprintf(o.w, "Session: %s (game %d)\n", emph(s.ID), s.GameNumber)
	switch {
	case s.GameOver:
		fmt.Fprintf(o.w, "State: %s\n", bad("game over"))
	case s.Paused:
		fmt.Fprintf(o.w, "State: %s\n", warn("paused"))
	default:
		fmt.Fprintf(o.w, "State: %s\n", s.Phase)
	}
	fmt.Fprintf(o.w, "Score: %s  Level: %d  Lines: %d  Pieces: %d\n",
		humanize.Comma(int64(s.Score)), s.Level, s.Lines, s.Pieces)
	fmt.Fprintf(o.w, "Drop interval: %s\n", time.Duration(s.DropIntervalMS)*time.Millisecond)
	if s.Next != nil {
		fmt.Fprintf(o.w, "Next: %s\n", s.Next.Type)
	}
	o.printRows(s.Rows)
}

// printRows draws the composite board, one text row per board row
func (o *Output) printRows(rows []string) {
	if len(rows) == 0 {
		return
	}
	width := len(rows[0])

	fmt.Fprintf(o.w, "+%s+\n", dashes(width))
	for _, row := range rows {
		fmt.Fprintf(o.w, "|%s|\n", row)
	}
	fmt.Fprintf(o.w, "+%s+\n", dashes(width))
}

func dashes(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

func (o *Output) printLock(l *Lock) {
	if l == nil {
		return
	}
	if len(l.ClearedRows) > 0 {
		fmt.Fprintf(o.w, "Cleared %d line(s) for %s points\n", len(l.ClearedRows), humanize.Comma(int64(l.Points)))
	} else {
		fmt.Fprintf(o.w, "Locked %s\n", l.Piece)
	}
	if l.GameOver {
		fmt.Fprintf(o.w, "%s (%s)\n", bad("Game over"), l.Reason)
	}
}

func (o *Output) printCommandResult(c CommandResult) {
	if !c.Applied {
		fmt.Fprintln(o.w, warn("Command had no effect"))
	}
	o.printLock(c.Lock)
	o.printSession(c.Session)
}

func (o *Output) printTickResult(t TickResult) {
	if t.Dropped {
		fmt.Fprintln(o.w, "Piece dropped")
	}
	o.printLock(t.Lock)
	o.printSession(t.Session)
}

func (o *Output) printLeaderboard(l Leaderboard) {
	if len(l.Scores) == 0 {
		fmt.Fprintln(o.w, "No games recorded yet")
		return
	}
	data := make([][]string, len(l.Scores))
	for i, s := range l.Scores {
		data[i] = []string{
			strconv.Itoa(i + 1),
			s.DisplayName,
			humanize.Comma(int64(s.Score)),
			strconv.Itoa(s.Level),
			strconv.Itoa(s.Lines),
			humanize.Time(s.AchievedAt),
		}
	}
	o.printTable([]string{"#", "Player", "Score", "Level", "Lines", "When"}, data)
}

func (o *Output) printPlayerStats(p PlayerStats) {
	fmt.Fprintf(o.w, "Best: %s by %s (level %d, %d lines) %s\n",
		emph(humanize.Comma(int64(p.Best.Score))), p.Best.DisplayName, p.Best.Level, p.Best.Lines,
		humanize.Time(p.Best.AchievedAt))
	if len(p.Recent) == 0 {
		return
	}
	fmt.Fprintln(o.w)
	data := make([][]string, len(p.Recent))
	for i, g := range p.Recent {
		data[i] = []string{
			g.GameID,
			humanize.Comma(int64(g.Score)),
			strconv.Itoa(g.Level),
			strconv.Itoa(g.Lines),
			strconv.Itoa(g.Pieces),
			g.FinishedAt.Sub(g.StartedAt).Round(time.Second).String(),
		}
	}
	o.printTable([]string{"Game", "Score", "Level", "Lines", "Pieces", "Duration"}, data)
}

func (o *Output) printSimulation(r SimulationReport) {
	data := make([][]string, len(r.Games))
	for i, g := range r.Games {
		ended := "no"
		if g.GameOver {
			ended = "yes"
		}
		data[i] = []string{
			strconv.Itoa(g.Game),
			strconv.FormatUint(g.Seed, 10),
			humanize.Comma(int64(g.Score)),
			strconv.Itoa(g.Level),
			strconv.Itoa(g.Lines),
			strconv.Itoa(g.Pieces),
			ended,
		}
	}
	o.printTable([]string{"Game", "Seed", "Score", "Level", "Lines", "Pieces", "Over"}, data)
	fmt.Fprintf(o.w, "\nStrategy %s: best %s, mean %s\n",
		emph(model.BotStrategyDisplayName(r.Strategy)), humanize.Comma(int64(r.Best)), humanize.CommafWithDigits(r.Mean, 1))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Live sessions: %d\n", h.Sessions)
}

func (o *Output) printTable(header []string, data [][]string) {
	table := tablewriter.NewWriter(o.w)

	table.SetHeader(header)
	table.SetHeaderLine(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(true)

	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetColumnSeparator("  ")
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("   ")

	table.AppendBulk(data)

	table.Render()
}
