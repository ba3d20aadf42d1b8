package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
)

// Layout, in terminal cells. Each board cell is two columns wide.
const (
	boardX     = 1
	boardY     = 1
	cellWidth  = 2
	boardWidth = model.BoardCols*cellWidth + 2
	panelX     = boardX + boardWidth + 3
)

var (
	styleBorder = tcell.StyleDefault.Foreground(tcell.ColorLightGray)
	styleEmpty  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleLabel  = tcell.StyleDefault.Foreground(tcell.ColorLightGray).Bold(true)
	styleValue  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightGray).Bold(true)
	styleHelp   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

var cellColors = map[model.Cell]tcell.Color{
	1: tcell.ColorDarkCyan,
	2: tcell.ColorYellow,
	3: tcell.ColorPurple,
	4: tcell.ColorGreen,
	5: tcell.ColorRed,
	6: tcell.ColorBlue,
	7: tcell.ColorOrange,
}

var helpLines = []string{
	"←/h  left",
	"→/l  right",
	"↑/k  rotate",
	"↓/j  drop",
	"spc  pause",
	"r    restart",
	"q    quit",
}

// Frame is everything drawn besides the snapshot itself
type Frame struct {
	Player     string
	Demo       bool
	HighScores []*model.ScoreEntry
}

// Renderer draws snapshots onto a tcell screen
type Renderer struct {
	screen tcell.Screen
}

// NewRenderer creates a Renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Draw renders one frame and shows it
func (r *Renderer) Draw(snap loop.Snapshot, frame Frame) {
	r.screen.Clear()
	r.drawBoard(snap)
	r.drawParticles(snap.Particles)
	r.drawPanel(snap, frame)

	switch {
	case snap.GameOver:
		r.drawGameOver(snap, frame.HighScores)
	case snap.Paused:
		r.banner(boardY+model.BoardRows/2, "PAUSED")
	}
	r.screen.Show()
}

func (r *Renderer) drawBoard(snap loop.Snapshot) {
	bottom := boardY + model.BoardRows + 1
	right := boardX + boardWidth - 1
	for y := boardY; y <= bottom; y++ {
		r.screen.SetContent(boardX, y, '│', nil, styleBorder)
		r.screen.SetContent(right, y, '│', nil, styleBorder)
	}
	for x := boardX; x <= right; x++ {
		r.screen.SetContent(x, bottom, '─', nil, styleBorder)
	}
	r.screen.SetContent(boardX, bottom, '└', nil, styleBorder)
	r.screen.SetContent(right, bottom, '┘', nil, styleBorder)

	grid := snap.Composite()
	for row := range model.BoardRows {
		for col := range model.BoardCols {
			r.drawCell(boardX+1+col*cellWidth, boardY+1+row, grid[row][col])
		}
	}
}

func (r *Renderer) drawCell(x, y int, cell model.Cell) {
	if cell.IsEmpty() {
		r.screen.SetContent(x, y, ' ', nil, styleEmpty)
		r.screen.SetContent(x+1, y, '.', nil, styleEmpty)
		return
	}
	style := tcell.StyleDefault.Foreground(cellColors[cell])
	r.screen.SetContent(x, y, '█', nil, style)
	r.screen.SetContent(x+1, y, '█', nil, style)
}

// drawParticles overlays line-clear particles that are still on the board
func (r *Renderer) drawParticles(particles []loop.Particle) {
	for _, p := range particles {
		if p.Life <= 0 || p.X < 0 || p.Y < 0 {
			continue
		}
		col, row := int(p.X), int(p.Y)
		if col >= model.BoardCols || row >= model.BoardRows {
			continue
		}
		ch := '*'
		if p.Life < 0.5 {
			ch = '·'
		}
		style := tcell.StyleDefault.Foreground(cellColors[p.Color])
		r.screen.SetContent(boardX+1+col*cellWidth, boardY+1+row, ch, nil, style)
	}
}

func (r *Renderer) drawPanel(snap loop.Snapshot, frame Frame) {
	y := boardY
	if frame.Player != "" {
		r.text(panelX, y, frame.Player, styleValue)
		y += 2
	}

	r.text(panelX, y, "NEXT", styleLabel)
	if snap.Next != nil {
		for _, pos := range snap.Next.Shape.Occupied() {
			r.drawCell(panelX+pos.Col*cellWidth, y+1+pos.Row, snap.Next.Color())
		}
	}
	y += 4

	stats := []struct {
		label string
		value string
	}{
		{"SCORE", humanize.Comma(int64(snap.Score))},
		{"LEVEL", fmt.Sprintf("%d", snap.Level)},
		{"LINES", humanize.Comma(int64(snap.Lines))},
	}
	for _, s := range stats {
		r.text(panelX, y, s.label, styleLabel)
		r.text(panelX+7, y, s.value, styleValue)
		y++
	}
	y++

	if frame.Demo {
		r.text(panelX, y, "DEMO", styleBanner)
		y += 2
	}
	for _, line := range helpLines {
		r.text(panelX, y, line, styleHelp)
		y++
	}
}

func (r *Renderer) drawGameOver(snap loop.Snapshot, scores []*model.ScoreEntry) {
	y := boardY + 4
	r.banner(y, "GAME OVER")
	r.banner(y+2, "score "+humanize.Comma(int64(snap.Score)))
	r.banner(y+3, "r restart  q quit")

	if len(scores) == 0 {
		return
	}
	y += 6
	r.banner(y, "HIGH SCORES")
	for i, s := range scores {
		line := fmt.Sprintf("%d. %-8s %7s", i+1, model.ShortName(s.DisplayName, 8), humanize.Comma(int64(s.Score)))
		r.text(boardX+2, y+1+i, line, styleValue)
	}
}

// banner writes text centred over the board
func (r *Renderer) banner(y int, s string) {
	width := len([]rune(s)) + 2
	x := boardX + (boardWidth-width)/2
	r.text(x, y, " "+s+" ", styleBanner)
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}
