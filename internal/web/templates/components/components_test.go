package components

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestBoardPanelDrawsFallingPiece(t *testing.T) {
	current := model.NewPiece(model.PieceO)
	current.X = 4
	snap := loop.Snapshot{SessionID: "ABCD2345", Current: current, Next: model.NewPiece(model.PieceI), Score: 1200}
	snap.Board[19][0] = model.PieceL.Color()

	doc := render(t, BoardPanel(snap))

	cells := doc.Find("#board-grid .cell")
	assert.Equal(t, model.BoardRows*model.BoardCols, cells.Length())
	assert.Equal(t, 4, doc.Find("#board-grid .c2").Length())
	assert.Equal(t, 1, doc.Find("#board-grid .c7").Length())
	assert.Equal(t, "1,200", doc.Find("#score").Text())
	assert.Equal(t, "I", doc.Find("#next").AttrOr("data-piece", ""))
	assert.True(t, doc.Find("#next").HasClass("w4"))
	assert.Equal(t, 0, doc.Find("#status").Length())
}

func TestBoardPanelGameOverHidesPiece(t *testing.T) {
	snap := loop.Snapshot{Current: model.NewPiece(model.PieceO), GameOver: true}

	doc := render(t, BoardPanel(snap))

	assert.Equal(t, 0, doc.Find("#board-grid .c2").Length())
	assert.Equal(t, "Game over", doc.Find("#status").Text())
}

func TestBoardPanelPaused(t *testing.T) {
	snap := loop.Snapshot{Current: model.NewPiece(model.PieceT), Paused: true}

	doc := render(t, BoardPanel(snap))

	assert.Equal(t, "Paused", doc.Find("#status").Text())
}

func TestBoardWrapsPanelForSwap(t *testing.T) {
	snap := loop.Snapshot{SessionID: "ABCD2345", GameNumber: 3, Current: model.NewPiece(model.PieceT)}

	doc := render(t, Board(snap))

	board := doc.Find("#board")
	assert.Equal(t, "board-update", board.AttrOr("sse-swap", ""))
	assert.Equal(t, "outerHTML", board.AttrOr("hx-swap", ""))
	assert.Equal(t, "3", board.Find("#board-grid").AttrOr("data-game", ""))
}

func TestLeaderboardEscapesNames(t *testing.T) {
	scores := []*model.ScoreEntry{
		{DisplayName: "<b>Mallory</b>", Score: 4000, Level: 3, Lines: 25, AchievedAt: time.Now()},
		{DisplayName: "Bob", Score: 900, AchievedAt: time.Now()},
	}

	doc := render(t, Leaderboard(scores))

	rows := doc.Find(".score-row")
	assert.Equal(t, 2, rows.Length())
	assert.Equal(t, "<b>Mallory</b>", rows.First().Find(".player").Text())
	assert.Equal(t, "4,000", rows.First().Find(".score").Text())
	assert.Equal(t, 0, doc.Find(".score-row b").Length())
}

func TestLeaderboardEmpty(t *testing.T) {
	doc := render(t, Leaderboard(nil))
	assert.Equal(t, 1, doc.Find("#leaderboard .empty").Length())
	assert.Equal(t, 0, doc.Find("#leaderboard table").Length())
}
