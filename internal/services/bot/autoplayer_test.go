package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/board"
	"github.com/mcoot/tetrisgame-go/internal/services/game"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
	"github.com/mcoot/tetrisgame-go/internal/services/scoring"
	"github.com/mcoot/tetrisgame-go/internal/testutil"
)

type AutoplayerSuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
	controller *game.Controller
	autoplayer *Autoplayer
}

func TestAutoplayerSuite(t *testing.T) {
	suite.Run(t, new(AutoplayerSuite))
}

func (s *AutoplayerSuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	boardService := board.New()
	s.controller = game.NewController(boardService, scoring.New(scoring.DefaultConfig()), clk, s.mockRandom, testutil.NopLogger())
	s.autoplayer = NewAutoplayer(NewGreedyStrategy(boardService, DefaultWeights), testutil.NopLogger())
}

func (s *AutoplayerSuite) newDriver(rows ...string) (*loop.Driver, *model.Session) {
	session := s.controller.NewSession("BOT00001", "bot-player")
	if len(rows) > 0 {
		session.Board.Cells = testutil.BoardFromRows(rows...).Cells
	}
	return loop.NewDriver(s.controller, session, loop.NewEffects(s.mockRandom), testutil.NopLogger()), session
}

func (s *AutoplayerSuite) TestPlayPieceClearsLine() {
	s.mockRandom.QueuePieces(int(model.PieceI), int(model.PieceO))
	driver, session := s.newDriver(testutil.FullRowExcept(0, 1, 2, 3))

	lock, err := s.autoplayer.PlayPiece(driver)
	s.Require().NoError(err)
	s.Require().NotNil(lock)

	s.Equal(model.PieceI, lock.Piece)
	s.Equal([]int{19}, lock.ClearedRows)
	s.Equal(1, session.Lines)
	s.Equal(model.PieceO, session.Current.Type)
	s.Equal(0, session.Board.FilledCount())
}

func (s *AutoplayerSuite) TestPlayPieceNoopWhilePaused() {
	driver, session := s.newDriver()
	_, err := driver.Command(model.CommandPause)
	s.Require().NoError(err)
	x := session.Current.X

	lock, err := s.autoplayer.PlayPiece(driver)
	s.Require().NoError(err)
	s.Nil(lock)
	s.Equal(x, session.Current.X)
	s.Equal(0, session.Current.Y)
}

func (s *AutoplayerSuite) TestPlayLocksRequestedPieces() {
	driver, session := s.newDriver()

	locked, err := s.autoplayer.Play(context.Background(), driver, 5)
	s.Require().NoError(err)
	s.Equal(5, locked)
	s.Equal(5, session.Pieces)
	s.False(session.GameOver)
}

func (s *AutoplayerSuite) TestPlayStopsOnCancelledContext() {
	driver, session := s.newDriver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	locked, err := s.autoplayer.Play(ctx, driver, 0)
	s.ErrorIs(err, context.Canceled)
	s.Equal(0, locked)
	s.Equal(0, session.Pieces)
}

func (s *AutoplayerSuite) TestPlayRunsUntilGameOver() {
	driver, session := s.newDriver()
	s.autoplayer = NewAutoplayer(NewRandomStrategy(s.mockRandom), testutil.NopLogger())

	// random placements of I pieces stacked in column 0 top out quickly
	_, err := s.autoplayer.Play(context.Background(), driver, 0)
	s.Require().NoError(err)
	s.True(session.GameOver)
}
