package loop

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/board"
	"github.com/mcoot/tetrisgame-go/internal/services/game"
	"github.com/mcoot/tetrisgame-go/internal/services/scoring"
	"github.com/mcoot/tetrisgame-go/internal/testutil"
)

type DriverSuite struct {
	suite.Suite
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *game.Controller
	session    *model.Session
	driver     *Driver
}

func TestDriverSuite(t *testing.T) {
	suite.Run(t, new(DriverSuite))
}

func (s *DriverSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = game.NewController(
		board.New(),
		scoring.New(scoring.DefaultConfig()),
		s.clock,
		s.random,
		testutil.NopLogger(),
	)
	s.random.QueuePieces(int(model.PieceO), int(model.PieceT))
	s.session = s.controller.NewSession("SESSION1", "player-1")
	s.driver = NewDriver(s.controller, s.session, NewEffects(s.random), testutil.NopLogger())
}

// Tick tests

func (s *DriverSuite) TestTickAccumulatesBelowInterval() {
	for i := 0; i < 10; i++ {
		s.False(s.driver.Tick(100 * time.Millisecond).Dropped)
	}
	// exactly the interval is not enough
	s.Equal(time.Second, s.driver.Accumulated())
	s.Equal(0, s.session.Current.Y)
}

func (s *DriverSuite) TestTickDropsOnceWhenIntervalExceeded() {
	s.driver.Tick(999 * time.Millisecond)
	result := s.driver.Tick(2 * time.Millisecond)

	s.True(result.Dropped)
	s.Nil(result.Lock)
	s.Equal(1, s.session.Current.Y)
	s.Equal(time.Duration(0), s.driver.Accumulated())
}

func (s *DriverSuite) TestTickDiscardsExcess() {
	result := s.driver.Tick(5 * time.Second)

	s.True(result.Dropped)
	s.Equal(1, s.session.Current.Y)
	s.Equal(time.Duration(0), s.driver.Accumulated())

	s.False(s.driver.Tick(900 * time.Millisecond).Dropped)
	s.Equal(1, s.session.Current.Y)
}

func (s *DriverSuite) TestTickUsesLevelInterval() {
	s.session.Level = 5
	s.session.DropInterval = 600 * time.Millisecond

	s.False(s.driver.Tick(600 * time.Millisecond).Dropped)
	s.True(s.driver.Tick(time.Millisecond).Dropped)
}

func (s *DriverSuite) TestTickFrozenWhilePaused() {
	s.driver.Tick(500 * time.Millisecond)
	_, err := s.driver.Command(model.CommandPause)
	s.Require().NoError(err)

	s.False(s.driver.Tick(10 * time.Second).Dropped)
	s.Equal(500*time.Millisecond, s.driver.Accumulated())
	s.Equal(0, s.session.Current.Y)

	_, err = s.driver.Command(model.CommandPause)
	s.Require().NoError(err)
	s.True(s.driver.Tick(501 * time.Millisecond).Dropped)
}

func (s *DriverSuite) TestTickDoesNothingAfterGameOver() {
	s.session.GameOver = true

	s.False(s.driver.Tick(10 * time.Second).Dropped)
	s.Equal(time.Duration(0), s.driver.Accumulated())
}

func (s *DriverSuite) TestTickIgnoresNonPositiveDelta() {
	s.False(s.driver.Tick(0).Dropped)
	s.False(s.driver.Tick(-time.Second).Dropped)
	s.Equal(time.Duration(0), s.driver.Accumulated())
}

func (s *DriverSuite) TestTickLocksAtFloor() {
	s.session.Current.Y = 18

	result := s.driver.Tick(1001 * time.Millisecond)

	s.True(result.Dropped)
	s.Require().NotNil(result.Lock)
	s.Equal(4, s.session.Board.FilledCount())
	s.Equal(model.PieceT, s.session.Current.Type)
}

// Command tests

func (s *DriverSuite) TestCommandAndTickShareDropPath() {
	_, err := s.driver.Command(model.CommandDrop)
	s.Require().NoError(err)
	s.driver.Tick(1001 * time.Millisecond)

	s.Equal(2, s.session.Current.Y)
}

func (s *DriverSuite) TestCommandInvalid() {
	_, err := s.driver.Command("spin")
	s.ErrorIs(err, model.ErrInvalidCommand)
}

func (s *DriverSuite) TestLineClearSpawnsParticles() {
	s.session.Board = testutil.BoardFromRows(testutil.FullRowExcept(4, 5))
	s.session.Current.Y = 18

	outcome, err := s.driver.Command(model.CommandDrop)
	s.Require().NoError(err)
	s.Require().NotNil(outcome.Lock)
	s.Equal([]int{19}, outcome.Lock.ClearedRows)

	snap := s.driver.Snapshot()
	s.Len(snap.Particles, model.BoardCols*ParticlesPerCell)
	s.Equal(100, snap.Score)

	// particles outlive a short tick but not a long one
	s.driver.Tick(100 * time.Millisecond)
	s.Equal(model.BoardCols*ParticlesPerCell, len(s.driver.Snapshot().Particles))
	s.driver.Tick(time.Second)
	s.Empty(s.driver.Snapshot().Particles)
}

func (s *DriverSuite) TestRestartClearsAccumulatorAndEffects() {
	s.session.Board = testutil.BoardFromRows(testutil.FullRowExcept(4, 5))
	s.session.Current.Y = 18
	_, _ = s.driver.Command(model.CommandDrop)
	s.driver.Tick(300 * time.Millisecond)

	_, err := s.driver.Command(model.CommandRestart)
	s.Require().NoError(err)

	snap := s.driver.Snapshot()
	s.Empty(snap.Particles)
	s.Equal(0, snap.Score)
	s.Equal(time.Duration(0), s.driver.Accumulated())
}

// Snapshot tests

func (s *DriverSuite) TestSnapshotIsACopy() {
	snap := s.driver.Snapshot()
	snap.Board[19][0] = 3
	snap.Current.X = 0

	s.Equal(0, s.session.Board.FilledCount())
	s.Equal(4, s.session.Current.X)
}

func (s *DriverSuite) TestSnapshotCompositeOverlaysPiece() {
	grid := s.driver.Snapshot().Composite()

	s.Equal(model.Cell(2), grid[0][4])
	s.Equal(model.Cell(2), grid[1][5])
	s.Equal(model.CellEmpty, grid[2][4])
	s.Equal(0, s.session.Board.FilledCount())
}

func (s *DriverSuite) TestSnapshotSummary() {
	s.session.Score = 700
	s.session.Lines = 4
	finished := s.clock.Now().Add(3 * time.Minute)

	snap := s.driver.Snapshot()
	_, err := s.driver.Command(model.CommandRestart)
	s.Require().NoError(err)

	summary := snap.Summary(finished)

	s.Equal(model.SessionID("SESSION1"), summary.SessionID)
	s.Equal(model.GameID("SESSION1-1"), summary.GameID)
	s.Equal(700, summary.Score)
	s.Equal(4, summary.Lines)
	s.Equal(3*time.Minute, summary.Duration())
}

func (s *DriverSuite) TestParticlesFrozenWhilePaused() {
	s.session.Board = testutil.BoardFromRows(testutil.FullRowExcept(4, 5))
	s.session.Current.Y = 18
	_, err := s.driver.Command(model.CommandDrop)
	s.Require().NoError(err)
	before := s.driver.Snapshot().Particles
	s.Require().NotEmpty(before)

	_, err = s.driver.Command(model.CommandPause)
	s.Require().NoError(err)
	s.driver.Tick(5 * time.Second)

	s.Equal(before, s.driver.Snapshot().Particles)
}

// Concurrency

func (s *DriverSuite) TestConcurrentTicksAndCommands() {
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.driver.Tick(20 * time.Millisecond)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = s.driver.Command(model.AllCommands()[j%4])
				_ = s.driver.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := s.driver.Snapshot()
	s.Equal(snap.Lines/10+1, snap.Level)
}
