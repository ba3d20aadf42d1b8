package bot

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/board"
	"github.com/mcoot/tetrisgame-go/internal/testutil"
)

type StrategySuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
	greedy     *GreedyStrategy
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategySuite))
}

func (s *StrategySuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
	s.greedy = NewGreedyStrategy(board.New(), DefaultWeights)
}

func (s *StrategySuite) TestMeasure() {
	b := testutil.BoardFromRows(
		"#.........",
		".#........",
	)

	f := Measure(b)
	s.Equal(3, f.AggregateHeight)
	s.Equal(1, f.Holes)
	s.Equal(2, f.Bumpiness)
}

func (s *StrategySuite) TestMeasureEmptyBoard() {
	s.Equal(Features{}, Measure(model.NewBoard()))
}

func (s *StrategySuite) TestColumnRange() {
	tests := []struct {
		name     string
		shape    model.Shape
		min, max int
	}{
		{"I flat", model.SpawnShape(model.PieceI), 0, 6},
		{"I upright", model.SpawnShape(model.PieceI).Rotated(), 0, 9},
		{"O", model.SpawnShape(model.PieceO), 0, 8},
		{"T", model.SpawnShape(model.PieceT), 0, 7},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			lo, hi := columnRange(tt.shape)
			s.Equal(tt.min, lo)
			s.Equal(tt.max, hi)
		})
	}
}

func (s *StrategySuite) TestRandomStrategyUsesRandomRotationAndColumn() {
	strategy := NewRandomStrategy(s.mockRandom)
	s.mockRandom.QueueIntn(1, 5)

	placement := strategy.Choose(model.NewBoard(), model.NewPiece(model.PieceT), nil)
	s.Equal(Placement{Rotations: 1, Column: 5}, placement)
}

func (s *StrategySuite) TestRandomStrategyColumnStaysOnBoard() {
	strategy := NewRandomStrategy(s.mockRandom)
	s.mockRandom.QueueIntn(0, 100)

	placement := strategy.Choose(model.NewBoard(), model.NewPiece(model.PieceI), nil)
	// 100 % 7 columns available for a flat I
	s.Equal(2, placement.Column)
}

func (s *StrategySuite) TestGreedyFillsGapToClearLine() {
	b := testutil.BoardFromRows(testutil.FullRowExcept(0, 1, 2, 3))
	piece := model.NewPiece(model.PieceI)
	piece.X = 3

	placement := s.greedy.Choose(b, piece, nil)
	s.Equal(Placement{Rotations: 0, Column: 0}, placement)
}

func (s *StrategySuite) TestGreedyUsesWellForUprightI() {
	well := testutil.FullRowExcept(9)
	b := testutil.BoardFromRows(well, well, well, well)
	piece := model.NewPiece(model.PieceI)
	piece.X = 3

	placement := s.greedy.Choose(b, piece, nil)
	s.Equal(Placement{Rotations: 1, Column: 9}, placement)
}

func (s *StrategySuite) TestGreedyPrefersFlatSurface() {
	b := testutil.BoardFromRows(
		"##....####",
		"##....####",
	)
	piece := model.NewPiece(model.PieceO)
	piece.X = 4

	placement := s.greedy.Choose(b, piece, nil)
	s.Equal(0, placement.Rotations)
	s.Contains([]int{2, 4}, placement.Column)
}

func (s *StrategySuite) TestNewStrategy() {
	greedy, err := NewStrategy(model.BotStrategyGreedy, board.New(), s.mockRandom)
	s.Require().NoError(err)
	s.IsType(&GreedyStrategy{}, greedy)

	random, err := NewStrategy(model.BotStrategyRandom, board.New(), s.mockRandom)
	s.Require().NoError(err)
	s.IsType(&RandomStrategy{}, random)

	_, err = NewStrategy("clever", board.New(), s.mockRandom)
	s.Error(err)
}
