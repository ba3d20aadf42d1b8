package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
	session *model.Session
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(DefaultConfig())
	s.session = &model.Session{}
	s.service.Reset(s.session)
}

// LinePoints tests

func (s *ServiceSuite) TestLinePointsTable() {
	tests := []struct {
		lines, level, want int
	}{
		{0, 1, 0},
		{1, 1, 100},
		{2, 1, 300},
		{3, 1, 500},
		{4, 1, 800},
		{1, 3, 300},
		{4, 5, 4000},
		{5, 1, 800},
		{7, 2, 1600},
	}
	for _, tt := range tests {
		s.Equal(tt.want, s.service.LinePoints(tt.lines, tt.level), "lines=%d level=%d", tt.lines, tt.level)
	}
}

// Level and interval tests

func (s *ServiceSuite) TestLevelFor() {
	s.Equal(1, s.service.LevelFor(0))
	s.Equal(1, s.service.LevelFor(9))
	s.Equal(2, s.service.LevelFor(10))
	s.Equal(5, s.service.LevelFor(47))
	s.Equal(11, s.service.LevelFor(100))
}

func (s *ServiceSuite) TestDropInterval() {
	s.Equal(1000*time.Millisecond, s.service.DropInterval(1))
	s.Equal(600*time.Millisecond, s.service.DropInterval(5))
	s.Equal(100*time.Millisecond, s.service.DropInterval(10))
	s.Equal(100*time.Millisecond, s.service.DropInterval(11))
	s.Equal(100*time.Millisecond, s.service.DropInterval(30))
}

func (s *ServiceSuite) TestDropIntervalNeverIncreases() {
	prev := s.service.DropInterval(1)
	for level := 2; level <= 40; level++ {
		next := s.service.DropInterval(level)
		s.LessOrEqual(next, prev)
		prev = next
	}
}

// ApplyClear tests

func (s *ServiceSuite) TestResetStartingValues() {
	s.Equal(0, s.session.Score)
	s.Equal(0, s.session.Lines)
	s.Equal(1, s.session.Level)
	s.Equal(time.Second, s.session.DropInterval)
}

func (s *ServiceSuite) TestApplyClearSingle() {
	points := s.service.ApplyClear(s.session, 1)

	s.Equal(100, points)
	s.Equal(100, s.session.Score)
	s.Equal(1, s.session.Lines)
	s.Equal(1, s.session.Level)
}

func (s *ServiceSuite) TestApplyClearZeroIsNoop() {
	s.Equal(0, s.service.ApplyClear(s.session, 0))
	s.Equal(0, s.session.Score)
	s.Equal(0, s.session.Lines)
}

func (s *ServiceSuite) TestApplyClearUsesLevelBeforeUpdate() {
	s.session.Lines = 8
	s.session.Level = 1

	points := s.service.ApplyClear(s.session, 2)

	s.Equal(300, points)
	s.Equal(10, s.session.Lines)
	s.Equal(2, s.session.Level)
	s.Equal(900*time.Millisecond, s.session.DropInterval)
}

func (s *ServiceSuite) TestLevelInvariantHoldsAcrossClears() {
	for _, k := range []int{1, 4, 3, 2, 4, 4, 1, 1, 4, 3} {
		s.service.ApplyClear(s.session, k)
		s.Equal(s.session.Lines/10+1, s.session.Level)
		s.Equal(s.service.DropInterval(s.session.Level), s.session.DropInterval)
	}
	s.Equal(27, s.session.Lines)
}
