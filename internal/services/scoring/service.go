package scoring

import (
	"time"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

// Config holds the scoring and speed policy
type Config struct {
	// LineBonus[k] is the base award for clearing k rows in one lock.
	// Larger clears are credited at the last entry.
	LineBonus     []int
	LinesPerLevel int

	BaseInterval time.Duration
	IntervalStep time.Duration
	MinInterval  time.Duration
}

// DefaultConfig returns the classic policy
func DefaultConfig() Config {
	return Config{
		LineBonus:     []int{0, 100, 300, 500, 800},
		LinesPerLevel: 10,
		BaseInterval:  1000 * time.Millisecond,
		IntervalStep:  100 * time.Millisecond,
		MinInterval:   100 * time.Millisecond,
	}
}

// Service applies line-clear awards and derives level and drop speed
type Service struct {
	config Config
}

// New creates a new ScoringService
func New(config Config) *Service {
	return &Service{
		config: config,
	}
}

// Config returns the active policy
func (s *Service) Config() Config {
	return s.config
}

// LinePoints returns the award for clearing the given number of rows at level
func (s *Service) LinePoints(lines, level int) int {
	if lines <= 0 || len(s.config.LineBonus) == 0 {
		return 0
	}
	idx := min(lines, len(s.config.LineBonus)-1)
	return s.config.LineBonus[idx] * level
}

// LevelFor returns the level reached after clearing the given total lines
func (s *Service) LevelFor(totalLines int) int {
	return totalLines/s.config.LinesPerLevel + 1
}

// DropInterval returns the automatic drop period for a level
func (s *Service) DropInterval(level int) time.Duration {
	interval := s.config.BaseInterval - time.Duration(level-1)*s.config.IntervalStep
	return max(s.config.MinInterval, interval)
}

// Reset puts the session's counters back to their starting values
func (s *Service) Reset(session *model.Session) {
	session.Score = 0
	session.Lines = 0
	session.Level = s.LevelFor(0)
	session.DropInterval = s.DropInterval(session.Level)
}

// ApplyClear credits one lock event that cleared the given number of rows.
// The award uses the level in effect before the clear. Returns the points
// awarded.
func (s *Service) ApplyClear(session *model.Session, lines int) int {
	if lines <= 0 {
		return 0
	}
	points := s.LinePoints(lines, session.Level)
	session.Score += points
	session.Lines += lines
	session.Level = s.LevelFor(session.Lines)
	session.DropInterval = s.DropInterval(session.Level)
	return points
}

// Interface for dependency injection
type ServiceInterface interface {
	LinePoints(lines, level int) int
	LevelFor(totalLines int) int
	DropInterval(level int) time.Duration
	Reset(session *model.Session)
	ApplyClear(session *model.Session, lines int) int
}

var _ ServiceInterface = (*Service)(nil)
