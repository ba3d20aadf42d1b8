package factory

import (
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/mocks"
	"github.com/mcoot/tetrisgame-go/internal/services/auth"
	"github.com/mcoot/tetrisgame-go/internal/services/scoring"
	"github.com/mcoot/tetrisgame-go/internal/services/session"
	"github.com/mcoot/tetrisgame-go/internal/storage/memory"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The background ticker is disabled so sessions only move when a test
// commands or ticks them.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	sessionCfg := session.DefaultConfig()
	sessionCfg.TickRate = 0

	app := newWithDependencies(store, mockClock, mockRandom, authCfg, sessionCfg, scoring.DefaultConfig(), logger)

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
