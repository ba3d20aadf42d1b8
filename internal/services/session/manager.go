package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mcoot/tetrisgame-go/internal/dependencies/clock"
	"github.com/mcoot/tetrisgame-go/internal/dependencies/random"
	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/game"
	"github.com/mcoot/tetrisgame-go/internal/services/loop"
	"github.com/mcoot/tetrisgame-go/internal/storage"
)

const (
	// SessionIDLength is the length of generated session IDs
	SessionIDLength = 8
	// SessionIDAlphabet avoids characters that are easy to confuse
	SessionIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Config holds configuration for the session manager
type Config struct {
	// TickRate is how often running sessions are ticked. Zero disables the
	// background ticker; sessions then only advance through Tick.
	TickRate time.Duration

	// IdleTimeout is how long a session may go without commands before
	// SweepIdle ends it
	IdleTimeout time.Duration
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		TickRate:    50 * time.Millisecond,
		IdleTimeout: 30 * time.Minute,
	}
}

// Observer is notified of every session event. Implementations must not
// block.
type Observer interface {
	OnSessionEvent(event model.Event)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(event model.Event)

// OnSessionEvent calls f(event)
func (f ObserverFunc) OnSessionEvent(event model.Event) {
	f(event)
}

type entry struct {
	driver   *loop.Driver
	playerID model.PlayerID

	mu           sync.Mutex
	ended        bool
	lastActive   time.Time
	recordedGame int

	// The ticker drives game tickGame only; a ticker left over from an
	// earlier game is replaced, never reused
	ticker   clock.Ticker
	stop     chan struct{}
	tickGame int
}

// Manager hosts the running sessions. Each session is owned by one
// loop.Driver; the manager adds ownership checks, background ticking,
// result recording and event fan-out around it.
type Manager struct {
	controller *game.Controller
	storage    storage.Storage
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
	config     Config

	mu        sync.RWMutex
	sessions  map[model.SessionID]*entry
	observers []Observer
}

// NewManager creates a new session Manager
func NewManager(
	controller *game.Controller,
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	config Config,
) *Manager {
	return &Manager{
		controller: controller,
		storage:    storage,
		clock:      clock,
		random:     random,
		logger:     logger.With(slog.String("component", "session-manager")),
		config:     config,
		sessions:   make(map[model.SessionID]*entry),
	}
}

// AddObserver registers an observer for all session events
func (m *Manager) AddObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Create starts a new session owned by the player. Bot players need no
// stored account and their games are never recorded.
func (m *Manager) Create(ctx context.Context, playerID model.PlayerID) (loop.Snapshot, error) {
	if !playerID.IsBot() {
		if _, err := m.storage.GetPlayer(ctx, playerID); err != nil {
			return loop.Snapshot{}, err
		}
	}

	m.mu.Lock()
	var id model.SessionID
	for {
		id = model.SessionID(m.random.String(SessionIDLength, SessionIDAlphabet))
		if _, exists := m.sessions[id]; !exists {
			break
		}
	}
	sess := m.controller.NewSession(id, playerID)
	e := &entry{
		driver:     loop.NewDriver(m.controller, sess, loop.NewEffects(m.random), m.logger),
		playerID:   playerID,
		lastActive: m.clock.Now(),
	}
	m.sessions[id] = e
	m.mu.Unlock()

	m.startTicker(e, sess.GameNumber)

	m.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.String("player_id", string(playerID)),
	)
	m.emit(e, model.EventSessionStarted, nil)
	return e.driver.Snapshot(), nil
}

// Get returns the driver of a running session
func (m *Manager) Get(id model.SessionID) (*loop.Driver, error) {
	e, err := m.get(id)
	if err != nil {
		return nil, err
	}
	return e.driver, nil
}

// Snapshot returns the current state of a session
func (m *Manager) Snapshot(id model.SessionID) (loop.Snapshot, error) {
	e, err := m.get(id)
	if err != nil {
		return loop.Snapshot{}, err
	}
	return e.driver.Snapshot(), nil
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List returns a snapshot of every running session ordered by ID
func (m *Manager) List() []loop.Snapshot {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	snaps := make([]loop.Snapshot, 0, len(entries))
	for _, e := range entries {
		snaps = append(snaps, e.driver.Snapshot())
	}
	slices.SortFunc(snaps, func(a, b loop.Snapshot) int {
		switch {
		case a.SessionID < b.SessionID:
			return -1
		case a.SessionID > b.SessionID:
			return 1
		}
		return 0
	})
	return snaps
}

// Command applies a player's input to their session
func (m *Manager) Command(ctx context.Context, id model.SessionID, playerID model.PlayerID, cmd model.Command) (game.Outcome, loop.Snapshot, error) {
	e, err := m.owned(id, playerID)
	if err != nil {
		return game.Outcome{}, loop.Snapshot{}, err
	}

	outcome, err := e.driver.Command(cmd)
	if err != nil {
		return outcome, loop.Snapshot{}, err
	}
	m.touch(e)

	snap := e.driver.Snapshot()
	switch {
	case cmd == model.CommandRestart:
		m.startTicker(e, snap.GameNumber)
		m.emit(e, model.EventRestarted, nil)
	case cmd == model.CommandPause && outcome.Applied && snap.Paused:
		m.emit(e, model.EventPaused, nil)
	case cmd == model.CommandPause && outcome.Applied:
		m.emit(e, model.EventResumed, nil)
	case outcome.Lock != nil:
		m.afterLock(ctx, e, outcome.Lock, snap)
	case outcome.Applied:
		m.emit(e, model.EventUpdated, nil)
	}
	return outcome, snap, nil
}

// Tick advances a session by delta. Used by clients that drive their own
// clock instead of the background ticker.
func (m *Manager) Tick(ctx context.Context, id model.SessionID, playerID model.PlayerID, delta time.Duration) (loop.TickResult, loop.Snapshot, error) {
	if delta <= 0 {
		return loop.TickResult{}, loop.Snapshot{}, model.ErrInvalidDelta
	}
	e, err := m.owned(id, playerID)
	if err != nil {
		return loop.TickResult{}, loop.Snapshot{}, err
	}
	result := m.step(ctx, e, delta)
	return result, e.driver.Snapshot(), nil
}

// End stops a session and removes it. An unfinished game with at least one
// locked piece is recorded as if it had ended.
func (m *Manager) End(ctx context.Context, id model.SessionID, playerID model.PlayerID) error {
	e, err := m.owned(id, playerID)
	if err != nil {
		return err
	}
	m.end(ctx, e, "ended by player")
	return nil
}

// SweepIdle ends every session without commands for longer than the idle
// timeout. Returns the number of sessions ended.
func (m *Manager) SweepIdle(ctx context.Context) int {
	if m.config.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.clock.Now().Add(-m.config.IdleTimeout)

	m.mu.RLock()
	var idle []*entry
	for _, e := range m.sessions {
		e.mu.Lock()
		if e.lastActive.Before(cutoff) {
			idle = append(idle, e)
		}
		e.mu.Unlock()
	}
	m.mu.RUnlock()

	for _, e := range idle {
		m.end(ctx, e, "idle")
	}
	return len(idle)
}

// Shutdown ends every session
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.RLock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	for _, e := range entries {
		m.end(ctx, e, "shutdown")
	}
}

func (m *Manager) get(id model.SessionID) (*entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return e, nil
}

func (m *Manager) owned(id model.SessionID, playerID model.PlayerID) (*entry, error) {
	e, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if e.playerID != playerID {
		return nil, model.ErrNotSessionOwner
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return nil, model.ErrSessionEnded
	}
	return e, nil
}

func (m *Manager) touch(e *entry) {
	e.mu.Lock()
	e.lastActive = m.clock.Now()
	e.mu.Unlock()
}

func (m *Manager) step(ctx context.Context, e *entry, delta time.Duration) loop.TickResult {
	result := e.driver.Tick(delta)
	if !result.Dropped {
		return result
	}
	snap := e.driver.Snapshot()
	if result.Lock != nil {
		m.afterLock(ctx, e, result.Lock, snap)
	} else {
		m.emit(e, model.EventUpdated, nil)
	}
	return result
}

// afterLock publishes a lock. When it ended the game the ticker is stopped
// and the result recorded before any observer hears about it, so a restart
// issued from an observer starts cleanly on the next game.
func (m *Manager) afterLock(ctx context.Context, e *entry, lock *game.LockResult, snap loop.Snapshot) {
	if lock.GameOver {
		m.stopTicker(e, snap.GameNumber)
		m.record(ctx, e, snap)
	}

	if len(lock.Cells) > 0 {
		m.emit(e, model.EventPieceLocked, model.PieceLockedPayload{
			Piece: lock.Piece,
			Cells: lock.Cells,
		})
	}
	if len(lock.ClearedRows) > 0 {
		m.emit(e, model.EventLinesCleared, model.LinesClearedPayload{
			Rows:   lock.ClearedRows,
			Count:  len(lock.ClearedRows),
			Points: lock.Points,
			Level:  snap.Level,
		})
	}
	if lock.GameOver {
		m.emit(e, model.EventGameOver, model.GameOverPayload{
			Reason: lock.Reason,
			Score:  snap.Score,
			Level:  snap.Level,
			Lines:  snap.Lines,
		})
	}
}

// record persists the result of the game snap was taken from, once per game
func (m *Manager) record(ctx context.Context, e *entry, snap loop.Snapshot) {
	if e.playerID.IsBot() {
		return
	}
	e.mu.Lock()
	if e.recordedGame >= snap.GameNumber {
		e.mu.Unlock()
		return
	}
	e.recordedGame = snap.GameNumber
	e.mu.Unlock()

	now := m.clock.Now()
	summary := snap.Summary(now)
	if err := m.storage.SaveSummary(ctx, summary); err != nil {
		m.logger.Error("failed to save game summary",
			slog.String("game_id", string(summary.GameID)),
			slog.String("error", err.Error()),
		)
	}

	displayName := string(e.playerID)
	player, err := m.storage.GetPlayer(ctx, e.playerID)
	if err == nil {
		displayName = player.DisplayName
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		m.logger.Warn("failed to load player for score",
			slog.String("player_id", string(e.playerID)),
			slog.String("error", err.Error()),
		)
	}

	score := &model.ScoreEntry{
		GameID:      summary.GameID,
		SessionID:   summary.SessionID,
		PlayerID:    summary.PlayerID,
		DisplayName: displayName,
		Score:       summary.Score,
		Level:       summary.Level,
		Lines:       summary.Lines,
		AchievedAt:  now,
	}
	if err := m.storage.SaveScore(ctx, score); err != nil {
		m.logger.Error("failed to save score",
			slog.String("game_id", string(summary.GameID)),
			slog.String("error", err.Error()),
		)
		return
	}

	m.logger.Info("game recorded",
		slog.String("game_id", string(summary.GameID)),
		slog.Int("score", summary.Score),
		slog.Int("lines", summary.Lines),
	)
}

func (m *Manager) end(ctx context.Context, e *entry, reason string) {
	e.mu.Lock()
	if e.ended {
		e.mu.Unlock()
		return
	}
	e.ended = true
	e.mu.Unlock()

	m.stopTicker(e, 0)
	snap := e.driver.Snapshot()
	if snap.Pieces > 0 {
		m.record(ctx, e, snap)
	}

	m.mu.Lock()
	delete(m.sessions, snap.SessionID)
	m.mu.Unlock()

	m.logger.Info("session ended",
		slog.String("session_id", string(snap.SessionID)),
		slog.String("reason", reason),
	)
	m.emit(e, model.EventSessionEnded, nil)
}

// startTicker runs the background ticker for game. A ticker still attached
// from an earlier game is stopped first.
func (m *Manager) startTicker(e *entry, game int) {
	if m.config.TickRate <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended || (e.ticker != nil && e.tickGame == game) {
		return
	}
	e.detachTicker()
	e.ticker = m.clock.NewTicker(m.config.TickRate)
	e.stop = make(chan struct{})
	e.tickGame = game
	go m.runTicker(e, e.ticker, e.stop, m.clock.Now())
}

// stopTicker stops the ticker if it belongs to game. Zero stops whatever
// ticker is running.
func (m *Manager) stopTicker(e *entry, game int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if game != 0 && e.tickGame != game {
		return
	}
	e.detachTicker()
}

// detachTicker stops the current ticker. Callers hold e.mu.
func (e *entry) detachTicker() {
	if e.ticker == nil {
		return
	}
	e.ticker.Stop()
	close(e.stop)
	e.ticker = nil
	e.stop = nil
	e.tickGame = 0
}

func (m *Manager) runTicker(e *entry, ticker clock.Ticker, stop <-chan struct{}, last time.Time) {
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C():
			delta := now.Sub(last)
			last = now
			m.step(context.Background(), e, delta)
		}
	}
}

func (m *Manager) emit(e *entry, eventType model.EventType, payload any) {
	event := model.Event{
		Type:      eventType,
		Timestamp: m.clock.Now(),
		SessionID: e.driver.ID(),
		PlayerID:  e.playerID,
		Payload:   payload,
	}

	m.mu.RLock()
	observers := slices.Clone(m.observers)
	m.mu.RUnlock()

	for _, o := range observers {
		o.OnSessionEvent(event)
	}
}
