package loop

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/services/game"
)

// TickResult reports what a tick did
type TickResult struct {
	Dropped bool
	Lock    *game.LockResult
}

// Driver owns one session and serializes every mutation of it: timed ticks
// from the host clock and discrete commands from input. Drops triggered by
// a tick and by a command go through the same controller path.
type Driver struct {
	mu         sync.Mutex
	controller *game.Controller
	session    *model.Session
	effects    *Effects
	counter    time.Duration
	logger     *slog.Logger
}

// NewDriver wraps a session created by the controller
func NewDriver(controller *game.Controller, session *model.Session, effects *Effects, logger *slog.Logger) *Driver {
	return &Driver{
		controller: controller,
		session:    session,
		effects:    effects,
		logger:     logger.With(slog.String("session_id", string(session.ID))),
	}
}

// ID returns the session's identifier
func (d *Driver) ID() model.SessionID {
	return d.session.ID
}

// Tick advances the drop accumulator by delta. Once the accumulated time
// exceeds the current drop interval the piece drops one row and the
// accumulator restarts from zero; any excess is discarded. Neither the
// accumulator nor the particles move while paused or after game over.
func (d *Driver) Tick(delta time.Duration) TickResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.session.IsPlayable() || delta <= 0 {
		return TickResult{}
	}
	d.effects.Advance(delta)

	d.counter += delta
	if d.counter <= d.session.DropInterval {
		return TickResult{}
	}
	d.counter = 0

	lock := d.controller.Drop(d.session)
	d.afterLock(lock)
	return TickResult{Dropped: true, Lock: lock}
}

// Command applies one input command to completion
func (d *Driver) Command(cmd model.Command) (game.Outcome, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	outcome, err := d.controller.Execute(d.session, cmd)
	if err != nil {
		return outcome, err
	}
	if cmd == model.CommandRestart {
		d.counter = 0
		d.effects.Clear()
	}
	d.afterLock(outcome.Lock)

	d.logger.Debug("command applied",
		slog.String("command", string(cmd)),
		slog.Bool("applied", outcome.Applied),
	)
	return outcome, nil
}

func (d *Driver) afterLock(lock *game.LockResult) {
	if lock == nil {
		return
	}
	if len(lock.ClearedRows) > 0 {
		d.effects.SpawnLineClear(lock.ClearedRows, lock.ClearedCells)
	}
	if lock.GameOver {
		d.counter = 0
	}
}

// Snapshot returns a copy of the session for rendering
func (d *Driver) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return newSnapshot(d.session, d.effects)
}

// Accumulated returns the time gathered towards the next automatic drop
func (d *Driver) Accumulated() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counter
}

// IsGameOver reports whether the session has ended
func (d *Driver) IsGameOver() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.GameOver
}
