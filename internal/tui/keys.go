package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

// Action is what a key press asks the game to do
type Action int

const (
	ActionNone Action = iota
	ActionCommand
	ActionQuit
)

// KeyAction maps a key press to an action. Arrows and hjkl move, up/k
// rotates, down/j drops one row, space or p pauses, r restarts and q, Esc or
// Ctrl-C quit.
func KeyAction(ev *tcell.EventKey) (Action, model.Command) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, ""
	case tcell.KeyLeft:
		return ActionCommand, model.CommandLeft
	case tcell.KeyRight:
		return ActionCommand, model.CommandRight
	case tcell.KeyUp:
		return ActionCommand, model.CommandRotate
	case tcell.KeyDown:
		return ActionCommand, model.CommandDrop
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'h':
			return ActionCommand, model.CommandLeft
		case 'l':
			return ActionCommand, model.CommandRight
		case 'k':
			return ActionCommand, model.CommandRotate
		case 'j':
			return ActionCommand, model.CommandDrop
		case ' ', 'p':
			return ActionCommand, model.CommandPause
		case 'r':
			return ActionCommand, model.CommandRestart
		case 'q':
			return ActionQuit, ""
		}
	}
	return ActionNone, ""
}
