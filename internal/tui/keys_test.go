package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name   string
		key    tcell.Key
		ch     rune
		action Action
		cmd    model.Command
	}{
		{"left arrow", tcell.KeyLeft, 0, ActionCommand, model.CommandLeft},
		{"h", tcell.KeyRune, 'h', ActionCommand, model.CommandLeft},
		{"right arrow", tcell.KeyRight, 0, ActionCommand, model.CommandRight},
		{"l", tcell.KeyRune, 'l', ActionCommand, model.CommandRight},
		{"up arrow rotates", tcell.KeyUp, 0, ActionCommand, model.CommandRotate},
		{"k rotates", tcell.KeyRune, 'k', ActionCommand, model.CommandRotate},
		{"down arrow drops", tcell.KeyDown, 0, ActionCommand, model.CommandDrop},
		{"j drops", tcell.KeyRune, 'j', ActionCommand, model.CommandDrop},
		{"space pauses", tcell.KeyRune, ' ', ActionCommand, model.CommandPause},
		{"p pauses", tcell.KeyRune, 'p', ActionCommand, model.CommandPause},
		{"r restarts", tcell.KeyRune, 'r', ActionCommand, model.CommandRestart},
		{"q quits", tcell.KeyRune, 'q', ActionQuit, ""},
		{"escape quits", tcell.KeyEscape, 0, ActionQuit, ""},
		{"ctrl-c quits", tcell.KeyCtrlC, 0, ActionQuit, ""},
		{"other rune ignored", tcell.KeyRune, 'x', ActionNone, ""},
		{"enter ignored", tcell.KeyEnter, 0, ActionNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, cmd := KeyAction(tcell.NewEventKey(tt.key, tt.ch, tcell.ModNone))
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.cmd, cmd)
		})
	}
}
