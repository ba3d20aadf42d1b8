package model

import "strings"

// Command is a discrete input issued to a session
type Command string

const (
	CommandLeft    Command = "left"
	CommandRight   Command = "right"
	CommandRotate  Command = "rotate"
	CommandDrop    Command = "drop"
	CommandPause   Command = "pause"
	CommandRestart Command = "restart"
)

// AllCommands returns every command a session accepts
func AllCommands() []Command {
	return []Command{CommandLeft, CommandRight, CommandRotate, CommandDrop, CommandPause, CommandRestart}
}

// ParseCommand converts user input to a Command
func ParseCommand(s string) (Command, error) {
	cmd := Command(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllCommands() {
		if cmd == known {
			return cmd, nil
		}
	}
	return "", ErrInvalidCommand
}
