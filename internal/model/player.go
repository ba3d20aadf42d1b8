package model

import (
	"strings"
	"time"
)

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player owns sessions and appears on the leaderboard under DisplayName
type Player struct {
	ID          PlayerID
	DisplayName string
	IsGuest     bool // no username or password; lives as long as its token
	CreatedAt   time.Time
}

// RegisteredPlayer holds the login for a non-guest Player. It is stored
// apart from Player so the hash never travels with session state.
type RegisteredPlayer struct {
	PlayerID     PlayerID
	Username     string // immutable
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ShortName trims a display name to at most n runes for fixed-width tables
func ShortName(name string, n int) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}
