package model

import "time"

// ScoreEntry is one leaderboard row
type ScoreEntry struct {
	GameID      GameID
	SessionID   SessionID
	PlayerID    PlayerID
	DisplayName string
	Score       int
	Level       int
	Lines       int
	AchievedAt  time.Time
}
