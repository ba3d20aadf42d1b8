package redis

import (
	"fmt"

	"github.com/mcoot/tetrisgame-go/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "tetris"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// scoreKey returns the Redis key for a ScoreEntry
func scoreKey(id model.GameID) string {
	return fmt.Sprintf("%s:score:%s", keyPrefix, id)
}

// leaderboardKey returns the Redis key for the global ZSET of game ids by score
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}

// playerScoresKey returns the Redis key for a player's ZSET of game ids by score
func playerScoresKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_scores:%s", keyPrefix, playerID)
}

// summaryKey returns the Redis key for a GameSummary
func summaryKey(id model.GameID) string {
	return fmt.Sprintf("%s:summary:%s", keyPrefix, id)
}

// playerGamesKey returns the Redis key for a player's LIST of recent game ids
func playerGamesKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:player_games:%s", keyPrefix, playerID)
}
