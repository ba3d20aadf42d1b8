package model

import "strings"

// Bot strategy names
const (
	BotStrategyRandom = "random"
	BotStrategyGreedy = "greedy"
)

// botPlayerPrefix marks the player IDs used by headless bot games
const botPlayerPrefix = "bot-"

// BotPlayerID is the owner of sessions played by the named bot strategy
func BotPlayerID(strategy string) PlayerID {
	return PlayerID(botPlayerPrefix + strategy)
}

// IsBot reports whether the ID belongs to a bot rather than a person
func (id PlayerID) IsBot() bool {
	return strings.HasPrefix(string(id), botPlayerPrefix)
}

// BotStrategyDisplayName returns a human-readable label for a strategy
func BotStrategyDisplayName(strategy string) string {
	switch strategy {
	case BotStrategyRandom:
		return "Random"
	case BotStrategyGreedy:
		return "Greedy"
	default:
		return strategy
	}
}

// ValidBotStrategies returns every strategy name the bot package accepts
func ValidBotStrategies() []string {
	return []string{BotStrategyRandom, BotStrategyGreedy}
}
