package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBotPlayerID(t *testing.T) {
	id := BotPlayerID(BotStrategyGreedy)
	assert.Equal(t, PlayerID("bot-greedy"), id)
	assert.True(t, id.IsBot())
	assert.False(t, PlayerID("p_abc").IsBot())
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "Alice", ShortName("  Alice ", 8))
	assert.Equal(t, "AVeryLon", ShortName("AVeryLongName", 8))
	assert.Equal(t, "Zoë", ShortName("Zoë", 3))
	assert.Empty(t, ShortName("", 8))
}

func TestBotStrategyDisplayName(t *testing.T) {
	for _, name := range ValidBotStrategies() {
		assert.NotEqual(t, name, BotStrategyDisplayName(name))
	}
	assert.Equal(t, "custom", BotStrategyDisplayName("custom"))
}
