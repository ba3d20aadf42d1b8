package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionGameID(t *testing.T) {
	s := &Session{ID: "ABCD1234", GameNumber: 3}
	assert.Equal(t, GameID("ABCD1234-3"), s.GameID())
}

func TestSessionIsPlayable(t *testing.T) {
	s := &Session{}
	assert.True(t, s.IsPlayable())
	s.Paused = true
	assert.False(t, s.IsPlayable())
	s.Paused = false
	s.GameOver = true
	assert.False(t, s.IsPlayable())
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand(" Rotate ")
	assert.NoError(t, err)
	assert.Equal(t, CommandRotate, cmd)

	_, err = ParseCommand("hold")
	assert.ErrorIs(t, err, ErrInvalidCommand)
}
