package mocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock_TickerFiresOnAdvance(t *testing.T) {
	clk := NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ticker := clk.NewTicker(100 * time.Millisecond)

	clk.Advance(50 * time.Millisecond)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired early")
	default:
	}

	clk.Advance(50 * time.Millisecond)
	select {
	case tick := <-ticker.C():
		assert.Equal(t, clk.Now(), tick)
	default:
		t.Fatal("ticker did not fire")
	}

	ticker.Stop()
	assert.Equal(t, 0, clk.ActiveTickers())
	clk.Advance(time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestMockRandom_QueuePieces(t *testing.T) {
	r := NewMockRandom()
	r.QueuePieces(1, 7)
	assert.Equal(t, 0, r.Intn(7))
	assert.Equal(t, 6, r.Intn(7))
	assert.Equal(t, 0, r.Intn(7))
}
