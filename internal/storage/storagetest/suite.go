// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"fmt"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/storage"
)

// Suite is embedded by backend test suites. The embedding suite sets Storage
// in its SetupTest before calling Suite.SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
	base    time.Time
}

// SetupTest resets the shared context
func (s *Suite) SetupTest() {
	s.Ctx = context.Background()
	s.base = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) entry(game string, player model.PlayerID, score int, offset time.Duration) *model.ScoreEntry {
	return &model.ScoreEntry{
		GameID:      model.GameID(game),
		SessionID:   model.SessionID("S-" + game),
		PlayerID:    player,
		DisplayName: string(player),
		Score:       score,
		Level:       score/1000 + 1,
		Lines:       score / 100,
		AchievedAt:  s.base.Add(offset),
	}
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     false,
		CreatedAt:   s.base,
	}

	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.True(player.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayer() {
	_ = s.Storage.SavePlayer(s.Ctx, &model.Player{ID: "player-1", DisplayName: "Alice"})

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "player-1"))

	_, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash",
		CreatedAt:    s.base,
		UpdatedAt:    s.base,
	}
	s.Require().NoError(s.Storage.SaveRegisteredPlayer(s.Ctx, rp))

	byID, err := s.Storage.GetRegisteredPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal("alice", byID.Username)

	byName, err := s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), byName.PlayerID)
	s.Equal("hash", byName.PasswordHash)

	_, err = s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Leaderboard tests

func (s *Suite) TestTopScoresOrderedAndLimited() {
	for i, score := range []int{300, 1200, 800, 0, 4500} {
		game := fmt.Sprintf("G%d", i)
		s.Require().NoError(s.Storage.SaveScore(s.Ctx, s.entry(game, "player-1", score, time.Duration(i)*time.Minute)))
	}

	top, err := s.Storage.TopScores(s.Ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(top, 3)
	s.Equal(4500, top[0].Score)
	s.Equal(1200, top[1].Score)
	s.Equal(800, top[2].Score)
	s.Equal(model.GameID("G4"), top[0].GameID)

	all, err := s.Storage.TopScores(s.Ctx, 0)
	s.Require().NoError(err)
	s.Len(all, 5)
}

func (s *Suite) TestTopScoresEmpty() {
	top, err := s.Storage.TopScores(s.Ctx, 10)
	s.Require().NoError(err)
	s.Empty(top)
}

func (s *Suite) TestSaveScoreOverwritesSameGame() {
	_ = s.Storage.SaveScore(s.Ctx, s.entry("G1", "player-1", 100, 0))
	_ = s.Storage.SaveScore(s.Ctx, s.entry("G1", "player-1", 900, 0))

	top, err := s.Storage.TopScores(s.Ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(top, 1)
	s.Equal(900, top[0].Score)
}

func (s *Suite) TestPlayerBest() {
	_ = s.Storage.SaveScore(s.Ctx, s.entry("G1", "player-1", 700, 0))
	_ = s.Storage.SaveScore(s.Ctx, s.entry("G2", "player-1", 2100, time.Minute))
	_ = s.Storage.SaveScore(s.Ctx, s.entry("G3", "player-2", 9000, 2*time.Minute))

	best, err := s.Storage.PlayerBest(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.GameID("G2"), best.GameID)
	s.Equal(2100, best.Score)
	s.Equal(21, best.Lines)

	_, err = s.Storage.PlayerBest(s.Ctx, "player-3")
	s.ErrorIs(err, model.ErrNoScores)
}

// Summary tests

func (s *Suite) TestSaveAndGetSummary() {
	summary := &model.GameSummary{
		GameID:     "S1-1",
		SessionID:  "S1",
		PlayerID:   "player-1",
		Score:      1500,
		Level:      2,
		Lines:      12,
		Pieces:     40,
		StartedAt:  s.base,
		FinishedAt: s.base.Add(4 * time.Minute),
	}
	s.Require().NoError(s.Storage.SaveSummary(s.Ctx, summary))

	got, err := s.Storage.GetSummary(s.Ctx, "S1-1")
	s.Require().NoError(err)
	s.Equal(1500, got.Score)
	s.Equal(40, got.Pieces)
	s.Equal(4*time.Minute, got.Duration())

	_, err = s.Storage.GetSummary(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrSummaryNotFound)
}

func (s *Suite) TestRecentSummariesNewestFirst() {
	for i := 1; i <= 4; i++ {
		_ = s.Storage.SaveSummary(s.Ctx, &model.GameSummary{
			GameID:     model.GameID(fmt.Sprintf("S1-%d", i)),
			SessionID:  "S1",
			PlayerID:   "player-1",
			Score:      i * 100,
			StartedAt:  s.base,
			FinishedAt: s.base.Add(time.Duration(i) * time.Minute),
		})
	}
	_ = s.Storage.SaveSummary(s.Ctx, &model.GameSummary{GameID: "S2-1", SessionID: "S2", PlayerID: "player-2"})

	recent, err := s.Storage.RecentSummaries(s.Ctx, "player-1", 2)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(model.GameID("S1-4"), recent[0].GameID)
	s.Equal(model.GameID("S1-3"), recent[1].GameID)

	none, err := s.Storage.RecentSummaries(s.Ctx, "player-9", 5)
	s.Require().NoError(err)
	s.Empty(none)
}
