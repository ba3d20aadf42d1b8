package redis

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini  *miniredis.Miniredis
	redis *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.SummaryTTL = time.Hour
	cfg.RecentGamesLimit = 3

	s.redis = NewWithClient(client, cfg)
	s.Storage = s.redis
	s.Suite.SetupTest()
}

func (s *StorageSuite) TearDownTest() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestGuestPlayerExpires() {
	_ = s.redis.SavePlayer(s.Ctx, &model.Player{ID: "guest-1", DisplayName: "Guest", IsGuest: true})
	_ = s.redis.SavePlayer(s.Ctx, &model.Player{ID: "reg-1", DisplayName: "Reg"})

	s.mini.FastForward(2 * time.Hour)

	_, err := s.redis.GetPlayer(s.Ctx, "guest-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	_, err = s.redis.GetPlayer(s.Ctx, "reg-1")
	s.NoError(err)
}

func (s *StorageSuite) TestLeaderboardUsesSortedSet() {
	_ = s.redis.SaveScore(s.Ctx, &model.ScoreEntry{GameID: "G1", PlayerID: "p1", Score: 300})
	_ = s.redis.SaveScore(s.Ctx, &model.ScoreEntry{GameID: "G2", PlayerID: "p2", Score: 800})

	score, err := s.mini.ZScore(leaderboardKey(), "G2")
	s.Require().NoError(err)
	s.Equal(800.0, score)

	members, err := s.mini.ZMembers(playerScoresKey("p1"))
	s.Require().NoError(err)
	s.Equal([]string{"G1"}, members)
}

func (s *StorageSuite) TestRecentGamesListIsTrimmed() {
	for _, id := range []model.GameID{"S-1", "S-2", "S-3", "S-4", "S-5"} {
		_ = s.redis.SaveSummary(s.Ctx, &model.GameSummary{GameID: id, PlayerID: "p1"})
	}

	list, err := s.mini.List(playerGamesKey("p1"))
	s.Require().NoError(err)
	s.Equal([]string{"S-5", "S-4", "S-3"}, list)
}

func (s *StorageSuite) TestExpiredSummariesSkipped() {
	_ = s.redis.SaveSummary(s.Ctx, &model.GameSummary{GameID: "S-1", PlayerID: "p1"})
	s.mini.FastForward(2 * time.Hour)

	recent, err := s.redis.RecentSummaries(s.Ctx, "p1", 10)
	s.Require().NoError(err)
	s.Empty(recent)
}
