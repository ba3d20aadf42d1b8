package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	memory *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.memory = New()
	s.Storage = s.memory
	s.Suite.SetupTest()
}

func (s *StorageSuite) TestReturnedEntriesAreCopies() {
	_ = s.memory.SaveScore(s.Ctx, &model.ScoreEntry{GameID: "G1", PlayerID: "p", Score: 10})

	top, err := s.memory.TopScores(s.Ctx, 1)
	s.Require().NoError(err)
	top[0].Score = 99999

	again, _ := s.memory.TopScores(s.Ctx, 1)
	s.Equal(10, again[0].Score)
}

func (s *StorageSuite) TestTiesOrderedByAchievement() {
	base := model.ScoreEntry{PlayerID: "p", Score: 500}
	later, earlier := base, base
	later.GameID = "A"
	later.AchievedAt = later.AchievedAt.Add(time.Minute)
	earlier.GameID = "B"
	_ = s.memory.SaveScore(s.Ctx, &later)
	_ = s.memory.SaveScore(s.Ctx, &earlier)

	top, _ := s.memory.TopScores(s.Ctx, 2)
	s.Equal(model.GameID("B"), top[0].GameID)
}
