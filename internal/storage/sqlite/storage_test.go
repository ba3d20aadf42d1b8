package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisgame-go/internal/model"
	"github.com/mcoot/tetrisgame-go/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	sqlite *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	store, err := New(context.Background(), ":memory:")
	s.Require().NoError(err)
	s.sqlite = store
	s.Storage = store
	s.Suite.SetupTest()
}

func (s *StorageSuite) TearDownTest() {
	if s.sqlite != nil {
		_ = s.sqlite.Close()
	}
}

func TestScoresSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scores.db")

	store, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.SaveScore(ctx, &model.ScoreEntry{GameID: "G1", SessionID: "S", PlayerID: "p1", Score: 1300}))
	require.NoError(t, store.Close())

	reopened, err := New(ctx, path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	best, err := reopened.PlayerBest(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 1300, best.Score)
}
