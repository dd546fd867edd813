package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"github.com/ficrammanifur/portfolio-backend/internal/model"
)

func newTestBadgerRepo(t *testing.T, max int) *BadgerMessageRepository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerMessageRepository(db, max)
}

func TestBadgerMessageRepository_ListEmpty(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)

	msgs, err := repo.List(context.Background())
	req.NoError(err)
	req.NotNil(msgs)
	req.Empty(msgs)
}

func TestBadgerMessageRepository_SaveAndList_NewestFirst(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req.NoError(repo.Save(ctx, testMessage(fmt.Sprintf("m%d", i), tsAt(i))))
	}

	msgs, err := repo.List(ctx)
	req.NoError(err)
	req.Len(msgs, 3)
	req.Equal("m2", msgs[0].ID)
	req.Equal("m1", msgs[1].ID)
	req.Equal("m0", msgs[2].ID)
}

func TestBadgerMessageRepository_RoundTripPreservesFields(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	want := &model.Message{
		ID:        "round-trip",
		FullName:  "Jane Doe",
		Email:     "jane@ex.com",
		Position:  "Engineer",
		Message:   "Hi",
		Timestamp: tsAt(1),
		CreatedAt: "2026-01-02 15:04:01",
	}
	req.NoError(repo.Save(ctx, want))

	msgs, err := repo.List(ctx)
	req.NoError(err)
	req.Len(msgs, 1)
	req.Equal(want, msgs[0])
}

func TestBadgerMessageRepository_Save_CapEvictsOldest(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		req.NoError(repo.Save(ctx, testMessage(fmt.Sprintf("m%d", i), tsAt(i))))
	}

	msgs, err := repo.List(ctx)
	req.NoError(err)
	req.Len(msgs, 10)
	for _, m := range msgs {
		req.NotEqual("m0", m.ID, "oldest message should have been evicted")
	}
	req.Equal("m10", msgs[0].ID)
}

func TestBadgerMessageRepository_Delete(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req.NoError(repo.Save(ctx, testMessage(fmt.Sprintf("m%d", i), tsAt(i))))
	}

	req.NoError(repo.Delete(ctx, "m1"))

	msgs, err := repo.List(ctx)
	req.NoError(err)
	req.Len(msgs, 2)
	for _, m := range msgs {
		req.NotEqual("m1", m.ID)
	}
}

func TestBadgerMessageRepository_Delete_MissingID(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	req.NoError(repo.Save(ctx, testMessage("m1", tsAt(0))))

	err := repo.Delete(ctx, "no-such-id")
	req.ErrorIs(err, ErrNotFound)

	msgs, err := repo.List(ctx)
	req.NoError(err)
	req.Len(msgs, 1, "store should be unchanged after failed delete")
}

func TestBadgerMessageRepository_Delete_ColonBearingID(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	// Stored key is "msg:2026-01-02T15:04:00.000000Z:m1".
	req.NoError(repo.Save(ctx, testMessage("m1", tsAt(0))))

	// An id crafted from the tail of that key (timestamp tail plus the real
	// id) must not match the m1 record; only the whole id segment counts.
	err := repo.Delete(ctx, "00.000000Z:m1")
	req.ErrorIs(err, ErrNotFound)

	msgs, err := repo.List(ctx)
	req.NoError(err)
	req.Len(msgs, 1, "store should be unchanged after failed delete")
	req.Equal("m1", msgs[0].ID)
}

func TestBadgerMessageRepository_TrimToLimit(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		req.NoError(repo.Save(ctx, testMessage(fmt.Sprintf("m%d", i), tsAt(i))))
	}

	remaining, err := repo.TrimToLimit(ctx, 5)
	req.NoError(err)
	req.Equal(5, remaining)

	msgs, err := repo.List(ctx)
	req.NoError(err)
	req.Len(msgs, 5)
	req.Equal("m7", msgs[0].ID)
	req.Equal("m3", msgs[4].ID)
}

func TestBadgerMessageRepository_TrimToLimit_UnderLimit(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req.NoError(repo.Save(ctx, testMessage(fmt.Sprintf("m%d", i), tsAt(i))))
	}

	remaining, err := repo.TrimToLimit(ctx, 5)
	req.NoError(err)
	req.Equal(3, remaining)
}

func TestBadgerMessageRepository_TrimToLimit_NegativeLimit(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		req.NoError(repo.Save(ctx, testMessage(fmt.Sprintf("m%d", i), tsAt(i))))
	}

	remaining, err := repo.TrimToLimit(ctx, -3)
	req.NoError(err)
	req.Equal(0, remaining)

	msgs, err := repo.List(ctx)
	req.NoError(err)
	req.Empty(msgs)
}

func TestBadgerMessageRepository_Stats(t *testing.T) {
	req := require.New(t)
	repo := newTestBadgerRepo(t, 10)
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	req.NoError(err)
	req.True(stats.StorageExists)
	req.Equal(0, stats.MessageCount)

	req.NoError(repo.Save(ctx, testMessage("m1", tsAt(0))))

	stats, err = repo.Stats(ctx)
	req.NoError(err)
	req.Equal(1, stats.MessageCount)
}
