package repositories

import (
	"context"
	"im-core/contract"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

var _ contract.IRoomRepository = RoomRepository{}

func TestRoomRepository_Save_And_All(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	repository := NewRoomRepository(db, slog.Default())
	ctx := context.Background()

	// Given rooms saved out of order, one of them twice
	req.NoError(repository.Save(ctx, contract.StoredRoom{ID: 12, Name: "twelve"}))
	req.NoError(repository.Save(ctx, contract.StoredRoom{ID: 2, Name: "two"}))
	req.NoError(repository.Save(ctx, contract.StoredRoom{ID: 12, Name: "renamed"}))

	// When reading the catalog back
	rooms, err := repository.All(ctx)

	// Then they come sorted by id with the last name kept
	req.NoError(err)
	req.Equal([]contract.StoredRoom{
		{ID: 2, Name: "two"},
		{ID: 12, Name: "renamed"},
	}, rooms)
}

func TestRoomRepository_Ignores_Foreign_And_Malformed_Keys(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	req.NoError(db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("msg:1:abc"), []byte("x")); err != nil {
			return err
		}
		return txn.Set([]byte("room:oops"), []byte("y"))
	}))
	repository := NewRoomRepository(db, slog.New(slog.DiscardHandler))
	req.NoError(repository.Save(context.Background(), contract.StoredRoom{ID: 1, Name: "one"}))

	rooms, err := repository.All(context.Background())

	req.NoError(err)
	req.Equal([]contract.StoredRoom{{ID: 1, Name: "one"}}, rooms)
}

func TestRoomRepository_Empty_Catalog(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	rooms, err := NewRoomRepository(db, slog.Default()).All(context.Background())

	req.NoError(err)
	req.Empty(rooms)
}

func TestRoomRepository_Cancelled_Context(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = NewRoomRepository(db, slog.Default()).Save(ctx, contract.StoredRoom{ID: 1, Name: "one"})

	req.ErrorIs(err, context.Canceled)
}
