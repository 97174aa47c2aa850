package repositories

import (
	"context"
	"fmt"
	"im-core/contract"
	"im-core/domain"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

const roomPrefix = "room:"

type RoomRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRoomRepository(db *badger.DB, log *slog.Logger) RoomRepository {
	return RoomRepository{db: db, log: log}
}

// Save stores the room name under "room:{id_padded}".
// The 20-digit padding keeps a prefix scan in ascending id order.
func (r RoomRepository) Save(ctx context.Context, room contract.StoredRoom) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := fmt.Sprintf("%s%020d", roomPrefix, room.ID)
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(room.Name))
	})
}

// All returns every catalogued room ordered by id.
func (r RoomRepository) All(ctx context.Context) ([]contract.StoredRoom, error) {
	var rooms []contract.StoredRoom
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(roomPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			key := string(item.Key())
			id, err := strconv.ParseUint(strings.TrimPrefix(key, roomPrefix), 10, 64)
			if err != nil {
				r.log.Warn("Skipping malformed room key", "key", key)
				continue
			}
			name, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			rooms = append(rooms, contract.StoredRoom{ID: domain.RoomID(id), Name: string(name)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rooms, nil
}
