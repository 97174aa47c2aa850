// Package bridge is the boundary between a foreign host and the registry.
// Every call returns a sentinel on failure and no panic escapes it:
// ids are 0 on failure, status codes are 0 or -1 and buffers are handles
// the host has to release exactly once.
package bridge

import (
	"fmt"
	"im-core/contract"
	"im-core/domain"
	"im-core/domain/mimetypes"
	"im-core/errors"
	"log/slog"

	"github.com/samber/lo"
)

const (
	OK     = 0
	Failed = -1
)

type Bridge struct {
	registry contract.IRegistry
	arena    *Arena
	log      *slog.Logger
}

func New(registry contract.IRegistry, log *slog.Logger) *Bridge {
	return &Bridge{registry: registry, arena: NewArena(), log: log}
}

// guard runs fn and turns both errors and panics into failure.
func guard[T any](b *Bridge, op string, failure T, fn func() (T, error)) (result T) {
	defer func() {
		if p := recover(); p != nil {
			b.log.Error("Boundary call aborted",
				"op", op, "error", fmt.Errorf("%w: %v", errors.ErrBoundaryPanic, p))
			result = failure
		}
	}()
	v, err := fn()
	if err != nil {
		b.log.Warn("Boundary call failed", "op", op, "error", err)
		return failure
	}
	return v
}

func status(err error) (int, error) {
	if err != nil {
		return Failed, err
	}
	return OK, nil
}

func required(values ...string) error {
	if lo.Contains(values, "") {
		return fmt.Errorf("missing required string: %w", errors.ErrInvalidArgument)
	}
	return nil
}

func (b *Bridge) Init(callback contract.DeliveryCallback) int {
	return guard(b, "init", Failed, func() (int, error) {
		if callback == nil {
			return Failed, fmt.Errorf("nil callback: %w", errors.ErrInvalidArgument)
		}
		b.registry.Init(callback)
		return OK, nil
	})
}

func (b *Bridge) CreateRoom(name string) uint64 {
	return guard(b, "create_room", 0, func() (uint64, error) {
		if err := required(name); err != nil {
			return 0, err
		}
		id, err := b.registry.CreateRoom(name)
		return uint64(id), err
	})
}

func (b *Bridge) CreateRoomWithID(id uint64, name string) uint64 {
	return guard(b, "create_room_with_id", 0, func() (uint64, error) {
		if err := required(name); err != nil {
			return 0, err
		}
		created, err := b.registry.CreateRoomWithID(domain.RoomID(id), name)
		return uint64(created), err
	})
}

func (b *Bridge) JoinRoom(roomID uint64, participantID, nickname string) int {
	return guard(b, "join_room", Failed, func() (int, error) {
		if err := required(participantID, nickname); err != nil {
			return Failed, err
		}
		return status(b.registry.JoinRoom(domain.RoomID(roomID), participantID, nickname))
	})
}

func (b *Bridge) SendMessage(roomID uint64, senderID, text string) int {
	return guard(b, "send_message", Failed, func() (int, error) {
		if err := required(senderID); err != nil {
			return Failed, err
		}
		return status(b.registry.SendMessage(domain.RoomID(roomID), senderID, text))
	})
}

func (b *Bridge) SendMedia(roomID uint64, senderID string, kind domain.MessageType, path string) int {
	return guard(b, "send_media", Failed, func() (int, error) {
		if err := required(senderID, path); err != nil {
			return Failed, err
		}
		return status(b.registry.SendMedia(domain.RoomID(roomID), senderID, kind, path))
	})
}

// SendFile sniffs the file at path to pick the media kind.
func (b *Bridge) SendFile(roomID uint64, senderID, path string) int {
	return guard(b, "send_file", Failed, func() (int, error) {
		if err := required(senderID, path); err != nil {
			return Failed, err
		}
		kind, err := mimetypes.KindOf(path)
		if err != nil {
			return Failed, err
		}
		return status(b.registry.SendMedia(domain.RoomID(roomID), senderID, kind, path))
	})
}

func (b *Bridge) SendTo(roomID uint64, senderID, targetID, text string) int {
	return guard(b, "send_to", Failed, func() (int, error) {
		if err := required(senderID, targetID); err != nil {
			return Failed, err
		}
		return status(b.registry.SendTo(domain.RoomID(roomID), senderID, targetID, text))
	})
}

func (b *Bridge) LeaveRoom(roomID uint64, participantID string) int {
	return guard(b, "leave_room", Failed, func() (int, error) {
		if err := required(participantID); err != nil {
			return Failed, err
		}
		return status(b.registry.LeaveRoom(domain.RoomID(roomID), participantID))
	})
}

// RoomName returns an owned string handle, or the zero handle.
func (b *Bridge) RoomName(roomID uint64) Handle {
	return guard(b, "get_room_name", Handle(0), func() (Handle, error) {
		name, err := b.registry.RoomName(domain.RoomID(roomID))
		if err != nil {
			return 0, err
		}
		return b.arena.PutString(name), nil
	})
}

func (b *Bridge) RoomID(name string) uint64 {
	return guard(b, "get_room_id", 0, func() (uint64, error) {
		if err := required(name); err != nil {
			return 0, err
		}
		id, err := b.registry.RoomID(name)
		return uint64(id), err
	})
}

// ListRoomIDs returns an owned id array handle with its length.
// An empty registry yields the zero handle and a count of 0.
func (b *Bridge) ListRoomIDs() (Handle, int) {
	type listing struct {
		handle Handle
		count  int
	}
	l := guard(b, "list_room_ids", listing{}, func() (listing, error) {
		ids := lo.Map(b.registry.ListRoomIDs(), func(id domain.RoomID, _ int) uint64 {
			return uint64(id)
		})
		if len(ids) == 0 {
			return listing{}, nil
		}
		return listing{handle: b.arena.PutIDs(ids), count: len(ids)}, nil
	})
	return l.handle, l.count
}

func (b *Bridge) String(h Handle) (string, error) {
	return b.arena.String(h)
}

func (b *Bridge) IDs(h Handle) ([]uint64, error) {
	return b.arena.IDs(h)
}

func (b *Bridge) FreeString(h Handle) error {
	err := b.arena.FreeString(h)
	if err != nil {
		b.log.Warn("Invalid string release", "handle", h, "error", err)
	}
	return err
}

func (b *Bridge) FreeIDArray(h Handle) error {
	err := b.arena.FreeIDs(h)
	if err != nil {
		b.log.Warn("Invalid id array release", "handle", h, "error", err)
	}
	return err
}

func (b *Bridge) Outstanding() int {
	return b.arena.Outstanding()
}
