//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"im-core/domain"
)

// DeliveryCallback is the single host function receiving messages for a
// network participant. It runs on the goroutine that broadcast the message.
type DeliveryCallback func(participantID, text string)

// Censored is outbound text after masking. Words lists the matches in order
// of appearance; Language is the ISO 639-1 code of the text, set only when
// something was masked.
type Censored struct {
	Text     string
	Words    []string
	Language string
}

// Censor rewrites outbound text before it is broadcast.
type Censor interface {
	Censor(original string) Censored
}

// StoredRoom is a catalog entry used to recreate a room with its known id.
type StoredRoom struct {
	ID   domain.RoomID
	Name string
}

type IRoomRepository interface {
	Save(ctx context.Context, room StoredRoom) error
	All(ctx context.Context) ([]StoredRoom, error)
}

type IRegistry interface {
	Init(callback DeliveryCallback)
	CreateRoom(name string) (domain.RoomID, error)
	CreateRoomWithID(id domain.RoomID, name string) (domain.RoomID, error)
	JoinRoom(roomID domain.RoomID, participantID, nickname string) error
	SendMessage(roomID domain.RoomID, senderID, text string) error
	SendMedia(roomID domain.RoomID, senderID string, kind domain.MessageType, path string) error
	SendTo(roomID domain.RoomID, senderID, targetID, text string) error
	LeaveRoom(roomID domain.RoomID, participantID string) error
	RoomName(roomID domain.RoomID) (string, error)
	RoomID(name string) (domain.RoomID, error)
	ListRoomIDs() []domain.RoomID
}
