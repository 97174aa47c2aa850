package runtime

import (
	"context"
	"fmt"
	"im-core/contract"
	"im-core/domain"
	"im-core/errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
)

// Registry owns every room and every participant known to the process.
// mu guards the maps only. It is always released before a room lock is taken,
// so a slow delivery in one room never blocks lookups elsewhere.
type Registry struct {
	mu           sync.Mutex
	rooms        map[domain.RoomID]*domain.Room
	participants map[string]*domain.Participant
	ids          *domain.RoomIDAllocator
	callback     atomic.Pointer[contract.DeliveryCallback]
	censor       contract.Censor
	repository   contract.IRoomRepository
	log          *slog.Logger
}

type Option func(*Registry)

// WithCensor masks outbound text before it is broadcast.
func WithCensor(censor contract.Censor) Option {
	return func(r *Registry) { r.censor = censor }
}

// WithRoomRepository records every created room so Restore can bring it back.
func WithRoomRepository(repository contract.IRoomRepository) Option {
	return func(r *Registry) { r.repository = repository }
}

type Stats struct {
	Rooms        int
	Participants int
}

func NewRegistry(log *slog.Logger, opts ...Option) *Registry {
	r := &Registry{
		rooms:        make(map[domain.RoomID]*domain.Room),
		participants: make(map[string]*domain.Participant),
		ids:          domain.NewRoomIDAllocator(),
		log:          log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init registers the host callback used by every network participant.
// Participants created earlier pick up the new callback on their next delivery.
func (r *Registry) Init(callback contract.DeliveryCallback) {
	if previous := r.callback.Swap(&callback); previous != nil {
		r.log.Info("Delivery callback replaced")
		return
	}
	r.log.Debug("Delivery callback registered")
}

func (r *Registry) CreateRoom(name string) (domain.RoomID, error) {
	if name == "" {
		return 0, fmt.Errorf("create room: empty name: %w", errors.ErrInvalidArgument)
	}
	r.mu.Lock()
	id := r.ids.Next()
	room := domain.NewRoom(id, name)
	r.rooms[id] = room
	r.mu.Unlock()

	r.log.Debug("Room created", "room_id", id, "name", name)
	r.persist(room)
	return id, nil
}

func (r *Registry) CreateRoomWithID(id domain.RoomID, name string) (domain.RoomID, error) {
	room, err := r.createRoomWithID(id, name)
	if err != nil {
		return 0, err
	}
	r.persist(room)
	return id, nil
}

func (r *Registry) createRoomWithID(id domain.RoomID, name string) (*domain.Room, error) {
	if id == 0 || name == "" {
		return nil, fmt.Errorf("create room %d %q: %w", id, name, errors.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; ok {
		return nil, fmt.Errorf("create room %d: %w", id, errors.ErrRoomExists)
	}
	r.ids.Reserve(id)
	room := domain.NewRoom(id, name)
	r.rooms[id] = room
	r.log.Debug("Room created with explicit id", "room_id", id, "name", name)
	return room, nil
}

// persist is best effort: a catalog failure leaves the room usable in memory.
func (r *Registry) persist(room *domain.Room) {
	if r.repository == nil {
		return
	}
	stored := contract.StoredRoom{ID: room.ID, Name: room.Name()}
	if err := r.repository.Save(context.Background(), stored); err != nil {
		r.log.Error("Unable to save room in catalog", "room_id", room.ID, "error", err)
	}
}

// Restore recreates every catalogued room with its known id.
// Rooms already live are skipped.
func (r *Registry) Restore(ctx context.Context) (int, error) {
	if r.repository == nil {
		return 0, nil
	}
	stored, err := r.repository.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("restore rooms: %w", err)
	}
	restored := 0
	for _, s := range stored {
		if _, err := r.createRoomWithID(s.ID, s.Name); err != nil {
			r.log.Warn("Room not restored", "room_id", s.ID, "name", s.Name, "error", err)
			continue
		}
		restored++
	}
	r.log.Info("Rooms restored from catalog", "count", restored)
	return restored, nil
}

// JoinRoom registers participantID on first sight as a network participant
// and adds it to the room. The nickname of a known participant is not updated.
func (r *Registry) JoinRoom(roomID domain.RoomID, participantID, nickname string) error {
	if participantID == "" {
		return fmt.Errorf("join room %d: empty participant id: %w", roomID, errors.ErrInvalidArgument)
	}
	r.mu.Lock()
	room, ok := r.rooms[roomID]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("join room %d: %w", roomID, errors.ErrRoomNotFound)
	}
	p, ok := r.participants[participantID]
	if !ok {
		p = domain.NewNetworkParticipant(participantID, nickname, r.deliver, domain.WithLogger(r.log))
		r.participants[participantID] = p
	}
	r.mu.Unlock()

	room.Join(p)
	r.log.Debug("Participant joined room",
		"room_id", roomID, "participant_id", participantID, "nickname", p.Nickname())
	return nil
}

func (r *Registry) deliver(participantID, text string) {
	callback := r.callback.Load()
	if callback == nil || *callback == nil {
		r.log.Warn("No delivery callback registered, message dropped", "participant_id", participantID)
		return
	}
	(*callback)(participantID, text)
}

// SendMessage broadcasts text to everyone in the room, sender included.
// The sender only has to be registered, not to be a current member.
func (r *Registry) SendMessage(roomID domain.RoomID, senderID, text string) error {
	room, _, err := r.resolve(roomID, senderID)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	room.Broadcast(domain.NewTextMessage(r.censorText(roomID, senderID, text)))
	return nil
}

func (r *Registry) SendMedia(roomID domain.RoomID, senderID string, kind domain.MessageType, path string) error {
	if path == "" {
		return fmt.Errorf("send media: empty path: %w", errors.ErrInvalidArgument)
	}
	room, _, err := r.resolve(roomID, senderID)
	if err != nil {
		return fmt.Errorf("send media: %w", err)
	}
	room.Broadcast(domain.NewMediaMessage(kind, path))
	return nil
}

// SendTo delivers text to targetID only, provided it is currently in the room.
func (r *Registry) SendTo(roomID domain.RoomID, senderID, targetID, text string) error {
	room, _, err := r.resolve(roomID, senderID)
	if err != nil {
		return fmt.Errorf("send to: %w", err)
	}
	r.mu.Lock()
	target, ok := r.participants[targetID]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("send to %q: %w", targetID, errors.ErrParticipantNotFound)
	}
	room.Send(domain.NewTextMessage(r.censorText(roomID, senderID, text)), target)
	return nil
}

// LeaveRoom removes the participant from the room. It stays registered,
// so it can join again or keep sending.
func (r *Registry) LeaveRoom(roomID domain.RoomID, participantID string) error {
	room, p, err := r.resolve(roomID, participantID)
	if err != nil {
		return fmt.Errorf("leave room: %w", err)
	}
	room.Leave(p)
	r.log.Debug("Participant left room", "room_id", roomID, "participant_id", participantID)
	return nil
}

func (r *Registry) RoomName(roomID domain.RoomID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return "", fmt.Errorf("room name %d: %w", roomID, errors.ErrRoomNotFound)
	}
	return room.Name(), nil
}

// RoomID returns the lowest id among rooms named name.
func (r *Registry) RoomID(name string) (domain.RoomID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matching := lo.FilterMap(lo.Values(r.rooms), func(room *domain.Room, _ int) (domain.RoomID, bool) {
		return room.ID, room.Name() == name
	})
	if len(matching) == 0 {
		return 0, fmt.Errorf("room id %q: %w", name, errors.ErrRoomNotFound)
	}
	return slices.Min(matching), nil
}

func (r *Registry) ListRoomIDs() []domain.RoomID {
	r.mu.Lock()
	ids := lo.Keys(r.rooms)
	r.mu.Unlock()
	slices.Sort(ids)
	return ids
}

func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{Rooms: len(r.rooms), Participants: len(r.participants)}
}

func (r *Registry) resolve(roomID domain.RoomID, participantID string) (*domain.Room, *domain.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, nil, fmt.Errorf("room %d: %w", roomID, errors.ErrRoomNotFound)
	}
	p, ok := r.participants[participantID]
	if !ok {
		return nil, nil, fmt.Errorf("participant %q: %w", participantID, errors.ErrParticipantNotFound)
	}
	return room, p, nil
}

func (r *Registry) censorText(roomID domain.RoomID, senderID, text string) string {
	if r.censor == nil {
		return text
	}
	censored := r.censor.Censor(text)
	if len(censored.Words) > 0 {
		r.log.Info("Outbound message censored",
			"room_id", roomID,
			"participant_id", senderID,
			"count", len(censored.Words),
			"lang", censored.Language)
	}
	return censored.Text
}
