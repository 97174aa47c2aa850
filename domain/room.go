package domain

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

type RoomID uint64

// Room guards its participant list with its own lock.
// Delivery happens while the lock is held, so a slow sink stalls the room.
type Room struct {
	ID           RoomID
	name         string
	mu           sync.Mutex
	participants []*Participant
}

func NewRoom(id RoomID, name string) *Room {
	return &Room{ID: id, name: name}
}

func (r *Room) Name() string { return r.name }

// Join appends p without de-duplication: joining twice means two deliveries.
func (r *Room) Join(p *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants = append(r.participants, p)
}

// Leave removes every entry of p.
func (r *Room) Leave(p *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants = lo.Reject(r.participants, func(item *Participant, _ int) bool {
		return item == p
	})
}

func (r *Room) Broadcast(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		p.ReceiveMessage(msg)
	}
}

// Send delivers msg to target only when it is currently in the room.
func (r *Room) Send(msg Message, target *Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.participants, target) {
		target.ReceiveMessage(msg)
	}
}

// Post lets sender speak in the room. A participant that cannot send
// drops msg before the room lock is taken.
func (r *Room) Post(sender *Participant, msg Message) bool {
	if !sender.SendMessage(msg) {
		return false
	}
	r.Broadcast(msg)
	return true
}

func (r *Room) Participants() []*Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.participants)
}

func (r *Room) Contains(p *Participant) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.participants, p)
}
