package domain

import "sync/atomic"

// RoomIDAllocator hands out room ids starting at 1.
// Ids reserved explicitly push the counter past them so auto ids never collide.
type RoomIDAllocator struct {
	next atomic.Uint64
}

func NewRoomIDAllocator() *RoomIDAllocator {
	a := &RoomIDAllocator{}
	a.next.Store(1)
	return a
}

func (a *RoomIDAllocator) Next() RoomID {
	return RoomID(a.next.Add(1) - 1)
}

// Reserve raises the counter to at least id+1.
func (a *RoomIDAllocator) Reserve(id RoomID) {
	want := uint64(id) + 1
	for {
		current := a.next.Load()
		if current >= want {
			return
		}
		if a.next.CompareAndSwap(current, want) {
			return
		}
	}
}

// Peek returns the id the next call to Next would return.
func (a *RoomIDAllocator) Peek() RoomID {
	return RoomID(a.next.Load())
}
