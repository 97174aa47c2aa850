package main

import (
	"sync"
	"unsafe"
)

// ownedBuffers maps every buffer handed to the host to the release of its
// bridge handle. It outlives the library so buffers returned before
// im_shutdown can still be given back.
type ownedBuffers struct {
	mu      sync.Mutex
	entries map[unsafe.Pointer]func() error
}

var owned = newOwnedBuffers()

func newOwnedBuffers() *ownedBuffers {
	return &ownedBuffers{entries: make(map[unsafe.Pointer]func() error)}
}

func (o *ownedBuffers) track(ptr unsafe.Pointer, release func() error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[ptr] = release
}

// take removes ptr and returns its release. ok is false for a pointer this
// library never returned or already took back.
func (o *ownedBuffers) take(ptr unsafe.Pointer) (release func() error, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	release, ok = o.entries[ptr]
	if ok {
		delete(o.entries, ptr)
	}
	return release, ok
}

func (o *ownedBuffers) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}
