package bridge

import (
	"fmt"
	"im-core/errors"
	"slices"
	"sync"
)

// Handle identifies a buffer owned by the caller until it is freed.
// The zero handle never refers to a buffer.
type Handle uint64

// Arena keeps every buffer handed out across the boundary until the caller
// releases it exactly once.
type Arena struct {
	mu      sync.Mutex
	next    Handle
	strings map[Handle]string
	ids     map[Handle][]uint64
}

func NewArena() *Arena {
	return &Arena{
		strings: make(map[Handle]string),
		ids:     make(map[Handle][]uint64),
	}
}

func (a *Arena) PutString(s string) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	a.strings[a.next] = s
	return a.next
}

// PutIDs copies ids so later changes by the caller do not leak in.
func (a *Arena) PutIDs(ids []uint64) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	a.ids[a.next] = slices.Clone(ids)
	return a.next
}

func (a *Arena) String(h Handle) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.strings[h]
	if !ok {
		return "", fmt.Errorf("string %d: %w", h, errors.ErrBufferNotOwned)
	}
	return s, nil
}

func (a *Arena) IDs(h Handle) ([]uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids, ok := a.ids[h]
	if !ok {
		return nil, fmt.Errorf("id array %d: %w", h, errors.ErrBufferNotOwned)
	}
	return slices.Clone(ids), nil
}

// FreeString releases h. Freeing the zero handle does nothing.
func (a *Arena) FreeString(h Handle) error {
	if h == 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.strings[h]; !ok {
		return fmt.Errorf("free string %d: %w", h, errors.ErrBufferNotOwned)
	}
	delete(a.strings, h)
	return nil
}

func (a *Arena) FreeIDs(h Handle) error {
	if h == 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.ids[h]; !ok {
		return fmt.Errorf("free id array %d: %w", h, errors.ErrBufferNotOwned)
	}
	delete(a.ids, h)
	return nil
}

// Outstanding counts buffers not released yet.
func (a *Arena) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.strings) + len(a.ids)
}
