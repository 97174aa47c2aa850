package domain

import (
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRoomIDAllocator_Strictly_Increasing(t *testing.T) {
	req := require.New(t)
	ids := NewRoomIDAllocator()

	req.Equal(RoomID(1), ids.Next())
	req.Equal(RoomID(2), ids.Next())
	req.Equal(RoomID(3), ids.Next())
}

func TestRoomIDAllocator_Reserve_Skips_Past_Explicit_ID(t *testing.T) {
	req := require.New(t)
	ids := NewRoomIDAllocator()

	// Given an explicit id of 5
	ids.Reserve(5)

	// Then the next auto id exceeds it
	req.Equal(RoomID(6), ids.Next())

	// And reserving a lower id never moves the counter back
	ids.Reserve(2)
	req.Equal(RoomID(7), ids.Next())
}

func TestRoomIDAllocator_Concurrent_Next_And_Reserve(t *testing.T) {
	req := require.New(t)
	ids := NewRoomIDAllocator()

	var mu sync.Mutex
	var got []RoomID
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id := ids.Next()
			mu.Lock()
			got = append(got, id)
			mu.Unlock()
		}()
		go func(i int) {
			defer wg.Done()
			ids.Reserve(RoomID(i * 3))
		}(i)
	}
	wg.Wait()

	// Then no auto id was handed out twice
	req.Len(lo.Uniq(got), 50)
	// And the counter sits past every reserved id
	req.Greater(ids.Peek(), RoomID(49*3))
}
