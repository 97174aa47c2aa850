package main

import (
	"fmt"
	"im-core/bridge"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type Report struct {
	Rooms       int
	Members     int
	Sent        int64
	Failed      int64
	Delivered   int64
	Expected    int64
	Duration    time.Duration
	Outstanding int
}

// simulate spreads participants over rooms round robin, then lets every
// participant send its messages concurrently through the bridge.
func simulate(b *bridge.Bridge, cfg Config, log *slog.Logger) (Report, error) {
	var delivered atomic.Int64
	if b.Init(func(_, _ string) { delivered.Add(1) }) != bridge.OK {
		return Report{}, fmt.Errorf("init rejected")
	}

	rooms := make([]uint64, cfg.Rooms)
	for i := range rooms {
		id := b.CreateRoom(fmt.Sprintf("room-%d", i))
		if id == 0 {
			return Report{}, fmt.Errorf("room %d not created", i)
		}
		rooms[i] = id
	}

	members := make(map[uint64]int64, len(rooms))
	for i := 0; i < cfg.Participants; i++ {
		roomID := rooms[i%len(rooms)]
		if b.JoinRoom(roomID, participantID(i), fmt.Sprintf("user-%d", i)) != bridge.OK {
			return Report{}, fmt.Errorf("participant %d could not join room %d", i, roomID)
		}
		members[roomID]++
	}
	log.Info("Participants joined", "rooms", len(rooms), "participants", cfg.Participants)

	var sent, failed atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < cfg.Participants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			roomID := rooms[i%len(rooms)]
			for m := 0; m < cfg.Messages; m++ {
				if b.SendMessage(roomID, participantID(i), fmt.Sprintf("message %d", m)) != bridge.OK {
					failed.Add(1)
					continue
				}
				sent.Add(1)
			}
		}(i)
	}
	wg.Wait()
	duration := time.Since(start)

	var expected int64
	for i := 0; i < cfg.Participants; i++ {
		expected += int64(cfg.Messages) * members[rooms[i%len(rooms)]]
	}

	if err := checkOwnedBuffers(b, len(rooms)); err != nil {
		return Report{}, err
	}

	return Report{
		Rooms:       len(rooms),
		Members:     cfg.Participants,
		Sent:        sent.Load(),
		Failed:      failed.Load(),
		Delivered:   delivered.Load(),
		Expected:    expected,
		Duration:    duration,
		Outstanding: b.Outstanding(),
	}, nil
}

// checkOwnedBuffers reads every room back through owned buffers and releases them.
func checkOwnedBuffers(b *bridge.Bridge, want int) error {
	h, n := b.ListRoomIDs()
	if n != want {
		return fmt.Errorf("listed %d rooms, want %d", n, want)
	}
	ids, err := b.IDs(h)
	if err != nil {
		return err
	}
	for _, id := range ids {
		nameHandle := b.RoomName(id)
		name, err := b.String(nameHandle)
		if err != nil {
			return err
		}
		if b.RoomID(name) != id {
			return fmt.Errorf("room %q does not resolve back to %d", name, id)
		}
		if err := b.FreeString(nameHandle); err != nil {
			return err
		}
	}
	return b.FreeIDArray(h)
}

func participantID(i int) string {
	return fmt.Sprintf("p%d", i)
}
