// Command libim builds the messaging core as a C shared library:
//
//	go build -buildmode=c-shared -o libim.so ./cmd/libim
//
// Strings and id arrays returned to the host are malloc'd and must be given
// back through im_free_string and im_free_uint64_array.
package main

/*
#include <stdlib.h>
#include "im.h"
*/
import "C"

import (
	"context"
	"fmt"
	"im-core/bridge"
	"im-core/domain"
	"im-core/internal"
	"im-core/moderation"
	"im-core/repositories"
	"im-core/runtime"
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

// library is the state behind the exported functions. The C ABI has no
// receiver, so it lives for the whole process once built.
type library struct {
	bridge *bridge.Bridge
	db     *badger.DB
	log    *slog.Logger
}

var (
	current   *library
	currentMu sync.Mutex
)

func main() {}

// instance builds the library on first use so the host may create rooms
// before registering its callback.
func instance() *library {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current != nil {
		return current
	}
	lib, err := build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "libim: initialization failed: %v\n", err)
		return nil
	}
	current = lib
	return current
}

func build() (*library, error) {
	config, err := internal.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	var opts []runtime.Option
	if config.CensoredEnabled {
		censor, err := buildModerator(config, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, runtime.WithCensor(censor))
	}

	var db *badger.DB
	if config.CatalogFilepath != "" {
		db, err = badger.Open(badger.DefaultOptions(config.CatalogFilepath).WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, fmt.Errorf("catalog opening failed: %w", err)
		}
		opts = append(opts, runtime.WithRoomRepository(repositories.NewRoomRepository(db, logger)))
	}

	registry := runtime.NewRegistry(logger, opts...)
	if _, err := registry.Restore(context.Background()); err != nil {
		logger.Error("Unable to restore rooms", "error", err)
	}

	return &library{
		bridge: bridge.New(registry, logger),
		db:     db,
		log:    logger,
	}, nil
}

func buildModerator(config internal.Config, log *slog.Logger) (*moderation.Moderator, error) {
	char, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, err
	}
	data, err := moderation.NewEmbeddedLoader().LoadAll("censored")
	if err != nil {
		return nil, err
	}
	log.Info("Censored words loaded", "count", len(data.Words), "languages", data.Languages)
	return moderation.NewModerator(data.Words, char, log)
}

func goString(s *C.char) (string, bool) {
	if s == nil {
		return "", false
	}
	return C.GoString(s), true
}

func cString(s string) *C.char {
	return C.CString(s)
}

func freeCString(s *C.char) {
	C.free(unsafe.Pointer(s))
}

// logger never builds the library: releases may run after im_shutdown.
func logger() *slog.Logger {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current != nil {
		return current.log
	}
	return slog.Default()
}

//export im_init
func im_init(cb C.im_callback) C.int {
	lib := instance()
	if lib == nil || cb == nil {
		return bridge.Failed
	}
	return C.int(lib.bridge.Init(func(participantID, text string) {
		cParticipant := cString(participantID)
		cText := cString(text)
		defer freeCString(cParticipant)
		defer freeCString(cText)
		C.im_invoke_callback(cb, cParticipant, cText)
	}))
}

//export im_create_room
func im_create_room(name *C.char) C.uint64_t {
	lib := instance()
	n, ok := goString(name)
	if lib == nil || !ok {
		return 0
	}
	return C.uint64_t(lib.bridge.CreateRoom(n))
}

//export im_create_room_with_id
func im_create_room_with_id(id C.uint64_t, name *C.char) C.uint64_t {
	lib := instance()
	n, ok := goString(name)
	if lib == nil || !ok {
		return 0
	}
	return C.uint64_t(lib.bridge.CreateRoomWithID(uint64(id), n))
}

//export im_join_room
func im_join_room(roomID C.uint64_t, participantID, nickname *C.char) C.int {
	lib := instance()
	p, okP := goString(participantID)
	n, okN := goString(nickname)
	if lib == nil || !okP || !okN {
		return bridge.Failed
	}
	return C.int(lib.bridge.JoinRoom(uint64(roomID), p, n))
}

//export im_send_message
func im_send_message(roomID C.uint64_t, senderID, text *C.char) C.int {
	lib := instance()
	s, okS := goString(senderID)
	t, okT := goString(text)
	if lib == nil || !okS || !okT {
		return bridge.Failed
	}
	return C.int(lib.bridge.SendMessage(uint64(roomID), s, t))
}

//export im_send_media
func im_send_media(roomID C.uint64_t, senderID *C.char, kind C.int, path *C.char) C.int {
	lib := instance()
	s, okS := goString(senderID)
	p, okP := goString(path)
	if lib == nil || !okS || !okP {
		return bridge.Failed
	}
	return C.int(lib.bridge.SendMedia(uint64(roomID), s, domain.MessageType(kind), p))
}

//export im_leave_room
func im_leave_room(roomID C.uint64_t, participantID *C.char) C.int {
	lib := instance()
	p, ok := goString(participantID)
	if lib == nil || !ok {
		return bridge.Failed
	}
	return C.int(lib.bridge.LeaveRoom(uint64(roomID), p))
}

//export im_get_room_name
func im_get_room_name(roomID C.uint64_t) *C.char {
	lib := instance()
	if lib == nil {
		return nil
	}
	h := lib.bridge.RoomName(uint64(roomID))
	if h == 0 {
		return nil
	}
	name, err := lib.bridge.String(h)
	if err != nil {
		_ = lib.bridge.FreeString(h)
		return nil
	}
	cName := cString(name)
	b := lib.bridge
	owned.track(unsafe.Pointer(cName), func() error { return b.FreeString(h) })
	return cName
}

//export im_get_room_id
func im_get_room_id(name *C.char) C.uint64_t {
	lib := instance()
	n, ok := goString(name)
	if lib == nil || !ok {
		return 0
	}
	return C.uint64_t(lib.bridge.RoomID(n))
}

//export im_list_room_ids
func im_list_room_ids(count *C.size_t) *C.uint64_t {
	if count == nil {
		return nil
	}
	ptr, n := listRoomIDs()
	*count = C.size_t(n)
	return (*C.uint64_t)(ptr)
}

// listRoomIDs copies the room ids into a malloc'd array owned by the host.
func listRoomIDs() (unsafe.Pointer, int) {
	lib := instance()
	if lib == nil {
		return nil, 0
	}
	h, n := lib.bridge.ListRoomIDs()
	if n == 0 {
		return nil, 0
	}
	ids, err := lib.bridge.IDs(h)
	if err != nil {
		_ = lib.bridge.FreeIDArray(h)
		return nil, 0
	}
	ptr := C.malloc(C.size_t(n) * C.size_t(unsafe.Sizeof(C.uint64_t(0))))
	if ptr == nil {
		_ = lib.bridge.FreeIDArray(h)
		return nil, 0
	}
	out := unsafe.Slice((*C.uint64_t)(ptr), n)
	for i, id := range ids {
		out[i] = C.uint64_t(id)
	}
	b := lib.bridge
	owned.track(ptr, func() error { return b.FreeIDArray(h) })
	return ptr, n
}

//export im_free_string
func im_free_string(s *C.char) {
	freeOwned(unsafe.Pointer(s))
}

//export im_free_uint64_array
func im_free_uint64_array(ids *C.uint64_t) {
	freeOwned(unsafe.Pointer(ids))
}

// freeOwned releases a buffer handed out by this library, even one returned
// before im_shutdown. Unknown pointers are reported and never passed to free.
func freeOwned(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	release, ok := owned.take(ptr)
	if !ok {
		logger().Warn("Release of a buffer not allocated by this library",
			"ptr", fmt.Sprintf("%p", ptr))
		return
	}
	if err := release(); err != nil {
		logger().Error("Buffer release failed", "error", err)
	}
	C.free(ptr)
}

// im_shutdown closes the room catalog and drops the library state.
// Buffers returned earlier stay valid until the host frees them.
//
//export im_shutdown
func im_shutdown() {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current == nil {
		return
	}
	if current.db != nil {
		if err := current.db.Close(); err != nil {
			current.log.Error("Closing catalog failed", "error", err)
		}
	}
	current.log.Info("Library shut down", "outstanding_buffers", current.bridge.Outstanding())
	current = nil
}
