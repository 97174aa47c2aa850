package main

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

// freshLibrary points the library at a clean environment and drops it after the test.
func freshLibrary(t *testing.T, catalog string) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("CHARACTER_REPLACEMENT", "*")
	t.Setenv("CENSORED_ENABLED", "false")
	t.Setenv("CATALOG_FILEPATH", catalog)
	im_shutdown()
	t.Cleanup(im_shutdown)
}

func built() bool {
	currentMu.Lock()
	defer currentMu.Unlock()
	return current != nil
}

func TestLibim_Null_Arguments_Return_Failure(t *testing.T) {
	req := require.New(t)
	freshLibrary(t, "")
	name := cString("general")
	defer freeCString(name)
	id := im_create_room(name)
	req.Equal(uint64(1), uint64(id))

	req.Zero(uint64(im_create_room(nil)))
	req.Zero(uint64(im_create_room_with_id(4, nil)))
	req.Equal(-1, int(im_init(nil)))
	req.Equal(-1, int(im_join_room(id, nil, name)))
	req.Equal(-1, int(im_join_room(id, name, nil)))
	req.Equal(-1, int(im_send_message(id, nil, name)))
	req.Equal(-1, int(im_send_message(id, name, nil)))
	req.Equal(-1, int(im_send_media(id, nil, 1, name)))
	req.Equal(-1, int(im_leave_room(id, nil)))
	req.Zero(uint64(im_get_room_id(nil)))
	req.Nil(im_list_room_ids(nil))
	req.Zero(owned.len())
}

func TestLibim_Join_Send_Leave(t *testing.T) {
	req := require.New(t)
	freshLibrary(t, "")
	general := cString("general")
	defer freeCString(general)
	p1 := cString("p1")
	defer freeCString(p1)
	alice := cString("Alice")
	defer freeCString(alice)
	hi := cString("hi")
	defer freeCString(hi)

	id := im_create_room(general)
	var got []string
	current.bridge.Init(func(participantID, text string) {
		got = append(got, participantID+":"+text)
	})

	req.Zero(int(im_join_room(id, p1, alice)))
	req.Zero(int(im_send_message(id, p1, hi)))
	req.Zero(int(im_leave_room(id, p1)))
	req.Zero(int(im_send_message(id, p1, hi)))

	req.Equal([]string{"p1:hi"}, got)
	req.Equal(uint64(id), uint64(im_get_room_id(general)))
}

func TestLibim_Room_Name_Released_Once(t *testing.T) {
	req := require.New(t)
	freshLibrary(t, "")
	general := cString("general")
	defer freeCString(general)
	id := im_create_room(general)

	name := im_get_room_name(id)
	req.NotNil(name)
	got, ok := goString(name)
	req.True(ok)
	req.Equal("general", got)
	req.Equal(1, owned.len())
	req.Equal(1, current.bridge.Outstanding())

	im_free_string(name)
	req.Zero(owned.len())
	req.Zero(current.bridge.Outstanding())

	// A second release is ignored rather than freed twice
	req.NotPanics(func() { im_free_string(name) })
	req.Nil(im_get_room_name(404))
}

func TestLibim_Room_ID_Array_Released_Once(t *testing.T) {
	req := require.New(t)
	freshLibrary(t, "")
	a := cString("A")
	defer freeCString(a)
	b := cString("B")
	defer freeCString(b)

	ptr, n := listRoomIDs()
	req.Nil(ptr)
	req.Zero(n)

	first := im_create_room(a)
	second := im_create_room(b)

	ptr, n = listRoomIDs()
	req.Equal(2, n)
	req.Equal([]uint64{uint64(first), uint64(second)}, append([]uint64(nil), unsafe.Slice((*uint64)(ptr), n)...))
	req.Equal(1, owned.len())

	freeOwned(ptr)
	req.Zero(owned.len())
	req.Zero(current.bridge.Outstanding())
	req.NotPanics(func() { freeOwned(ptr) })
}

func TestLibim_Foreign_Pointer_Is_Not_Freed(t *testing.T) {
	req := require.New(t)
	freshLibrary(t, "")

	foreign := cString("host memory")
	im_free_string(foreign)

	// Still readable: the library left it alone
	got, ok := goString(foreign)
	req.True(ok)
	req.Equal("host memory", got)
	freeCString(foreign)
	req.False(built())
}

func TestLibim_Free_After_Shutdown(t *testing.T) {
	req := require.New(t)
	freshLibrary(t, "")
	general := cString("general")
	defer freeCString(general)
	id := im_create_room(general)
	name := im_get_room_name(id)
	req.Equal(1, owned.len())

	// When the host shuts the library down before releasing the name
	im_shutdown()
	im_free_string(name)

	// Then the buffer is released without bringing the library back
	req.Zero(owned.len())
	req.False(built())
}

func TestLibim_Catalog_Survives_Shutdown(t *testing.T) {
	req := require.New(t)
	freshLibrary(t, t.TempDir())
	lobby := cString("lobby")
	defer freeCString(lobby)

	req.Equal(uint64(7), uint64(im_create_room_with_id(7, lobby)))
	im_shutdown()

	// The next call rebuilds the library and restores the room
	req.Equal(uint64(7), uint64(im_get_room_id(lobby)))
	req.Equal(uint64(8), uint64(im_create_room(lobby)))
}

func TestLibim_Censors_When_Enabled(t *testing.T) {
	req := require.New(t)
	freshLibrary(t, "")
	t.Setenv("CENSORED_ENABLED", "true")
	general := cString("general")
	defer freeCString(general)
	p1 := cString("p1")
	defer freeCString(p1)
	insult := cString("you idiot")
	defer freeCString(insult)

	id := im_create_room(general)
	var got []string
	current.bridge.Init(func(_, text string) { got = append(got, text) })
	req.Zero(int(im_join_room(id, p1, p1)))
	req.Zero(int(im_send_message(id, p1, insult)))

	req.Equal([]string{"you *****"}, got)
}
