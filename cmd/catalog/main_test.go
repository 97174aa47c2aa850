package main

import (
	"bytes"
	"im-core/contract"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_Lists_Rooms(t *testing.T) {
	req := require.New(t)
	var out bytes.Buffer

	render(&out, []contract.StoredRoom{{ID: 1, Name: "general"}, {ID: 42, Name: "random"}})

	req.Contains(out.String(), "general")
	req.Contains(out.String(), "42")
	req.Contains(out.String(), "2 room(s)")
}
