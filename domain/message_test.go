package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessage_Render(t *testing.T) {
	tests := []struct {
		name     string
		msg      Message
		expected string
	}{
		{"Text as-is", NewTextMessage("hi there"), "hi there"},
		{"Emoji as-is", NewMessage(Emoji, TextContent("🙂")), "🙂"},
		{"Image tagged", NewMediaMessage(Image, "cat.png"), "[Image: cat.png]"},
		{"Gif tagged", NewMediaMessage(Gif, "dance.gif"), "[Gif: dance.gif]"},
		{"Video tagged", NewMediaMessage(Video, "clip.mp4"), "[Video: clip.mp4]"},
		{"Empty text", NewTextMessage(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.msg.Render())
		})
	}
}

func TestMessage_Accessors(t *testing.T) {
	req := require.New(t)

	msg := NewMessage(Image, ImagePath("a.png"))

	req.Equal(Image, msg.Type())
	req.Equal(ImagePath("a.png"), msg.Content())
	req.NotEqual(msg.ID(), NewTextMessage("x").ID())
	req.False(msg.CreatedAt().IsZero())
}

// Type and content are not cross-checked: the caller is trusted.
func TestMessage_Mismatched_Type_Is_Kept(t *testing.T) {
	req := require.New(t)

	msg := NewMessage(Video, ImagePath("a.png"))

	req.Equal(Video, msg.Type())
	req.Equal("[Image: a.png]", msg.Render())
}

func TestNewMediaMessage_Text_Kinds_Fall_Back(t *testing.T) {
	req := require.New(t)

	msg := NewMediaMessage(Emoji, "🎉")

	req.Equal(TextContent("🎉"), msg.Content())
}
