// Package domain contains core concepts of the messaging engine.
// This file defines Message values and their content kinds.
// Messages are immutable once built; type and content are not cross-checked.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MessageType int

const (
	Text MessageType = iota
	Image
	Gif
	Video
	Emoji
)

func (t MessageType) String() string {
	switch t {
	case Text:
		return "text"
	case Image:
		return "image"
	case Gif:
		return "gif"
	case Video:
		return "video"
	case Emoji:
		return "emoji"
	default:
		return "unknown"
	}
}

// Content is the closed set of payload shapes a Message can carry.
// Adding a shape means adding a MessageType alongside it.
type Content interface {
	isContent()
}

// TextContent carries plain text or an emoji.
type TextContent string

type ImagePath string

type GifPath string

type VideoPath string

func (TextContent) isContent() {}
func (ImagePath) isContent()   {}
func (GifPath) isContent()     {}
func (VideoPath) isContent()   {}

// Message represents an immutable chat event.
type Message struct {
	id        uuid.UUID
	kind      MessageType
	content   Content
	createdAt time.Time
}

func NewMessage(kind MessageType, content Content) Message {
	return Message{
		id:        uuid.New(),
		kind:      kind,
		content:   content,
		createdAt: time.Now().UTC(),
	}
}

func NewTextMessage(text string) Message {
	return NewMessage(Text, TextContent(text))
}

// NewMediaMessage wraps path into the content shape matching kind.
// Text and Emoji kinds fall back to TextContent.
func NewMediaMessage(kind MessageType, path string) Message {
	switch kind {
	case Image:
		return NewMessage(kind, ImagePath(path))
	case Gif:
		return NewMessage(kind, GifPath(path))
	case Video:
		return NewMessage(kind, VideoPath(path))
	default:
		return NewMessage(kind, TextContent(path))
	}
}

func (m Message) ID() uuid.UUID        { return m.id }
func (m Message) Type() MessageType    { return m.kind }
func (m Message) Content() Content     { return m.content }
func (m Message) CreatedAt() time.Time { return m.createdAt }

// Render flattens the message into the plain string handed to sinks.
// Text is returned as-is, media as a tagged bracket such as "[Image: a.png]".
func (m Message) Render() string {
	switch c := m.content.(type) {
	case TextContent:
		return string(c)
	case ImagePath:
		return fmt.Sprintf("[Image: %s]", string(c))
	case GifPath:
		return fmt.Sprintf("[Gif: %s]", string(c))
	case VideoPath:
		return fmt.Sprintf("[Video: %s]", string(c))
	default:
		return ""
	}
}
