package mimetypes

import (
	"fmt"
	"im-core/domain"
	"im-core/errors"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

type MIME string

const (
	ImageGIF MIME = "image/gif"

	imagePrefix = "image/"
	videoPrefix = "video/"
)

// Matches reports whether detected (parameters allowed) is expected.
func Matches(detected string, expected MIME) bool {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return false
	}
	return mt == string(expected)
}

// KindFromMIME maps a detected media type onto the message kind carrying it.
// GIFs get their own kind even though they are images.
func KindFromMIME(detected string) (domain.MessageType, error) {
	if Matches(detected, ImageGIF) {
		return domain.Gif, nil
	}
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return domain.Text, fmt.Errorf("%w: %q", errors.ErrUnknownMediaType, detected)
	}
	switch {
	case strings.HasPrefix(mt, imagePrefix):
		return domain.Image, nil
	case strings.HasPrefix(mt, videoPrefix):
		return domain.Video, nil
	default:
		return domain.Text, fmt.Errorf("%w: %q", errors.ErrUnknownMediaType, mt)
	}
}

// KindOf sniffs the file at path.
func KindOf(path string) (domain.MessageType, error) {
	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return domain.Text, err
	}
	return KindFromMIME(detected.String())
}
