package moderation

import (
	"im-core/errors"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestCensoredLoader_LoadAll(t *testing.T) {
	req := require.New(t)
	files := fstest.MapFS{
		"words/en.txt":       {Data: []byte("idiot\r\nstupid\n\n  idiot  \n")},
		"words/fr.txt":       {Data: []byte("abruti\n")},
		"words/README.md":    {Data: []byte("not a word list")},
		"words/nested/x.txt": {Data: []byte("ignored")},
	}

	data, err := NewCensoredLoader(files).LoadAll("words")

	req.NoError(err)
	req.ElementsMatch([]string{"en", "fr"}, data.Languages)
	req.ElementsMatch([]string{"idiot", "stupid", "abruti"}, data.Words)
}

func TestCensoredLoader_Empty_Files(t *testing.T) {
	req := require.New(t)
	files := fstest.MapFS{
		"words/en.txt": {Data: []byte("\n   \n")},
	}

	_, err := NewCensoredLoader(files).LoadAll("words")

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestEmbeddedLoader_Builds_A_Moderator(t *testing.T) {
	req := require.New(t)

	data, err := NewEmbeddedLoader().LoadAll("censored")
	req.NoError(err)
	req.NotEmpty(data.Words)

	mod, err := NewModerator(data.Words, '*', discardLogger())
	req.NoError(err)
	censored := mod.Censor("you idiot")
	req.Equal("you *****", censored.Text)
	req.Equal([]string{"idiot"}, censored.Words)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
