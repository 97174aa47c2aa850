package moderation

import (
	"im-core/errors"
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dictionary := []string{"badger", "snake", "mushroom"}
	mod, err := NewModerator(dictionary, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Single word keeps surrounding spaces",
			input:    "The badger is here",
			expected: "The ****** is here",
			words:    []string{"badger"},
		},
		{
			name:     "Every occurrence is reported",
			input:    "badger badger badger",
			expected: "****** ****** ******",
			words:    []string{"badger", "badger", "badger"},
		},
		{
			name:     "Leet speak with dots in between",
			input:    "Look at B.4.d.g.€r !",
			expected: "Look at ********** !",
			words:    []string{"badger"},
		},
		{
			name:     "Uppercase with dashes",
			input:    "S-N-A-K-E is a B.A.D.G.E.R",
			expected: "********* is a ***********",
			words:    []string{"snake", "badger"},
		},
		{
			name:     "Accents are left alone",
			input:    "Un été avec un badger",
			expected: "Un été avec un ******",
			words:    []string{"badger"},
		},
		{
			name:     "Nothing to censor",
			input:    "rooms are fun",
			expected: "rooms are fun",
			words:    nil,
		},
		{
			name:     "Empty string",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			censored := mod.Censor(tt.input)
			require.Equal(t, tt.expected, censored.Text)
			require.Equal(t, tt.words, censored.Words)
		})
	}
}

func TestModerator_Ignores_Words_That_Normalize_To_Nothing(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a dictionary mixing punctuation, blanks and a duplicate
	mod, err := NewModerator([]string{"...", ",,,", "", "badger", "Badger"}, replacementChar, log)
	req.NoError(err)

	// Then the real word is censored
	censored := mod.Censor("The badger is safe")
	req.Equal("The ****** is safe", censored.Text)
	req.Equal([]string{"badger"}, censored.Words)

	// And punctuation stays as typed
	censored = mod.Censor("Hello ...")
	req.Equal("Hello ...", censored.Text)
	req.Nil(censored.Words)
}

func TestNewModerator_Empty_Dictionary(t *testing.T) {
	req := require.New(t)

	_, err := NewModerator([]string{"", "..."}, replacementChar, slog.Default())

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestModerator_Detects_Language_Only_When_Masking(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"imbécile"}, replacementChar, slog.New(slog.DiscardHandler))
	req.NoError(err)

	// Given a French sentence long enough to be recognised
	censored := mod.Censor("Je pense vraiment que cet homme est un imbécile et il ne comprend jamais rien")

	// Then the match is masked and the language reported
	req.Equal([]string{"imbécile"}, censored.Words)
	req.Equal("fr", censored.Language)

	// And clean text is not analysed
	clean := mod.Censor("Je pense vraiment que cette femme est très gentille avec tout le monde")
	req.Empty(clean.Language)
	req.Nil(clean.Words)
}
