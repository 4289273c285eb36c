package ocr

import (
	"errors"
	"strings"
	"unicode"
)

// ErrUnavailable is returned by SuggestName when the binary was built
// without OCR support.
var ErrUnavailable = errors.New("ocr support not built in (requires cgo and tesseract)")

// NameSuggestion is a stamp name proposed from the text recognized on the
// image.
type NameSuggestion struct {
	// Name is the cleaned suggestion: recognized words with stray
	// punctuation trimmed, joined by single spaces.
	Name string `json:"name"`

	// RawText is the recognizer output before cleanup, kept so a client
	// can show what the engine actually saw.
	RawText string `json:"raw_text"`

	// Words is the number of words that survived cleanup.
	Words int `json:"words"`
}

// Info describes the OCR subsystem compiled into this binary.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Backend   string `json:"backend"`
}

// cleanName reduces raw recognizer output to a usable stamp name. Each
// whitespace-separated token is trimmed of leading and trailing
// non-alphanumeric runes; empty leftovers are dropped.
func cleanName(raw string) (string, int) {
	var words []string
	for _, field := range strings.Fields(raw) {
		w := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return strings.Join(words, " "), len(words)
}
