package parse

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/studykit/pkg/core"
)

// Flashcards decodes a JSON array of {front, back} objects, optionally fenced.
// Decoding is all-or-nothing: any error yields no cards and an error wrapping
// core.ErrMalformedContent. Cards are not validated individually, so a missing
// side decodes as an empty string.
func Flashcards(text string) ([]core.Flashcard, error) {
	body := StripFence(text)
	if body == "" {
		return []core.Flashcard{}, nil
	}

	var cards []core.Flashcard
	if err := json.Unmarshal([]byte(body), &cards); err != nil {
		return []core.Flashcard{}, fmt.Errorf("%w: flashcards: %v", core.ErrMalformedContent, err)
	}
	if cards == nil {
		cards = []core.Flashcard{}
	}
	return cards, nil
}

// FirstCard returns the first decoded card with a non-blank front.
func FirstCard(cards []core.Flashcard) (core.Flashcard, bool) {
	for _, c := range cards {
		if strings.TrimSpace(c.Front) != "" {
			return c, true
		}
	}
	return core.Flashcard{}, false
}
