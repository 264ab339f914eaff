package parse_test

import (
	"testing"

	"github.com/aretw0/studykit/pkg/core"
	"github.com/aretw0/studykit/pkg/parse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashcards(t *testing.T) {
	t.Run("fenced array", func(t *testing.T) {
		in := "```json\n[{\"front\":\"ATP\",\"back\":\"Energy currency\"},{\"front\":\"DNA\",\"back\":\"Genetic code\"}]\n```"
		cards, err := parse.Flashcards(in)
		require.NoError(t, err)
		assert.Equal(t, []core.Flashcard{
			{Front: "ATP", Back: "Energy currency"},
			{Front: "DNA", Back: "Genetic code"},
		}, cards)
	})

	t.Run("missing fields decode empty", func(t *testing.T) {
		cards, err := parse.Flashcards(`[{"front":"only front"}]`)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Equal(t, "", cards[0].Back)
	})

	t.Run("empty input", func(t *testing.T) {
		cards, err := parse.Flashcards("  ")
		require.NoError(t, err)
		assert.Empty(t, cards)
	})

	t.Run("null decodes to empty", func(t *testing.T) {
		cards, err := parse.Flashcards("null")
		require.NoError(t, err)
		assert.NotNil(t, cards)
		assert.Empty(t, cards)
	})
}

func TestFlashcards_AllOrNothing(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"truncated", `[{"front":"a","back":"b"},{"front":"c"`},
		{"object instead of array", `{"front":"a","back":"b"}`},
		{"wrong field type", `[{"front":"a","back":"b"},{"front":1,"back":"c"}]`},
		{"prose", "Sure! Here are your flashcards."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards, err := parse.Flashcards(tt.in)
			assert.ErrorIs(t, err, core.ErrMalformedContent)
			assert.Empty(t, cards)
		})
	}
}

func TestFirstCard(t *testing.T) {
	card, ok := parse.FirstCard([]core.Flashcard{{Front: " ", Back: "x"}, {Front: "Q", Back: "A"}})
	require.True(t, ok)
	assert.Equal(t, "Q", card.Front)

	_, ok = parse.FirstCard(nil)
	assert.False(t, ok)
}
