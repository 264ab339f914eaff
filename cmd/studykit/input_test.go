package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/studykit/pkg/core"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want core.Kind
	}{
		{"quiz", core.KindQuiz},
		{"Quizzes", core.KindQuiz},
		{"cards", core.KindFlashcards},
		{"flashcards", core.KindFlashcards},
		{" mindmap ", core.KindMindMap},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseKind("notes")
	assert.Error(t, err)
}

func TestPrompterLetter(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("x\nE\nc\n"), &out)

	idx, ok := p.letter(3)
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, 2, strings.Count(out.String(), "Please pick"))

	_, ok = p.letter(3)
	assert.False(t, ok, "end of input")
}

func TestReadSourceRequiresPath(t *testing.T) {
	_, err := readSource("")
	assert.Error(t, err)
}
