package core_test

import (
	"errors"
	"testing"

	"github.com/aretw0/studykit/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactKey(t *testing.T) {
	assert.Equal(t, "bio/quizzes/Cell Biology", core.ArtifactKey("bio", core.KindQuiz, " Cell Biology "))
	assert.Equal(t, "bio/flashcards/approved", core.ArtifactKey("bio", core.KindFlashcards, core.ApprovedDeck))
}

func TestQuizQuestion_Valid(t *testing.T) {
	assert.True(t, core.QuizQuestion{Question: "q", Options: []string{"a", "b"}, Answer: "b"}.Valid())
	assert.False(t, core.QuizQuestion{Question: "q", Options: []string{"a"}, Answer: "z"}.Valid())
	assert.False(t, core.QuizQuestion{Question: "q", Answer: ""}.Valid())
}

func TestGraph_Adjacency(t *testing.T) {
	g := &core.Graph{
		Nodes: []core.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []core.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "a"},
			{Source: "c", Target: "a"},
			{Source: "c", Target: "c"},
		},
	}
	adj := g.Adjacency()
	assert.Equal(t, []string{"b", "c"}, adj["a"])
	assert.Equal(t, []string{"a"}, adj["b"])
	assert.Equal(t, []string{"a"}, adj["c"])
}

func TestGraph_FindRoot(t *testing.T) {
	g := &core.Graph{Nodes: []core.Node{
		{ID: "photosynthesis", Label: "Photosynthesis"},
		{ID: "n2", Label: "Chlorophyll"},
	}}

	root, err := g.FindRoot("photosynthesis")
	require.NoError(t, err)
	assert.Equal(t, "photosynthesis", root)

	root, err = g.FindRoot("chlorophyll")
	require.NoError(t, err)
	assert.Equal(t, "n2", root)

	root, err = g.FindRoot("unrelated")
	require.NoError(t, err)
	assert.Equal(t, "photosynthesis", root)

	_, err = (&core.Graph{}).FindRoot("x")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMalformedGraphIsMalformedContent(t *testing.T) {
	assert.True(t, errors.Is(core.ErrMalformedGraph, core.ErrMalformedContent))
}
