// Package core holds the study artifacts and the storage contract they persist through.
package core

import (
	"fmt"
	"path"
	"strings"
)

// Kind identifies one of the three artifact families. Its value doubles as the
// key segment under which a project stores artifacts of that kind.
type Kind string

const (
	KindQuiz       Kind = "quizzes"
	KindFlashcards Kind = "flashcards"
	KindMindMap    Kind = "mindmaps"
)

// ApprovedDeck is the name of the deck every project accumulates approved cards into.
const ApprovedDeck = "approved"

// ArtifactKey joins project, kind and name into a fully-qualified storage key.
func ArtifactKey(project string, kind Kind, name string) string {
	return path.Join(project, string(kind), strings.TrimSpace(name))
}

// QuizQuestion is a single multiple-choice question.
// Answer must equal one of Options.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Valid reports whether the question has options and its answer is one of them.
func (q QuizQuestion) Valid() bool {
	if len(q.Options) == 0 {
		return false
	}
	for _, o := range q.Options {
		if o == q.Answer {
			return true
		}
	}
	return false
}

// Flashcard is a two-sided study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// CardKey is the natural key of a flashcard. Cards carry no identifier of their
// own, so updates and deletes locate a card by the values it had when loaded.
type CardKey struct {
	Front string
	Back  string
}

// Key returns the card's natural key.
func (c Flashcard) Key() CardKey {
	return CardKey{Front: c.Front, Back: c.Back}
}

// Node is a concept in a mind map.
type Node struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// DefaultRelation labels edges whose source did not name one.
const DefaultRelation = "related"

// Edge is an undirected link between two nodes.
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// Graph is a mind map. Node order is declaration order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool {
	return g == nil || len(g.Nodes) == 0
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	if g == nil {
		return Node{}, false
	}
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Adjacency returns the undirected neighbor lists of every node, in edge order.
// Self loops and repeated edges contribute a neighbor once.
func (g *Graph) Adjacency() map[string][]string {
	adj := make(map[string][]string)
	if g == nil {
		return adj
	}
	seen := make(map[[2]string]bool)
	link := func(a, b string) {
		if a == b || seen[[2]string{a, b}] {
			return
		}
		seen[[2]string{a, b}] = true
		adj[a] = append(adj[a], b)
	}
	for _, e := range g.Edges {
		link(e.Source, e.Target)
		link(e.Target, e.Source)
	}
	return adj
}

// FindRoot picks the node a map generated for topic is rooted at: an exact id
// match, then a case-insensitive label or id match, then the first node.
func (g *Graph) FindRoot(topic string) (string, error) {
	if g.Empty() {
		return "", fmt.Errorf("%w: graph has no nodes", ErrNotFound)
	}
	topic = strings.TrimSpace(topic)
	for _, n := range g.Nodes {
		if n.ID == topic {
			return n.ID, nil
		}
	}
	for _, n := range g.Nodes {
		if strings.EqualFold(n.Label, topic) || strings.EqualFold(n.ID, topic) {
			return n.ID, nil
		}
	}
	return g.Nodes[0].ID, nil
}

// EventType represents the type of change observed in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored artifact.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
