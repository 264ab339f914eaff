package session

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/studykit/pkg/core"
)

// NoDescription is what Describe returns for nodes without a description.
const NoDescription = "No description available"

// MindMap tracks focus and the visible part of a graph. The visible set only
// grows: selecting a node reveals its neighbors and nothing is ever hidden.
type MindMap struct {
	id    string
	graph core.Graph
	adj   map[string][]string

	mu      sync.Mutex
	root    string
	focus   string
	visible map[string]bool
}

// NewMindMap starts navigation at root, showing root and its neighbors.
func NewMindMap(graph *core.Graph, root string) (*MindMap, error) {
	if graph.Empty() {
		return nil, fmt.Errorf("%w: empty mind map", core.ErrNotFound)
	}
	if _, ok := graph.Node(root); !ok {
		return nil, fmt.Errorf("%w: root %q", core.ErrNotFound, root)
	}

	m := &MindMap{
		id: uuid.NewString(),
		graph: core.Graph{
			Nodes: append([]core.Node{}, graph.Nodes...),
			Edges: append([]core.Edge{}, graph.Edges...),
		},
		adj:     graph.Adjacency(),
		root:    root,
		focus:   root,
		visible: map[string]bool{},
	}
	m.reveal(root)
	return m, nil
}

// ID identifies the session.
func (m *MindMap) ID() string { return m.id }

// Root returns the root node id.
func (m *MindMap) Root() string { return m.root }

// Focus returns the focused node id.
func (m *MindMap) Focus() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focus
}

// Select focuses a visible node and reveals its neighbors. Selecting a node
// that is not visible is refused and changes nothing.
func (m *MindMap) Select(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.visible[id] {
		return fmt.Errorf("%w: node %q is not visible", core.ErrInvalidTransition, id)
	}
	m.focus = id
	m.reveal(id)
	return nil
}

// ResetToRoot moves focus back to the root. The visible set is kept.
func (m *MindMap) ResetToRoot() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focus = m.root
}

func (m *MindMap) reveal(id string) {
	m.visible[id] = true
	for _, n := range m.adj[id] {
		m.visible[n] = true
	}
}

// IsVisible reports whether id is in the visible set.
func (m *MindMap) IsVisible(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible[id]
}

// Visible returns the visible node ids in declaration order.
func (m *MindMap) Visible() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.visible))
	for _, n := range m.graph.Nodes {
		if m.visible[n.ID] {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// VisibleSubgraph returns the visible nodes and the edges between them.
func (m *MindMap) VisibleSubgraph() *core.Graph {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := &core.Graph{Nodes: []core.Node{}, Edges: []core.Edge{}}
	for _, n := range m.graph.Nodes {
		if m.visible[n.ID] {
			sub.Nodes = append(sub.Nodes, n)
		}
	}
	for _, e := range m.graph.Edges {
		if m.visible[e.Source] && m.visible[e.Target] {
			sub.Edges = append(sub.Edges, e)
		}
	}
	return sub
}

// Describe returns the description of node id, or NoDescription.
func (m *MindMap) Describe(id string) string {
	n, ok := m.graph.Node(id)
	if !ok || strings.TrimSpace(n.Description) == "" {
		return NoDescription
	}
	return n.Description
}

// MindMapSnapshot is the display-facing view of a navigation session.
type MindMapSnapshot struct {
	ID      string   `json:"id"`
	Root    string   `json:"root"`
	Focus   string   `json:"focus"`
	Visible []string `json:"visible"`
}

// Snapshot returns a copy of the navigation state.
func (m *MindMap) Snapshot() MindMapSnapshot {
	visible := m.Visible()
	return MindMapSnapshot{ID: m.id, Root: m.root, Focus: m.Focus(), Visible: visible}
}

// State implements introspection.Introspectable.
func (m *MindMap) State() any { return m.Snapshot() }

// ComponentType implements introspection.Component.
func (m *MindMap) ComponentType() string { return "mindmap-session" }

var (
	_ introspection.Introspectable = (*MindMap)(nil)
	_ introspection.Component      = (*MindMap)(nil)
)
