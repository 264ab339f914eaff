// Package workspace ties generation, parsing, storage and sessions together.
//
// Every Generate* call follows the same sequence: refuse blank context, ask
// the generator, parse the reply, persist what survived. Nothing is persisted
// when generation fails, so a later load sees either the fresh artifact or the
// previous one.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aretw0/studykit/pkg/core"
	"github.com/aretw0/studykit/pkg/generate"
	"github.com/aretw0/studykit/pkg/parse"
	"github.com/aretw0/studykit/pkg/session"
	"github.com/aretw0/studykit/pkg/typed"
)

// Workspace is the application service over one artifact store.
type Workspace struct {
	svc       *core.Service
	gen       generate.Generator
	logger    *slog.Logger
	parseOpts []parse.Option

	quizzes *typed.Store[[]core.QuizQuestion]
	decks   *typed.Store[[]core.Flashcard]
	maps    *typed.Store[*core.Graph]
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithGenerator sets the text generator. Without one every Generate* call
// fails with core.ErrGenerationFailure.
func WithGenerator(g generate.Generator) Option {
	return func(w *Workspace) {
		w.gen = g
	}
}

// WithAllowDangling keeps mind-map edges to undeclared nodes.
func WithAllowDangling(allow bool) Option {
	return func(w *Workspace) {
		if allow {
			w.parseOpts = append(w.parseOpts, parse.AllowDangling())
		}
	}
}

// New creates a Workspace over svc.
func New(svc *core.Service, opts ...Option) *Workspace {
	w := &Workspace{
		svc:     svc,
		logger:  svc.Logger(),
		quizzes: typed.NewStore(svc, func() []core.QuizQuestion { return []core.QuizQuestion{} }),
		decks:   typed.NewStore(svc, func() []core.Flashcard { return []core.Flashcard{} }),
		maps:    typed.NewStore(svc, func() *core.Graph { return &core.Graph{Nodes: []core.Node{}, Edges: []core.Edge{}} }),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Service returns the underlying storage service.
func (w *Workspace) Service() *core.Service {
	return w.svc
}

func (w *Workspace) generate(ctx context.Context, kind, prompt string) (string, error) {
	if w.gen == nil {
		return "", fmt.Errorf("%w: no generator configured", core.ErrGenerationFailure)
	}
	text, err := w.gen.Generate(ctx, prompt)
	if err != nil {
		w.logger.Warn("generation failed", "kind", kind, "error", err)
		return "", fmt.Errorf("%w: %w", core.ErrGenerationFailure, err)
	}
	if strings.TrimSpace(text) == "" {
		w.logger.Warn("generation returned no content", "kind", kind)
		return "", fmt.Errorf("%w: empty reply", core.ErrGenerationFailure)
	}
	return text, nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (w *Workspace) logDrops(kind, key string, report parse.Report) {
	if report.Len() > 0 {
		w.logger.Warn("dropped invalid entries", "kind", kind, "key", key, "count", report.Len(), "error", report.Err())
	}
}

// --- Quizzes ---

// ImportQuiz parses quiz text and persists the questions under key.
// Text without a single valid question is refused and nothing is written.
func (w *Workspace) ImportQuiz(ctx context.Context, key, text string) ([]core.QuizQuestion, parse.Report, error) {
	if blank(text) {
		return []core.QuizQuestion{}, parse.Report{}, core.ErrEmptyInput
	}
	questions, report := parse.Quiz(text)
	w.logDrops("quiz", key, report)
	if len(questions) == 0 {
		return questions, report, fmt.Errorf("%w: no valid questions", core.ErrMalformedContent)
	}
	if err := w.quizzes.Save(ctx, key, questions); err != nil {
		return questions, report, err
	}
	w.logger.Info("quiz saved", "key", key, "questions", len(questions))
	return questions, report, nil
}

// GenerateQuiz generates, parses and persists a quiz about source text.
func (w *Workspace) GenerateQuiz(ctx context.Context, key, source string, opts generate.QuizOptions) ([]core.QuizQuestion, parse.Report, error) {
	if blank(source) {
		return []core.QuizQuestion{}, parse.Report{}, core.ErrEmptyInput
	}
	text, err := w.generate(ctx, "quiz", generate.QuizPrompt(source, opts))
	if err != nil {
		return []core.QuizQuestion{}, parse.Report{}, err
	}
	return w.ImportQuiz(ctx, key, text)
}

// LoadQuiz returns the quiz stored under key; see typed.Store.Load.
func (w *Workspace) LoadQuiz(ctx context.Context, key string) ([]core.QuizQuestion, error) {
	return w.quizzes.Load(ctx, key)
}

// SaveQuiz overwrites the quiz under key. Invalid questions are dropped first.
func (w *Workspace) SaveQuiz(ctx context.Context, key string, questions []core.QuizQuestion) error {
	valid := make([]core.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if q.Valid() {
			valid = append(valid, q)
		}
	}
	return w.quizzes.Save(ctx, key, valid)
}

// StartQuiz loads the quiz under key and starts a session over it.
func (w *Workspace) StartQuiz(ctx context.Context, key string) (*session.Quiz, error) {
	questions, err := w.quizzes.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	q := session.NewQuiz()
	if err := q.Start(questions); err != nil {
		return nil, err
	}
	return q, nil
}

// --- Flashcards ---

// ImportFlashcards parses a JSON card array and persists it under key.
// An array without cards is refused and nothing is written.
func (w *Workspace) ImportFlashcards(ctx context.Context, key, text string) ([]core.Flashcard, error) {
	if blank(text) {
		return []core.Flashcard{}, core.ErrEmptyInput
	}
	cards, err := parse.Flashcards(text)
	if err != nil {
		w.logger.Warn("flashcards rejected", "key", key, "error", err)
		return cards, err
	}
	if len(cards) == 0 {
		w.logger.Warn("flashcards rejected", "key", key, "error", "no cards")
		return cards, fmt.Errorf("%w: no cards", core.ErrMalformedContent)
	}
	if err := w.decks.Save(ctx, key, cards); err != nil {
		return cards, err
	}
	w.logger.Info("flashcards saved", "key", key, "cards", len(cards))
	return cards, nil
}

// GenerateFlashcards generates, parses and persists count cards.
func (w *Workspace) GenerateFlashcards(ctx context.Context, key, source string, count int) ([]core.Flashcard, error) {
	if blank(source) {
		return []core.Flashcard{}, core.ErrEmptyInput
	}
	text, err := w.generate(ctx, "flashcards", generate.FlashcardPrompt(source, count))
	if err != nil {
		return []core.Flashcard{}, err
	}
	return w.ImportFlashcards(ctx, key, text)
}

// LoadDeck returns the deck stored under key; see typed.Store.Load.
func (w *Workspace) LoadDeck(ctx context.Context, key string) ([]core.Flashcard, error) {
	return w.decks.Load(ctx, key)
}

// SaveDeck overwrites the deck under key.
func (w *Workspace) SaveDeck(ctx context.Context, key string, deck []core.Flashcard) error {
	return w.decks.Save(ctx, key, deck)
}

// OpenDeck starts a flashcard session over the deck under key. A corrupted
// deck opens empty and the core.ErrCorruptedStore error is returned alongside
// the usable session.
func (w *Workspace) OpenDeck(ctx context.Context, key string) (*session.Flashcards, error) {
	deck, err := w.decks.Load(ctx, key)
	if err != nil && !errors.Is(err, core.ErrCorruptedStore) {
		return nil, err
	}
	return session.NewFlashcards(key, deck, w.decks), err
}

// CardSource returns a session.CardSource producing single cards about source.
func (w *Workspace) CardSource(source string) session.CardSource {
	return session.CardSourceFunc(func(ctx context.Context) (core.Flashcard, error) {
		return w.NextCard(ctx, source)
	})
}

// NextCard generates one card about source.
func (w *Workspace) NextCard(ctx context.Context, source string) (core.Flashcard, error) {
	if blank(source) {
		return core.Flashcard{}, core.ErrEmptyInput
	}
	text, err := w.generate(ctx, "flashcard", generate.FlashcardPrompt(source, 1))
	if err != nil {
		return core.Flashcard{}, err
	}
	cards, err := parse.Flashcards(text)
	if err != nil {
		return core.Flashcard{}, err
	}
	card, ok := parse.FirstCard(cards)
	if !ok {
		return core.Flashcard{}, fmt.Errorf("%w: reply has no usable card", core.ErrMalformedContent)
	}
	return card, nil
}

// --- Mind maps ---

// ImportMindMap builds a graph from JSON text and persists it under key.
// Graphs without nodes are refused and nothing is written.
func (w *Workspace) ImportMindMap(ctx context.Context, key, text string) (*core.Graph, parse.Report, error) {
	if blank(text) {
		return &core.Graph{Nodes: []core.Node{}, Edges: []core.Edge{}}, parse.Report{}, core.ErrEmptyInput
	}
	graph, report, err := parse.MindMap(text, w.parseOpts...)
	w.logDrops("mindmap", key, report)
	if err != nil {
		w.logger.Warn("mind map rejected", "key", key, "error", err)
		return graph, report, err
	}
	if graph.Empty() {
		return graph, report, fmt.Errorf("%w: no valid nodes", core.ErrMalformedGraph)
	}
	if err := w.maps.Save(ctx, key, graph); err != nil {
		return graph, report, err
	}
	w.logger.Info("mind map saved", "key", key, "nodes", len(graph.Nodes), "edges", len(graph.Edges))
	return graph, report, nil
}

// GenerateMindMap generates, builds and persists a mind map about topic.
func (w *Workspace) GenerateMindMap(ctx context.Context, key, source, topic string) (*core.Graph, parse.Report, error) {
	if blank(source) {
		return &core.Graph{Nodes: []core.Node{}, Edges: []core.Edge{}}, parse.Report{}, core.ErrEmptyInput
	}
	text, err := w.generate(ctx, "mindmap", generate.MindMapPrompt(source, topic))
	if err != nil {
		return &core.Graph{Nodes: []core.Node{}, Edges: []core.Edge{}}, parse.Report{}, err
	}
	return w.ImportMindMap(ctx, key, text)
}

// LoadMindMap returns the graph stored under key; see typed.Store.Load.
func (w *Workspace) LoadMindMap(ctx context.Context, key string) (*core.Graph, error) {
	return w.maps.Load(ctx, key)
}

// SaveMindMap overwrites the graph under key.
func (w *Workspace) SaveMindMap(ctx context.Context, key string, graph *core.Graph) error {
	return w.maps.Save(ctx, key, graph)
}

// OpenMindMap loads the graph under key and starts navigation at the node
// matching topic (see core.Graph.FindRoot). An empty topic uses the name in key.
func (w *Workspace) OpenMindMap(ctx context.Context, key, topic string) (*session.MindMap, error) {
	graph, err := w.maps.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if blank(topic) {
		topic = path.Base(key)
	}
	root, err := graph.FindRoot(topic)
	if err != nil {
		return nil, err
	}
	return session.NewMindMap(graph, root)
}

// --- Questions ---

// Ask answers a free-form question about notes.
func (w *Workspace) Ask(ctx context.Context, notes, question string) (string, error) {
	if blank(notes) || blank(question) {
		return "", core.ErrEmptyInput
	}
	return w.generate(ctx, "answer", generate.AnswerPrompt(notes, question))
}

// --- Listing ---

// List returns the names of a project's artifacts of one kind, sorted.
func (w *Workspace) List(ctx context.Context, project string, kind core.Kind) ([]string, error) {
	keys, err := w.svc.Keys(ctx, core.ArtifactKey(project, kind, "*"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, path.Base(k))
	}
	return names, nil
}

// Delete removes the artifact under key.
func (w *Workspace) Delete(ctx context.Context, key string) error {
	return w.svc.Remove(ctx, key)
}

// Watch reports changes to artifacts matching pattern, if the adapter supports it.
func (w *Workspace) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	return w.svc.Watch(ctx, pattern)
}
