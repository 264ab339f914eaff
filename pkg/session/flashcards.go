package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/google/uuid"

	"github.com/aretw0/studykit/pkg/core"
)

// DeckWriter persists a whole deck. *typed.Store[[]core.Flashcard] satisfies it.
type DeckWriter interface {
	Save(ctx context.Context, key string, deck []core.Flashcard) error
}

// CardSource produces one new card, typically by calling a generator.
type CardSource interface {
	NextCard(ctx context.Context) (core.Flashcard, error)
}

// CardSourceFunc adapts a function to CardSource.
type CardSourceFunc func(ctx context.Context) (core.Flashcard, error)

// NextCard calls f.
func (f CardSourceFunc) NextCard(ctx context.Context) (core.Flashcard, error) { return f(ctx) }

// Flashcards drives the learning and authoring flows over one deck.
//
// Cards have no identifier: an approved edit replaces the card whose natural
// key matches the one captured when editing began. If that card has changed
// or vanished in the meantime the edit is appended as a new card.
type Flashcards struct {
	id     string
	key    string
	writer DeckWriter

	mu       sync.Mutex
	deck     []core.Flashcard
	learning bool
	index    int
	flipped  bool
	draft    *core.Flashcard
	original *core.Flashcard
	pending  bool
}

// NewFlashcards opens a session over deck, persisted under key by writer.
func NewFlashcards(key string, deck []core.Flashcard, writer DeckWriter) *Flashcards {
	return &Flashcards{
		id:     uuid.NewString(),
		key:    key,
		writer: writer,
		deck:   append([]core.Flashcard{}, deck...),
	}
}

// ID identifies the session.
func (f *Flashcards) ID() string { return f.id }

// Deck returns a copy of the current deck.
func (f *Flashcards) Deck() []core.Flashcard {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]core.Flashcard{}, f.deck...)
}

// StartLearning enters learning mode at the first card.
func (f *Flashcards) StartLearning() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.deck) == 0 {
		return fmt.Errorf("%w: deck is empty", core.ErrInvalidTransition)
	}
	f.learning = true
	f.index = 0
	f.flipped = false
	return nil
}

// FinishLearning leaves learning mode.
func (f *Flashcards) FinishLearning() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.learning = false
	f.flipped = false
}

// Current returns the card being studied.
func (f *Flashcards) Current() (core.Flashcard, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.learning {
		return core.Flashcard{}, false
	}
	return f.deck[f.index], true
}

// Flip turns the current card over.
func (f *Flashcards) Flip() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.learning {
		return fmt.Errorf("%w: not learning", core.ErrInvalidTransition)
	}
	f.flipped = !f.flipped
	return nil
}

// Next moves to the following card. It is refused at the last card.
func (f *Flashcards) Next() error {
	return f.move(1)
}

// Previous moves to the preceding card. It is refused at the first card.
func (f *Flashcards) Previous() error {
	return f.move(-1)
}

func (f *Flashcards) move(step int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.learning {
		return fmt.Errorf("%w: not learning", core.ErrInvalidTransition)
	}
	next := f.index + step
	if next < 0 || next >= len(f.deck) {
		return fmt.Errorf("%w: no card at %d", core.ErrInvalidTransition, next+1)
	}
	f.index = next
	f.flipped = false
	return nil
}

// DeleteCurrent removes the card being studied and persists the deck. The
// in-memory deck only changes once the save succeeds. Deleting the last card
// leaves learning mode.
func (f *Flashcards) DeleteCurrent(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.learning {
		return fmt.Errorf("%w: not learning", core.ErrInvalidTransition)
	}

	next := make([]core.Flashcard, 0, len(f.deck)-1)
	next = append(next, f.deck[:f.index]...)
	next = append(next, f.deck[f.index+1:]...)
	if err := f.writer.Save(ctx, f.key, next); err != nil {
		return err
	}

	f.deck = next
	f.flipped = false
	if len(f.deck) == 0 {
		f.learning = false
		f.index = 0
		return nil
	}
	f.index = min(f.index, len(f.deck)-1)
	return nil
}

// RequestCard asks src for a new card and makes it the draft. Calls made while
// a request is in flight are refused with core.ErrPending. The session lock
// is not held during the request.
func (f *Flashcards) RequestCard(ctx context.Context, src CardSource) (core.Flashcard, error) {
	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return core.Flashcard{}, core.ErrPending
	}
	f.pending = true
	f.mu.Unlock()

	card, err := src.NextCard(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = false
	if err != nil {
		return core.Flashcard{}, err
	}
	f.draft = &card
	f.original = nil
	return card, nil
}

// Regenerate drops the current draft and requests a replacement.
func (f *Flashcards) Regenerate(ctx context.Context, src CardSource) (core.Flashcard, error) {
	f.mu.Lock()
	if f.pending {
		f.mu.Unlock()
		return core.Flashcard{}, core.ErrPending
	}
	f.draft, f.original = nil, nil
	f.mu.Unlock()
	return f.RequestCard(ctx, src)
}

// Edit starts editing card. The draft is mutable; the original is the natural
// key Approve looks for.
func (f *Flashcards) Edit(card core.Flashcard) {
	f.mu.Lock()
	defer f.mu.Unlock()
	draft, original := card, card
	f.draft, f.original = &draft, &original
}

// EditCurrent starts editing the card being studied and leaves learning mode.
func (f *Flashcards) EditCurrent() (core.Flashcard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.learning {
		return core.Flashcard{}, fmt.Errorf("%w: not learning", core.ErrInvalidTransition)
	}
	card := f.deck[f.index]
	draft, original := card, card
	f.draft, f.original = &draft, &original
	f.learning = false
	f.flipped = false
	return card, nil
}

// UpdateDraft changes the draft text without approving it.
func (f *Flashcards) UpdateDraft(front, back string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return fmt.Errorf("%w: no draft", core.ErrInvalidTransition)
	}
	f.draft.Front, f.draft.Back = front, back
	return nil
}

// Draft returns the card being authored.
func (f *Flashcards) Draft() (core.Flashcard, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.draft == nil {
		return core.Flashcard{}, false
	}
	return *f.draft, true
}

// Approve stores draft in the deck and persists it. When editing, the card
// matching the original's natural key is replaced in place; otherwise draft
// is appended. The deck and the draft are kept as they were if the save fails.
func (f *Flashcards) Approve(ctx context.Context, draft core.Flashcard) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := append([]core.Flashcard{}, f.deck...)
	replaced := false
	if f.original != nil {
		want := f.original.Key()
		for i, c := range next {
			if c.Key() == want {
				next[i] = draft
				replaced = true
				break
			}
		}
	}
	if !replaced {
		next = append(next, draft)
	}

	if err := f.writer.Save(ctx, f.key, next); err != nil {
		return err
	}
	f.deck = next
	f.draft, f.original = nil, nil
	return nil
}

// Discard drops the draft without saving.
func (f *Flashcards) Discard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft, f.original = nil, nil
}

// Finish ends the authoring flow without saving.
func (f *Flashcards) Finish() {
	f.Discard()
}

// FlashcardsSnapshot is the display-facing view of a flashcard session.
type FlashcardsSnapshot struct {
	ID       string          `json:"id"`
	Key      string          `json:"key"`
	Size     int             `json:"size"`
	Learning bool            `json:"learning"`
	Index    int             `json:"index"`
	Flipped  bool            `json:"flipped"`
	Current  *core.Flashcard `json:"current,omitempty"`
	Draft    *core.Flashcard `json:"draft,omitempty"`
	Editing  bool            `json:"editing"`
	Pending  bool            `json:"pending"`
}

// Snapshot returns a copy of the session state.
func (f *Flashcards) Snapshot() FlashcardsSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := FlashcardsSnapshot{
		ID:       f.id,
		Key:      f.key,
		Size:     len(f.deck),
		Learning: f.learning,
		Index:    f.index,
		Flipped:  f.flipped,
		Editing:  f.original != nil,
		Pending:  f.pending,
	}
	if f.learning {
		current := f.deck[f.index]
		s.Current = &current
	}
	if f.draft != nil {
		draft := *f.draft
		s.Draft = &draft
	}
	return s
}

// State implements introspection.Introspectable.
func (f *Flashcards) State() any { return f.Snapshot() }

// ComponentType implements introspection.Component.
func (f *Flashcards) ComponentType() string { return "flashcard-session" }

var (
	_ introspection.Introspectable = (*Flashcards)(nil)
	_ introspection.Component      = (*Flashcards)(nil)
)
