package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/studykit/pkg/core"
	"github.com/aretw0/studykit/pkg/session"
)

var (
	cardsFrom  string
	cardsCount int
	cardsDeck  string
)

var flashcardsCmd = &cobra.Command{
	Use:     "flashcards",
	Aliases: []string{"cards"},
	Short:   "Generate, study and author flashcard decks",
}

var flashcardsGenerateCmd = &cobra.Command{
	Use:   "generate [name]",
	Short: "Generate a deck about a notes file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := readSource(cardsFrom)
		if err != nil {
			fatal("Failed to read notes", err)
		}

		ws := openWorkspace()
		key := core.ArtifactKey(cfg.Project, core.KindFlashcards, args[0])
		cards, err := ws.GenerateFlashcards(cmd.Context(), key, source, cardsCount)
		if err != nil {
			fatal("Failed to generate flashcards", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d cards to %s\n", len(cards), key)
	},
}

var flashcardsStudyCmd = &cobra.Command{
	Use:   "study [name]",
	Short: "Flip through a deck",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := core.ApprovedDeck
		if len(args) == 1 {
			name = args[0]
		}

		ws := openWorkspace()
		deck := openDeck(cmd.Context(), ws, core.ArtifactKey(cfg.Project, core.KindFlashcards, name))
		if err := studyDeck(cmd.Context(), deck, newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())); err != nil {
			fatal("Study stopped", err)
		}
	},
}

var flashcardsAuthorCmd = &cobra.Command{
	Use:   "author",
	Short: "Generate cards one at a time and approve them into a deck",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		source, err := readSource(cardsFrom)
		if err != nil {
			fatal("Failed to read notes", err)
		}

		ws := openWorkspace()
		deck := openDeck(cmd.Context(), ws, core.ArtifactKey(cfg.Project, core.KindFlashcards, cardsDeck))
		src := ws.CardSource(source)
		if err := authorCards(cmd.Context(), deck, src, newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())); err != nil {
			fatal("Authoring stopped", err)
		}
	},
}

type deckOpener interface {
	OpenDeck(ctx context.Context, key string) (*session.Flashcards, error)
}

func openDeck(ctx context.Context, ws deckOpener, key string) *session.Flashcards {
	deck, err := ws.OpenDeck(ctx, key)
	switch {
	case errors.Is(err, core.ErrCorruptedStore):
		fmt.Printf("Warning: %v; starting with an empty deck\n", err)
	case err != nil:
		fatal("Failed to open deck", err)
	}
	return deck
}

// studyDeck runs the learning loop until the user quits or the deck empties.
func studyDeck(ctx context.Context, deck *session.Flashcards, p *prompter) error {
	if err := deck.StartLearning(); err != nil {
		return err
	}
	defer deck.FinishLearning()

	for {
		snap := deck.Snapshot()
		if !snap.Learning || snap.Current == nil {
			fmt.Fprintln(p.out, "The deck is empty.")
			return nil
		}
		side := snap.Current.Front
		if snap.Flipped {
			side = snap.Current.Back
		}
		fmt.Fprintf(p.out, "\n[%d/%d] %s\n", snap.Index+1, snap.Size, side)

		cmd, ok := p.ask("[f]lip [n]ext [p]revious [e]dit [d]elete [q]uit: ")
		if !ok || cmd == "q" {
			return nil
		}
		var err error
		switch cmd {
		case "f", "":
			err = deck.Flip()
		case "n":
			err = deck.Next()
		case "p":
			err = deck.Previous()
		case "d":
			err = deck.DeleteCurrent(ctx)
		case "e":
			var done bool
			if done, err = editCurrent(ctx, deck, p, snap.Index); done {
				return err
			}
		default:
			fmt.Fprintln(p.out, "Unknown command.")
		}
		if errors.Is(err, core.ErrInvalidTransition) {
			fmt.Fprintln(p.out, "Nothing there.")
		} else if err != nil {
			return err
		}
	}
}

// editCurrent replaces the studied card in place and resumes learning at
// index. A blank answer keeps that side. done is true when input ran out.
func editCurrent(ctx context.Context, deck *session.Flashcards, p *prompter, index int) (done bool, err error) {
	card, err := deck.EditCurrent()
	if err != nil {
		return false, err
	}
	front, ok := p.ask(fmt.Sprintf("Front [%s]: ", card.Front))
	if !ok {
		deck.Discard()
		return true, nil
	}
	back, ok := p.ask(fmt.Sprintf("Back [%s]: ", card.Back))
	if !ok {
		deck.Discard()
		return true, nil
	}
	if front == "" {
		front = card.Front
	}
	if back == "" {
		back = card.Back
	}

	if err := deck.UpdateDraft(front, back); err != nil {
		return true, err
	}
	draft, _ := deck.Draft()
	if err := deck.Approve(ctx, draft); err != nil {
		deck.Discard()
		return true, err
	}

	if err := deck.StartLearning(); err != nil {
		return true, err
	}
	for range index {
		if err := deck.Next(); err != nil {
			break
		}
	}
	return false, nil
}

// authorCards requests cards from src and lets the user approve, edit,
// regenerate or skip each draft.
func authorCards(ctx context.Context, deck *session.Flashcards, src session.CardSource, p *prompter) error {
	defer deck.Finish()

	for {
		if _, ok := deck.Draft(); !ok {
			fmt.Fprintln(p.out, "\nGenerating a card...")
			if _, err := deck.RequestCard(ctx, src); err != nil {
				return err
			}
		}
		draft, _ := deck.Draft()
		fmt.Fprintf(p.out, "Front: %s\nBack:  %s\n", draft.Front, draft.Back)

		cmd, ok := p.ask("[a]pprove [e]dit [r]egenerate [s]kip [q]uit: ")
		if !ok || cmd == "q" {
			fmt.Fprintf(p.out, "%d cards in the deck.\n", len(deck.Deck()))
			return nil
		}
		switch cmd {
		case "a":
			if err := deck.Approve(ctx, draft); err != nil {
				return err
			}
			fmt.Fprintln(p.out, "Approved.")
		case "e":
			front, ok := p.ask("Front: ")
			if !ok {
				return nil
			}
			back, ok := p.ask("Back: ")
			if !ok {
				return nil
			}
			if err := deck.UpdateDraft(front, back); err != nil {
				return err
			}
		case "r":
			if _, err := deck.Regenerate(ctx, src); err != nil {
				return err
			}
		case "s":
			deck.Discard()
		default:
			fmt.Fprintln(p.out, "Unknown command.")
		}
	}
}

func init() {
	rootCmd.AddCommand(flashcardsCmd)
	flashcardsCmd.AddCommand(flashcardsGenerateCmd, flashcardsStudyCmd, flashcardsAuthorCmd)

	for _, c := range []*cobra.Command{flashcardsGenerateCmd, flashcardsAuthorCmd} {
		c.Flags().StringVarP(&cardsFrom, "from", "f", "", "Notes file, or - for stdin")
	}
	flashcardsGenerateCmd.Flags().IntVarP(&cardsCount, "count", "n", 10, "Number of cards")
	flashcardsAuthorCmd.Flags().StringVar(&cardsDeck, "deck", core.ApprovedDeck, "Deck approved cards are saved to")
}
