package studykit_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/studykit"
	"github.com/aretw0/studykit/pkg/core"
	"github.com/aretw0/studykit/pkg/generate"
)

// Example_quiz generates a quiz from notes, stores it and takes it.
func Example_quiz() {
	tmpDir, err := os.MkdirTemp("", "studykit-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	// A canned generator stands in for the language model.
	gen := generate.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "Question 1: What do plants make in photosynthesis?\n" +
			"A) Glucose\nB) Salt\nCorrect Answer: A\n", nil
	})

	ws, err := studykit.Open(tmpDir, gen)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	key := core.ArtifactKey("biology", core.KindQuiz, "plants")

	// 1. Generate and persist
	if _, _, err := ws.GenerateQuiz(ctx, key, "Plants turn light into glucose.", generate.QuizOptions{}); err != nil {
		log.Fatal(err)
	}

	// 2. Take it
	quiz, err := ws.StartQuiz(ctx, key)
	if err != nil {
		log.Fatal(err)
	}
	correct, _ := quiz.Submit("Glucose")
	outcome, _ := quiz.Finish()

	fmt.Printf("correct=%v score=%d/%d\n", correct, outcome.Score, outcome.Total)
	// Output:
	// correct=true score=1/1
}

// ExampleOpenStore demonstrates the typed store on its own.
func ExampleOpenStore() {
	tmpDir, err := os.MkdirTemp("", "studykit-store-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	decks, err := studykit.OpenStore(tmpDir, func() []core.Flashcard { return []core.Flashcard{} })
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	key := core.ArtifactKey("biology", core.KindFlashcards, core.ApprovedDeck)
	if err := decks.Save(ctx, key, []core.Flashcard{{Front: "ATP", Back: "Energy currency of the cell"}}); err != nil {
		log.Fatal(err)
	}

	deck, err := decks.Load(ctx, key)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s: %s\n", deck[0].Front, deck[0].Back)
	// Output:
	// ATP: Energy currency of the cell
}
