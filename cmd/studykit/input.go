package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/studykit/pkg/core"
)

// readSource returns the notes in path, or stdin for "-".
func readSource(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("--from is required")
	}
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// parseKind accepts singular and plural artifact kind names.
func parseKind(s string) (core.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiz", "quizzes":
		return core.KindQuiz, nil
	case "flashcard", "flashcards", "cards", "deck":
		return core.KindFlashcards, nil
	case "mindmap", "mindmaps", "map":
		return core.KindMindMap, nil
	}
	return "", fmt.Errorf("unknown artifact kind %q (quizzes, flashcards, mindmaps)", s)
}

// prompter reads one trimmed answer per line.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// ask prints label and returns the next line. ok is false at end of input.
func (p *prompter) ask(label string) (string, bool) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	return strings.TrimSpace(p.in.Text()), true
}

// letter asks until the answer is one of the first n option letters.
func (p *prompter) letter(n int) (int, bool) {
	for {
		answer, ok := p.ask(fmt.Sprintf("Your answer (A-%c): ", 'A'+n-1))
		if !ok {
			return 0, false
		}
		if len(answer) == 1 {
			idx := int(strings.ToUpper(answer)[0] - 'A')
			if idx >= 0 && idx < n {
				return idx, true
			}
		}
		fmt.Fprintln(p.out, "Please pick one of the listed letters.")
	}
}
