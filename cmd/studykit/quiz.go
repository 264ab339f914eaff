package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/studykit/pkg/core"
	"github.com/aretw0/studykit/pkg/generate"
	"github.com/aretw0/studykit/pkg/parse"
	"github.com/aretw0/studykit/pkg/session"
)

var (
	quizFrom       string
	quizCount      int
	quizDifficulty string
	quizJSON       bool
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Generate, import and take multiple-choice quizzes",
}

var quizGenerateCmd = &cobra.Command{
	Use:   "generate [name]",
	Short: "Generate a quiz about a notes file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := readSource(quizFrom)
		if err != nil {
			fatal("Failed to read notes", err)
		}

		ws := openWorkspace()
		key := core.ArtifactKey(cfg.Project, core.KindQuiz, args[0])
		questions, report, err := ws.GenerateQuiz(cmd.Context(), key, source, generate.QuizOptions{
			Count:      quizCount,
			Difficulty: generate.Difficulty(quizDifficulty),
		})
		if err != nil {
			fatal("Failed to generate quiz", err)
		}
		printSaved(cmd.OutOrStdout(), key, len(questions), "questions", report)
	},
}

var quizImportCmd = &cobra.Command{
	Use:   "import [name]",
	Short: "Import quiz text in the Question/A)/Correct Answer format",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		text, err := readSource(quizFrom)
		if err != nil {
			fatal("Failed to read quiz", err)
		}

		ws := openWorkspace()
		key := core.ArtifactKey(cfg.Project, core.KindQuiz, args[0])
		questions, report, err := ws.ImportQuiz(cmd.Context(), key, text)
		if err != nil {
			fatal("Failed to import quiz", err)
		}
		printSaved(cmd.OutOrStdout(), key, len(questions), "questions", report)
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a stored quiz",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ws := openWorkspace()
		questions, err := ws.LoadQuiz(cmd.Context(), core.ArtifactKey(cfg.Project, core.KindQuiz, args[0]))
		if err != nil {
			fatal("Failed to load quiz", err)
		}

		out := cmd.OutOrStdout()
		if quizJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(questions); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}
		for i, q := range questions {
			fmt.Fprintf(out, "Question %d: %s\n", i+1, q.Question)
			for j, o := range q.Options {
				fmt.Fprintf(out, "%c) %s\n", 'A'+j, o)
			}
			fmt.Fprintf(out, "Correct Answer: %s\n\n", q.Answer)
		}
	},
}

var quizTakeCmd = &cobra.Command{
	Use:   "take [name]",
	Short: "Take a stored quiz interactively",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ws := openWorkspace()
		q, err := ws.StartQuiz(cmd.Context(), core.ArtifactKey(cfg.Project, core.KindQuiz, args[0]))
		if err != nil {
			fatal("Failed to start quiz", err)
		}

		outcome, err := takeQuiz(q, newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()))
		if err != nil {
			fatal("Quiz interrupted", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nScore: %d/%d (%.0f%%)\n", outcome.Score, outcome.Total, outcome.Ratio()*100)
	},
}

var errEndOfInput = errors.New("end of input")

// takeQuiz asks every question of a started quiz and returns the outcome.
func takeQuiz(q *session.Quiz, p *prompter) (session.Outcome, error) {
	for {
		question, ok := q.Current()
		if !ok {
			return session.Outcome{}, core.ErrNoQuestions
		}
		snap := q.Snapshot()
		fmt.Fprintf(p.out, "\n[%d/%d] %s\n", snap.Index+1, snap.Total, question.Question)
		for i, o := range question.Options {
			fmt.Fprintf(p.out, "  %c) %s\n", 'A'+i, o)
		}

		idx, ok := p.letter(len(question.Options))
		if !ok {
			return session.Outcome{}, errEndOfInput
		}
		correct, err := q.Submit(question.Options[idx])
		if err != nil {
			return session.Outcome{}, err
		}
		if correct {
			fmt.Fprintln(p.out, "Correct!")
		} else {
			fmt.Fprintf(p.out, "Wrong. The answer is: %s\n", question.Answer)
		}

		if err := q.Advance(); err != nil {
			break
		}
	}
	return q.Finish()
}

func printSaved(out io.Writer, key string, n int, noun string, report parse.Report) {
	fmt.Fprintf(out, "Saved %d %s to %s\n", n, noun, key)
	if report.Len() > 0 {
		fmt.Fprintf(os.Stderr, "Dropped %d invalid entries: %v\n", report.Len(), report.Err())
	}
}

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.AddCommand(quizGenerateCmd, quizImportCmd, quizShowCmd, quizTakeCmd)

	for _, c := range []*cobra.Command{quizGenerateCmd, quizImportCmd} {
		c.Flags().StringVarP(&quizFrom, "from", "f", "", "Notes file, or - for stdin")
	}
	quizGenerateCmd.Flags().IntVarP(&quizCount, "count", "n", generate.DefaultQuestions, "Number of questions (3-15)")
	quizGenerateCmd.Flags().StringVar(&quizDifficulty, "difficulty", string(generate.Medium), "Easy, Medium or Hard")
	quizShowCmd.Flags().BoolVar(&quizJSON, "json", false, "Output in JSON format")
}
