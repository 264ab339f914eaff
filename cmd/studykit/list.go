package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/studykit/pkg/core"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list [kind]",
	Short: "List the project's quizzes, flashcard decks and mind maps",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		kinds := []core.Kind{core.KindQuiz, core.KindFlashcards, core.KindMindMap}
		if len(args) == 1 {
			kind, err := parseKind(args[0])
			if err != nil {
				fatal("Invalid kind", err)
			}
			kinds = []core.Kind{kind}
		}

		ws := openWorkspace()
		listing := make(map[core.Kind][]string, len(kinds))
		for _, kind := range kinds {
			names, err := ws.List(cmd.Context(), cfg.Project, kind)
			if err != nil {
				fatal("Error listing artifacts", err)
			}
			listing[kind] = names
		}

		out := cmd.OutOrStdout()
		if listJSON {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(listing); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}
		for _, kind := range kinds {
			fmt.Fprintf(out, "%s:\n", kind)
			for _, name := range listing[kind] {
				fmt.Fprintf(out, "  %s\n", name)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
