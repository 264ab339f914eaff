package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askFrom string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question about a notes file",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		notes, err := readSource(askFrom)
		if err != nil {
			fatal("Failed to read notes", err)
		}

		ws := openWorkspace()
		answer, err := ws.Ask(cmd.Context(), notes, strings.Join(args, " "))
		if err != nil {
			fatal("Failed to answer", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(answer))
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askFrom, "from", "f", "", "Notes file, or - for stdin")
}
