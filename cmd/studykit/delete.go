package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/studykit/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [kind] [name]",
	Short: "Delete a stored artifact",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := parseKind(args[0])
		if err != nil {
			fatal("Invalid kind", err)
		}

		ws := openWorkspace()
		key := core.ArtifactKey(cfg.Project, kind, args[1])
		if err := ws.Delete(cmd.Context(), key); err != nil {
			fatal("Failed to delete artifact", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", key)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
