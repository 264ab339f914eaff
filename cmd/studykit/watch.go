package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/studykit/pkg/adapters/lifecycle"
)

var watchCmd = &cobra.Command{
	Use:   "watch [pattern]",
	Short: "Print artifact changes until interrupted",
	Long:  `Print CREATE, MODIFY and DELETE events for artifacts whose key matches the glob pattern (default: every artifact).`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pattern := "**"
		if len(args) == 1 {
			pattern = args[0]
		}

		ctx := cmd.Context()
		ws := openWorkspace()
		events, err := ws.Watch(ctx, pattern)
		if err != nil {
			fatal("Failed to watch", err)
		}

		src := lifecycle.NewSource(events)
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start watcher", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl+C to stop)\n", pattern)
		for e := range src.Events() {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
