package main

import (
	"encoding/json"
	"log/slog"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/studykit"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of the configured store",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		repo, err := studykit.Init(cfg.URI, cfg.options(slog.Default())...)
		if err != nil {
			fatal("Failed to open store", err)
		}

		report := map[string]any{
			"project":   cfg.Project,
			"adapter":   cfg.Adapter,
			"generator": cfg.generator(slog.Default()) != nil,
		}
		if comp, ok := repo.(introspection.Component); ok {
			report["component"] = comp.ComponentType()
		}
		if intro, ok := repo.(introspection.Introspectable); ok {
			report["state"] = intro.State()
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			fatal("Error encoding JSON", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
