package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	dirFlag     string
	adapterFlag string
	projectFlag string
	readOnly    bool

	cfg Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "studykit",
	Short: "Turn study notes into quizzes, flashcards and mind maps",
	Long: `studykit asks a language model for study material about your notes,
keeps what parses cleanly and stores it as JSON next to them.
Quizzes can be taken, flashcards studied and authored, mind maps explored.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		wd, err := os.Getwd()
		if err != nil {
			fatal("Failed to get CWD", err)
		}
		loaded, err := loadConfig(wd, configPath)
		if err != nil {
			fatal("Failed to load config", err)
		}
		cfg = loaded.override(cmd)
		slog.Debug("configuration loaded", "adapter", cfg.Adapter, "uri", cfg.URI, "project", cfg.Project)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: studykit.yaml found above the working directory)")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "Workspace location: directory, redis address or SQL DSN")
	rootCmd.PersistentFlags().StringVar(&adapterFlag, "adapter", "", "Storage adapter (fs, redis, sql)")
	rootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project the artifacts belong to")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Refuse every write")
}
