package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/studykit"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of studykit",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("studykit version %s\n", strings.TrimSpace(studykit.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
