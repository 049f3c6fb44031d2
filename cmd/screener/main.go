// Package main provides the screener CLI: it serves the web form and can rank
// resumes from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "AI resume screener",
	Long:  "Collects a job description and resumes, sends them to the ranking service and prints the ranked results.",
	// Usage is noise on ranking or validation failures.
	SilenceUsage: true,
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
