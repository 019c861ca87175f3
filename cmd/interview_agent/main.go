// Package main provides the entry point for the Interview Pilot CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "Interview Pilot pipeline runner",
	Long:  "Interview Pilot turns a job description and a resume into a scored mock interview: it analyzes both documents, generates targeted questions, evaluates the answers, and can derive post-hire insights from a completed run.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
