// Package main provides the entry point for the Resume Parser HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_parser",
	Short: "AI-powered resume parsing API server",
	Long:  "Resume Parser extracts structured data from PDF, DOCX, TXT and image resumes using LLM extraction with a regex fallback, and exposes REST endpoints for parsing, job matching and analytics.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
