// Package main implements the careerplus CLI for resume optimization.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "careerplus",
	Short: "Career+ resume optimization backend",
	Long:  "Career+ analyzes, rewrites, localizes, and exports resumes tailored to job postings via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
