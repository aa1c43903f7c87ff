package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "desk-service",
	Short: "Customer desk API: support tickets, live chat, reviews, inbox (TechFix)",
	RunE:  runAPI,
}

func Execute() error {
	return rootCmd.Execute()
}
