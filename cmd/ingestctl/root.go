package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ingestctl",
		Short:         "Operator CLI for the video ingest service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newKeyCommand())
	rootCmd.AddCommand(newUploadCommand())

	return rootCmd
}
