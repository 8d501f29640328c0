package main

import (
	"fmt"
	"os"
	"path/filepath"

	"video_ingest_service/pkg/contentkey"

	"github.com/spf13/cobra"
)

func newKeyCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "key <path>",
		Short: "Print the content key a file would be stored under",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			key, size, err := contentkey.FromReader(prefix, f, filepath.Base(args[0]))
			if err != nil {
				return fmt.Errorf("hash file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d bytes\n", key.String(), size)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix, e.g. uploads/")
	return cmd
}
