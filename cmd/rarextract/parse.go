package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	rarextract "github.com/javi11/rarextract"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <archive.rar>",
		Short: "Print an archive's headers as JSON without extracting anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := rarextract.Parse(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			b, err := json.MarshalIndent(archive, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	return cmd
}
