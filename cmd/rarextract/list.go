package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	rarextract "github.com/javi11/rarextract"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <archive.rar>",
		Short: "List an archive's members in a human-readable table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archive, err := rarextract.Parse(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tDIR\tENCRYPTED")
			for _, f := range archive.Files {
				fmt.Fprintf(w, "%s\t%d\t%t\t%t\n", f.Name, f.UnpackedSize, f.IsDirectory, f.Encrypted)
			}
			if archive.QuickOpen != nil {
				fmt.Fprintf(w, "%s\t%d\t%t\t%t\n", archive.QuickOpen.Name, archive.QuickOpen.UnpackedSize, false, archive.QuickOpen.Encrypted)
			}
			return w.Flush()
		},
	}
	return cmd
}
