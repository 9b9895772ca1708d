package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	rarextract "github.com/javi11/rarextract"
)

func newExtractCmd() *cobra.Command {
	var destination string
	var password string
	var member string

	cmd := &cobra.Command{
		Use:   "extract <archive.rar>",
		Short: "Extract an archive's members to a destination directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			var archive *rarextract.Archive
			var err error
			if member != "" {
				archive, err = rarextract.ExtractOne(context.Background(), path, destination, member, password)
			} else {
				archive, err = rarextract.ExtractAll(context.Background(), path, destination, password)
			}
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}

			extracted := len(archive.Files)
			if member != "" {
				extracted = 0
				for _, f := range archive.Files {
					if f.Name == member && !f.IsDirectory {
						extracted++
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted %d member(s) from %s to %s\n", extracted, path, destination)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destination, "destination", "d", ".", "directory to extract into")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for encrypted members")
	cmd.Flags().StringVarP(&member, "member", "m", "", "extract only the member with this name")

	return cmd
}
