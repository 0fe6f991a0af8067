package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/repo"
)

func newCommitCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the staged index as a new commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.Commit(message)
			if err != nil {
				return err
			}

			branch, err := r.CurrentBranch()
			if err != nil || branch == "" {
				branch = "HEAD"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", branch, h.Short(), message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")

	return cmd
}
