package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/object"
	"github.com/gritvcs/grit/pkg/repo"
)

func newBranchCmd() *cobra.Command {
	var deleteBranch string

	cmd := &cobra.Command{
		Use:   "branch [name] [start]",
		Short: "List, create, or delete branches",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if deleteBranch != "" {
				if err := r.DeleteBranch(deleteBranch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted branch '%s'\n", deleteBranch)
				return nil
			}

			if len(args) >= 1 {
				start := "HEAD"
				if len(args) == 2 {
					start = args[1]
				}
				target, err := r.FindObject(start, object.TypeCommit, true)
				if err != nil {
					return fmt.Errorf("cannot resolve %q: %w", start, err)
				}
				return r.CreateBranch(args[0], target)
			}

			branches, err := r.ListBranches()
			if err != nil {
				return err
			}
			current, _ := r.CurrentBranch()

			out := cmd.OutOrStdout()
			for _, b := range branches {
				if b.Name == current {
					fmt.Fprintf(out, "* %s\n", b.Name)
				} else {
					fmt.Fprintf(out, "  %s\n", b.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deleteBranch, "delete", "d", "", "delete the named branch")

	return cmd
}
