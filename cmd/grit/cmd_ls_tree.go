package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/object"
	"github.com/gritvcs/grit/pkg/repo"
)

func newLsTreeCmd() *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "ls-tree [-r] <tree-ish>",
		Short: "List the contents of a tree object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			h, err := r.FindObject(args[0], object.TypeTree, true)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if recursive {
				entries, err := r.FlattenTree(h)
				if err != nil {
					return err
				}
				for _, e := range entries {
					kind, err := object.KindForMode(e.Mode)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s %s %s\t%s\n", e.Mode, kind, e.Hash, e.Path)
				}
				return nil
			}

			tree, err := r.Store.ReadTree(h)
			if err != nil {
				return err
			}
			for _, e := range tree.Entries {
				kind, err := object.KindForMode(e.Mode)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s %s\t%s\n", e.Mode, kind, e.Hash, e.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "descend into subtrees, listing files only")

	return cmd
}
