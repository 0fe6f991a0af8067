package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/repo"
)

func newShowRefCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-ref [prefix]",
		Short: "List references and the digests they resolve to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			refs, err := r.ListRefs(prefix)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ref := range refs {
				fmt.Fprintf(out, "%s %s\n", ref.Hash, ref.Name)
			}
			return nil
		},
	}
}
