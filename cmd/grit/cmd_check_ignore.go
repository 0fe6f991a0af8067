package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/repo"
)

func newCheckIgnoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-ignore <path>...",
		Short: "Print which of the given paths the ignore rules exclude",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			excluded, err := r.CheckIgnore(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range excluded {
				fmt.Fprintln(out, path)
			}
			return nil
		},
	}
}
