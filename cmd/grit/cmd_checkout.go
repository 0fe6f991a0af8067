package main

import (
	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/repo"
)

func newCheckoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <commit-ish> <dir>",
		Short: "Write a committed tree into an empty directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}
			return r.Checkout(args[0], args[1])
		},
	}
}
