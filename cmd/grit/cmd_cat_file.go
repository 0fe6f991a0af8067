package main

import (
	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/object"
	"github.com/gritvcs/grit/pkg/repo"
)

func newCatFileCmd() *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "cat-file [-t kind] <name>",
		Short: "Print an object's raw payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			// With a kind the resolver follows indirection until it lands on
			// an object of that kind; without one the name is taken as-is.
			var want object.Type
			follow := false
			if kindName != "" {
				want, err = object.ParseType(kindName)
				if err != nil {
					return err
				}
				follow = true
			}

			h, err := r.FindObject(args[0], want, follow)
			if err != nil {
				return err
			}
			_, payload, err := r.Store.Read(h)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(payload)
			return err
		},
	}

	cmd.Flags().StringVarP(&kindName, "type", "t", "", "required object kind, following tags and commits")

	return cmd
}
