package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/object"
	"github.com/gritvcs/grit/pkg/repo"
)

func newRevParseCmd() *cobra.Command {
	var kindName string

	cmd := &cobra.Command{
		Use:   "rev-parse [-t kind] <name>",
		Short: "Resolve a name to a full digest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

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

			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindName, "type", "t", "", "required object kind, following tags and commits")

	return cmd
}
