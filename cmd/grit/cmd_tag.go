package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/repo"
)

func newTagCmd() *cobra.Command {
	var annotate bool
	var message string
	var deleteTag string
	var force bool
	var showHash bool
	var signKey string

	cmd := &cobra.Command{
		Use:   "tag [name] [target]",
		Short: "List, create, or delete tags",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			if strings.TrimSpace(deleteTag) != "" {
				if len(args) > 0 {
					return fmt.Errorf("tag --delete does not accept positional args")
				}
				return r.DeleteTag(deleteTag)
			}

			if len(args) == 0 {
				tags, err := r.ListTags()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, tag := range tags {
					if showHash {
						fmt.Fprintf(out, "%s %s\n", tag.Hash, tag.Name)
					} else {
						fmt.Fprintln(out, tag.Name)
					}
				}
				return nil
			}

			name := args[0]
			targetName := "HEAD"
			if len(args) == 2 {
				targetName = args[1]
			}
			target, err := r.FindObject(targetName, "", false)
			if err != nil {
				return fmt.Errorf("cannot resolve %q: %w", targetName, err)
			}

			if cmd.Flags().Changed("sign") {
				annotate = true
				keyArg := signKey
				if keyArg == "auto" { // bare --sign
					keyArg = ""
				}
				signer, keyPath, err := newSSHTagSigner(keyArg)
				if err != nil {
					return err
				}
				r.Signer = signer
				fmt.Fprintf(cmd.OutOrStdout(), "signing with %s\n", keyPath)
			}

			if annotate {
				tagHash, err := r.CreateAnnotatedTag(name, target, message, force)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tagHash, name)
				return nil
			}

			if message != "" {
				return fmt.Errorf("-m requires an annotated tag (-a)")
			}
			return r.CreateTag(name, target, force)
		},
	}

	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "store an annotation object, not just a ref")
	cmd.Flags().StringVarP(&message, "message", "m", "", "annotation message")
	cmd.Flags().StringVarP(&deleteTag, "delete", "d", "", "delete the named tag")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "replace an existing tag")
	cmd.Flags().BoolVar(&showHash, "show-hash", false, "show tag target digests when listing")
	cmd.Flags().StringVar(&signKey, "sign", "", "sign the annotation with an SSH key (default: first key in ~/.ssh)")
	cmd.Flags().Lookup("sign").NoOptDefVal = "auto"

	return cmd
}
