package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gritvcs/grit/pkg/object"
	"github.com/gritvcs/grit/pkg/repo"
)

func newLogCmd() *cobra.Command {
	var oneline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log [commit]",
		Short: "Show commit history, following first parents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := repo.Open(".")
			if err != nil {
				return err
			}

			start := "HEAD"
			if len(args) == 1 {
				start = args[0]
			}
			startHash, err := r.FindObject(start, object.TypeCommit, true)
			if err != nil {
				return fmt.Errorf("cannot resolve %q: %w", start, err)
			}

			entries, err := r.Log(startHash, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no commits yet")
				return nil
			}

			headHash, _ := r.ResolveRef("HEAD")
			branch, _ := r.CurrentBranch()

			out := cmd.OutOrStdout()
			for _, entry := range entries {
				decoration := buildDecoration(entry.Hash, headHash, branch)

				if oneline {
					if decoration != "" {
						fmt.Fprintf(out, "%s %s %s\n", entry.Hash.Short(), decoration, entry.Commit.Subject())
					} else {
						fmt.Fprintf(out, "%s %s\n", entry.Hash.Short(), entry.Commit.Subject())
					}
					continue
				}

				if decoration != "" {
					fmt.Fprintf(out, "commit %s %s\n", entry.Hash, decoration)
				} else {
					fmt.Fprintf(out, "commit %s\n", entry.Hash)
				}
				who, when, err := object.ParseIdent(entry.Commit.Author())
				if err == nil {
					fmt.Fprintf(out, "Author: %s\n", who)
					fmt.Fprintf(out, "Date:   %s\n", when.Format("Mon Jan 2 15:04:05 2006 -0700"))
				} else {
					fmt.Fprintf(out, "Author: %s\n", entry.Commit.Author())
				}
				fmt.Fprintln(out)
				for _, line := range strings.Split(strings.TrimRight(entry.Commit.Message(), "\n"), "\n") {
					fmt.Fprintf(out, "    %s\n", line)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "compact one-line format")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of commits to show")

	return cmd
}

// buildDecoration returns "(HEAD -> branch)" when the commit is the current
// HEAD, "(HEAD)" when detached, and "" otherwise.
func buildDecoration(commitHash, headHash object.Hash, branch string) string {
	if commitHash != headHash {
		return ""
	}
	if branch != "" {
		return "(HEAD -> " + branch + ")"
	}
	return "(HEAD)"
}
