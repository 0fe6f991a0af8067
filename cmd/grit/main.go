package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	if os.Getenv("GRIT_DEBUG") == "1" {
		log.SetLevel(log.DebugLevel)
	}
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: "15:04:05.000",
	})
}

func main() {
	root := &cobra.Command{
		Use:   "grit",
		Short: "Content-addressable object store and working-tree sync",
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newLogCmd())
	root.AddCommand(newHashObjectCmd())
	root.AddCommand(newCatFileCmd())
	root.AddCommand(newLsTreeCmd())
	root.AddCommand(newCheckoutCmd())
	root.AddCommand(newShowRefCmd())
	root.AddCommand(newTagCmd())
	root.AddCommand(newBranchCmd())
	root.AddCommand(newRevParseCmd())
	root.AddCommand(newCheckIgnoreCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "grit 0.1.0-dev")
		},
	}
}
