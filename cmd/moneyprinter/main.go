package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "moneyprinter",
		Short:         "Generate short-form videos from a subject",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newGenerateCmd(),
		newTokenCmd(),
		newTermsCmd(),
		newCleanCmd(),
	)
	return root
}
