package main

import (
	"github.com/dhamidi/javalyzer/format"
	"github.com/spf13/cobra"
)

func newTokensCmd(a *app) *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the token stream of a source file",
		Long: `Scan a source file and print every token with its line and column,
followed by any lexical errors.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd.Context(), a, &out, args, format.SectionTokens|format.SectionDiagnostics)
		},
	}

	out.register(cmd)

	return cmd
}
