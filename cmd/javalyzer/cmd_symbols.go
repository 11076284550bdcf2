package main

import (
	"github.com/dhamidi/javalyzer/format"
	"github.com/spf13/cobra"
)

func newSymbolsCmd(a *app) *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "symbols [file]",
		Short: "Print the symbol table of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd.Context(), a, &out, args, format.SectionSymbols)
		},
	}

	out.register(cmd)

	return cmd
}
