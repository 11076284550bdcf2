package main

import (
	"github.com/dhamidi/javalyzer/format"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var out outputFlags
	var withTokens bool

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Scan and parse a source file, reporting errors and symbols",
		Long: `Run the scanner and parser over a source file.

Parsing is skipped when scanning reports errors, unless
analysis.parse_on_lexical_errors is set. Parsing stops after
analysis.max_errors syntax errors. The command exits with status 1
when any error was found.

Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sections := format.SectionDiagnostics | format.SectionSymbols
			if withTokens {
				sections |= format.SectionTokens
			}
			return runSingle(cmd.Context(), a, &out, args, sections)
		},
	}

	out.register(cmd)
	cmd.Flags().BoolVarP(&withTokens, "tokens", "t", false, "include the token stream")

	return cmd
}
