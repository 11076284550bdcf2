package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/javalyzer/format"
	"github.com/dhamidi/javalyzer/java/analysis"
	"github.com/spf13/cobra"
)

type outputFlags struct {
	format  string
	noColor bool
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format (text, json, yaml, line); defaults to output.format")
	cmd.Flags().BoolVar(&o.noColor, "no-color", false, "disable colored text output")
}

func (o *outputFlags) encoder(a *app, w io.Writer, sections format.Section) (format.Encoder, error) {
	name := o.format
	if name == "" {
		name = a.cfg.Output.Format
	}
	return format.New(name, w, format.Options{
		Sections: sections,
		Color:    a.cfg.Output.Color && !o.noColor,
	})
}

// readSource reads the named file, or standard input when no argument or
// "-" is given.
func readSource(args []string) (string, []byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", nil, fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", nil, fmt.Errorf("read file: %w", err)
	}
	return args[0], data, nil
}

// runSingle analyzes one source and writes the requested sections. It returns
// errIssues when the source has errors.
func runSingle(ctx context.Context, a *app, out *outputFlags, args []string, sections format.Section) error {
	path, data, err := readSource(args)
	if err != nil {
		return err
	}

	enc, err := out.encoder(a, os.Stdout, sections)
	if err != nil {
		return err
	}

	res, err := analysis.AnalyzeSource(ctx, path, data, a.cfg.Analysis)
	if err != nil {
		return err
	}

	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if !res.Clean() {
		return errIssues
	}
	return nil
}
