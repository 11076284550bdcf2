package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/javalyzer/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var version = "0.1.0"

// errIssues makes the process exit with status 1 after the analysis output
// has already been written.
var errIssues = errors.New("analysis reported errors")

type app struct {
	configPath string
	verbose    int
	cfg        *config.Config
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "javalyzer",
		Short:             "Scan, parse and inspect a subset of Java",
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default $"+config.EnvVar+" or ./"+config.FileName+")")
	rootCmd.PersistentFlags().CountVarP(&a.verbose, "verbose", "v", "increase log verbosity")

	rootCmd.AddCommand(newTokensCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newSymbolsCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))
	rootCmd.AddCommand(newServeCmd(a))

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errIssues) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var path *string
	if cfg.Log.Path != "" {
		path = &cfg.Log.Path
	}
	commonlog.Configure(cfg.Log.Verbosity+a.verbose, path)
	return nil
}
