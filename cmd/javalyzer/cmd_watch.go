package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dhamidi/javalyzer/format"
	"github.com/dhamidi/javalyzer/java/analysis"
	"github.com/dhamidi/javalyzer/java/codebase"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-analyze source files whenever they change",
		Long: `Poll a directory for added, modified and removed source files and
print a summary for every file that was re-analyzed. The poll interval
comes from watch.interval.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			if out.format == "" {
				out.format = "line"
			}

			enc, err := out.encoder(a, os.Stdout, format.SectionAll)
			if err != nil {
				return err
			}

			c := codebase.New(dir, a.cfg.Analysis)
			w := codebase.NewFileWatcher(c, a.cfg.Watch.Interval.Duration, func(path string, info *codebase.FileInfo) {
				if info == nil {
					fmt.Fprintf(os.Stdout, "removed\t%s\n", path)
					return
				}
				if err := enc.EncodeSummaries([]analysis.Summary{info.Summary()}); err != nil {
					fmt.Fprintln(os.Stderr, "Error:", err)
				}
			})
			w.SkipHidden(a.cfg.Watch.SkipHidden)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w.Start()
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}

	out.register(cmd)

	return cmd
}
