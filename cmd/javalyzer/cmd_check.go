package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dhamidi/javalyzer/java/analysis"
	"github.com/dhamidi/javalyzer/java/jobs"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Analyze directories, files and zip or jar archives",
		Long: `Analyze every source file below the given paths and print one summary
line per file. Directories are walked recursively; .zip and .jar archives
are read entry by entry, including jars nested one level deep.

The command exits with status 1 when any file has errors or could not
be analyzed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := out.encoder(a, os.Stdout, 0)
			if err != nil {
				return err
			}

			queue := jobs.New(a.cfg.Analysis, len(args))
			defer queue.Close()

			var ids []string
			for _, arg := range args {
				req, err := checkRequest(arg)
				if err != nil {
					return err
				}
				id, err := queue.Submit(req)
				if err != nil {
					return fmt.Errorf("queue %s: %w", arg, err)
				}
				ids = append(ids, id)
			}

			var summaries []analysis.Summary
			for i, id := range ids {
				job, err := queue.Wait(cmd.Context(), id)
				if err != nil {
					return err
				}
				if job.Status == jobs.StatusFailed {
					summaries = append(summaries, analysis.FailedSummary(args[i], fmt.Errorf("%s", job.Error)))
					continue
				}
				summaries = append(summaries, job.Summaries...)
			}

			if err := enc.EncodeSummaries(summaries); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if analysis.Totals(summaries).Status != analysis.StatusClean {
				return errIssues
			}
			return nil
		},
	}

	out.register(cmd)

	return cmd
}

func checkRequest(path string) (jobs.Request, error) {
	info, err := os.Stat(path)
	if err != nil {
		return jobs.Request{}, err
	}
	switch {
	case info.IsDir():
		return jobs.Request{Path: path}, nil
	case filepath.Ext(path) == ".zip" || filepath.Ext(path) == ".jar":
		return jobs.Request{Archive: path}, nil
	}
	return jobs.Request{Files: []string{path}}, nil
}
