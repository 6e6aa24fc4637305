package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"todo/internal/fsutil"
	"todo/internal/reports"
	"todo/internal/todotxt"
)

// reportCmd implements 'todo report'.
func reportCmd(c *cli) *cobra.Command {
	var (
		weekly bool
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "report [date]",
		Short: "Generate a daily or weekly report",
		Long: `Generate a report of the task list. Daily reports summarize the state on
DATE (default today) with the tasks completed, added and due that day.
Weekly reports count completions and additions for the Sunday-based week
containing DATE.`,
		Example: `  todo report
  todo report 2025-01-10 --format json
  todo report --weekly --output weekly.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if format == "" {
				format = "md"
				if c.jsonOutput() {
					format = "json"
				}
			}
			if format == "markdown" {
				format = "md"
			}
			if validate.Var(format, "oneof=md json") != nil {
				return fmt.Errorf("invalid format %q (want md or json)", format)
			}

			day := c.now()
			if len(args) > 0 {
				parsed, err := time.ParseInLocation(todotxt.DateLayout, args[0], time.Local)
				if err != nil {
					return fmt.Errorf("invalid date %q, use YYYY-MM-DD", args[0])
				}
				day = parsed
			}

			gen := reports.NewGenerator(c.files, c.cfg.PriorityMode)
			gen.SetNowFunc(c.now)

			text, err := renderReport(gen, day, weekly, format)
			if err != nil {
				return err
			}

			if output == "" {
				c.printOutput(text)
				return nil
			}
			if err := c.fs.MkdirAll(filepath.Dir(output), 0700); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := fsutil.WriteFileAtomic(c.fs, output, []byte(text), 0600); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			c.printOutput(c.formatter.FormatSuccess("Report written to " + output))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&weekly, "weekly", "w", false, "weekly instead of daily report")
	cmd.Flags().StringVar(&format, "format", "", "md or json (default md, json with --json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func renderReport(gen *reports.Generator, day time.Time, weekly bool, format string) (string, error) {
	if weekly {
		report, err := gen.GenerateWeekly(day)
		if err != nil {
			return "", fmt.Errorf("generate weekly report: %w", err)
		}
		if format == "json" {
			return reports.FormatJSON(report)
		}
		return reports.FormatWeeklyMarkdown(report), nil
	}

	report, err := gen.GenerateDaily(day)
	if err != nil {
		return "", fmt.Errorf("generate daily report: %w", err)
	}
	if format == "json" {
		return reports.FormatJSON(report)
	}
	return reports.FormatDailyMarkdown(report), nil
}
