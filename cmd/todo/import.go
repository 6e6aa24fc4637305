package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"todo/internal/importer"
	"todo/internal/todotxt"
)

// importCmd implements 'todo import'.
func importCmd(c *cli) *cobra.Command {
	var (
		format string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "import --format <format> <file>",
		Short: "Import tasks from other apps",
		Long: `Import tasks from other productivity tools and append them to the todo
file.

Formats:
  todoist      Todoist CSV backup (Settings > Backups)
  taskwarrior  output of 'task export', JSON array or one object per line

Projects become +project, tags and labels become @context, due dates a
due: tag. Priorities are written in the active priority mode.`,
		Example: `  todo import --format todoist ~/Downloads/Todoist_backup.csv
  todo import --format taskwarrior --dry-run tasks.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			imp := importer.GetImporter(format)
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(importer.SupportedFormats(), ", "))
			}

			file, err := c.fs.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			opts := importer.Options{Today: c.now(), Mode: c.cfg.PriorityMode}

			if dryRun {
				previews, err := imp.Preview(file)
				if err != nil {
					return fmt.Errorf("parse %s: %w", args[0], err)
				}
				tasks := make([]todotxt.Task, len(previews))
				for i, p := range previews {
					tasks[i] = p.Task(opts)
					tasks[i].ID = i + 1
				}
				c.printOutput(c.formatter.FormatTaskList(tasks, fmt.Sprintf("Preview: %d task(s) to import from %s", len(tasks), imp.Name())))
				return nil
			}

			c.logger.Debug("Importing", "format", imp.Name(), "file", args[0], "into", c.paths.TodoFile)
			result, err := imp.Import(file, c.files, opts)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}

			c.printOutput(c.formatter.FormatSuccess(fmt.Sprintf("Imported %d task(s), skipped %d", result.Imported, result.Skipped)))
			for _, e := range result.Errors {
				c.printOutput(c.formatter.FormatWarning(e))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "source format: "+strings.Join(importer.SupportedFormats(), " or "))
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without changing the todo file")
	_ = cmd.MarkFlagRequired("format")
	return cmd
}
