package main

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"todo/internal/backup"
)

// backupDirName is the directory beside the config file holding snapshots.
const backupDirName = "backups"

func (c *cli) backupManager() *backup.Manager {
	m := backup.NewManager(c.fs, c.paths.TodoFile, filepath.Join(c.paths.Dir(), backupDirName), version)
	m.SetNowFunc(c.now)
	return m
}

// backupCmd implements the 'todo backup' command group. Without a
// subcommand it creates a backup.
func backupCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and manage backups of the todo file",
		Long: `Snapshots of the todo file are stored beside the config file, under
backups/, each with a manifest recording when and from where it was taken.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.createBackup()
		},
	}

	cmd.AddCommand(
		backupCreateCmd(c),
		backupListCmd(c),
		backupRestoreCmd(c),
		backupPruneCmd(c),
	)
	return cmd
}

// backupCreateCmd implements 'todo backup create'.
func backupCreateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Snapshot the todo file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.createBackup()
		},
	}
}

func (c *cli) createBackup() error {
	manager := c.backupManager()
	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	info, err := manager.Get(name)
	if err != nil {
		return fmt.Errorf("read backup info: %w", err)
	}
	c.logger.Debug("Backup created", "name", name, "path", info.Path)

	c.printOutput(c.formatter.FormatSuccess(fmt.Sprintf("Backup created: %s (tasks: %d, active: %d, completed: %d)",
		name, info.Stats.Tasks, info.Stats.Active, info.Stats.Completed)))
	return nil
}

// backupListCmd implements 'todo backup list'.
func backupListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available backups, newest first",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			backups, err := c.backupManager().List()
			if err != nil {
				return fmt.Errorf("list backups: %w", err)
			}
			if len(backups) == 0 {
				c.printOutput(c.formatter.FormatMessage("No backups available. Run 'todo backup' to create one."))
				return nil
			}

			var sb strings.Builder
			sb.WriteString("Available backups:\n")
			for _, b := range backups {
				fmt.Fprintf(&sb, "  %s  (%s)   Tasks: %d, Active: %d\n",
					b.Name, formatAge(c.now().Sub(b.CreatedAt)), b.Stats.Tasks, b.Stats.Active)
			}
			c.printOutput(c.formatter.FormatMessage(strings.TrimSuffix(sb.String(), "\n")))
			return nil
		},
	}
}

// backupRestoreCmd implements 'todo backup restore'.
func backupRestoreCmd(c *cli) *cobra.Command {
	var latest, force bool
	cmd := &cobra.Command{
		Use:   "restore [name]",
		Short: "Replace the todo file with a backup",
		Long: `Replace the todo file with a backup. A safety backup of the current
file is taken first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			manager := c.backupManager()

			var (
				info *backup.Info
				err  error
			)
			switch {
			case latest:
				info, err = manager.Latest()
			case len(args) == 1:
				info, err = manager.Get(args[0])
			default:
				return fmt.Errorf("no backup specified; use 'todo backup restore NAME' or --latest")
			}
			if err != nil {
				return err
			}
			name := info.Name

			if !force {
				ok, err := c.confirm(fmt.Sprintf("Restore %s (%d tasks, taken %s)? This overwrites %s. [y/N] ",
					info.Name, info.Stats.Tasks, info.CreatedAt.Format("2006-01-02 15:04:05"), c.paths.TodoFile))
				if err != nil {
					return err
				}
				if !ok {
					c.printOutput(c.formatter.FormatMessage("Restore cancelled."))
					return nil
				}
			}

			safety, err := manager.Restore(name)
			if err != nil {
				return err
			}
			c.printOutput(c.formatter.FormatSuccess(fmt.Sprintf("Restored %s (safety backup: %s)", name, safety)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the most recent backup")
	cmd.Flags().BoolVar(&force, "force", false, "skip the confirmation prompt")
	return cmd
}

// backupPruneCmd implements 'todo backup prune'.
func backupPruneCmd(c *cli) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent backups",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if validate.Var(keep, "gte=0") != nil {
				return fmt.Errorf("--keep must not be negative")
			}
			deleted, err := c.backupManager().Prune(keep)
			if err != nil {
				return fmt.Errorf("prune backups: %w", err)
			}
			c.printOutput(c.formatter.FormatSuccess(fmt.Sprintf("Deleted %d backup(s), kept %d", deleted, keep)))
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 10, "number of backups to keep")
	return cmd
}

// confirm asks a yes/no question on the input stream.
func (c *cli) confirm(question string) (bool, error) {
	_, _ = fmt.Fprint(c.errOut, question)
	answer, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && answer == "" {
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

// formatAge returns a human-readable age string.
func formatAge(d time.Duration) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	}
	return plural(int(d.Hours()/24/7), "week")
}
