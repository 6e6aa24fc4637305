package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"todo/internal/priority"
	"todo/internal/storage"
	"todo/internal/taskstore"
	"todo/internal/todotxt"
)

var validate = validator.New()

var errEmptyTask = errors.New("task text cannot be empty")

// parseID reads a task id argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || validate.Var(id, "gte=1") != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// splitInput separates an optional leading "(X) " priority from the task
// text and checks both against the active mode.
func (c *cli) splitInput(input string) (string, string, error) {
	p, text := todotxt.SplitPriority(input)
	if validate.Var(text, "required") != nil {
		return "", "", errEmptyTask
	}
	if p == "" {
		return "", text, nil
	}
	p, err := priority.Validate(p, c.cfg.PriorityMode)
	if err != nil {
		return "", "", err
	}
	return p, text, nil
}

// reportTask confirms a change. JSON output carries the stored task.
func (c *cli) reportTask(msg string, t todotxt.Task) {
	if c.jsonOutput() {
		c.printOutput(c.formatter.FormatTask(t))
		return
	}
	c.printOutput(c.formatter.FormatSuccess(msg))
}

// addCmd implements 'todo add'.
func addCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Long: `Add a task to the todo file. A leading "(A) " sets the priority and
today's date is recorded as the creation date.`,
		Example: `  todo add "(A) Call mom @phone +Family due:2025-01-15"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, text, err := c.splitInput(strings.Join(args, " "))
			if err != nil {
				return err
			}

			task := todotxt.Task{Priority: p, CreationDate: c.today()}
			task.SetText(text)
			added, err := c.files.Add(task)
			if err != nil {
				return err
			}
			c.reportTask(fmt.Sprintf("Added task %d: %s", added.ID, todotxt.Serialize(added)), added)
			return nil
		},
	}
}

// listOptions are the filters accepted by 'todo list'.
type listOptions struct {
	all       bool
	search    string
	project   string
	context   string
	priority  string
	due       bool
	doneToday bool
	sort      string
}

// filters turns the filter flags into structured filters. Every filter must
// match.
func (o listOptions) filters() ([]taskstore.Filter, error) {
	var specs []string
	if o.project != "" {
		specs = append(specs, "+"+o.project)
	}
	if o.context != "" {
		specs = append(specs, "@"+o.context)
	}
	if o.priority != "" {
		specs = append(specs, o.priority)
	}
	if o.due {
		specs = append(specs, string(taskstore.FilterDue))
	}
	if o.doneToday {
		specs = append(specs, string(taskstore.FilterDoneToday))
	}

	filters := make([]taskstore.Filter, 0, len(specs))
	for _, spec := range specs {
		f, err := taskstore.ParseFilter(spec)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// title names the listing after its filters.
func (o listOptions) title(filters []taskstore.Filter) string {
	labels := make([]string, 0, len(filters)+1)
	for _, f := range filters {
		labels = append(labels, f.Label())
	}
	if o.search != "" {
		labels = append(labels, strconv.Quote(o.search))
	}
	switch {
	case len(labels) > 0:
		return "Tasks (" + strings.Join(labels, ", ") + ")"
	case o.all:
		return "All Tasks"
	}
	return "Active Tasks"
}

// selectTasks applies the list options to tasks. Completed tasks are hidden
// unless --all or --done-today is given.
func selectTasks(tasks []todotxt.Task, o listOptions, filters []taskstore.Filter, mode priority.Mode, today string) ([]todotxt.Task, error) {
	sortMode := taskstore.SortPriority
	if o.sort != "" {
		m, err := taskstore.ParseSortMode(o.sort)
		if err != nil {
			return nil, err
		}
		sortMode = m
	}

	q := taskstore.Query{
		ShowCompleted: o.all || o.doneToday,
		Search:        o.search,
		Sort:          sortMode,
		Mode:          mode,
		Today:         today,
	}
	out := taskstore.Derive(tasks, q)
	for i := range filters {
		out = taskstore.Derive(out, taskstore.Query{Filter: &filters[i], Sort: sortMode, Mode: mode, Today: today})
	}
	return out, nil
}

// listCmd implements 'todo list'.
func listCmd(c *cli) *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			filters, err := opts.filters()
			if err != nil {
				return err
			}
			tasks, err := c.files.Load()
			if err != nil {
				return err
			}
			selected, err := selectTasks(tasks, opts, filters, c.cfg.PriorityMode, c.today())
			if err != nil {
				return err
			}
			c.printOutput(c.formatter.FormatTaskList(selected, opts.title(filters)))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVarP(&opts.all, "all", "a", false, "include completed tasks")
	flags.StringVarP(&opts.search, "search", "s", "", "only tasks containing this text")
	flags.StringVarP(&opts.project, "project", "p", "", "only tasks with this +project")
	flags.StringVarP(&opts.context, "context", "C", "", "only tasks with this @context")
	flags.StringVar(&opts.priority, "priority", "", "only tasks with this priority")
	flags.BoolVar(&opts.due, "due", false, "only open tasks due today or earlier")
	flags.BoolVar(&opts.doneToday, "done-today", false, "only tasks completed today")
	flags.StringVar(&opts.sort, "sort", "", "sort by priority, date, project or context")
	return cmd
}

// doCmd implements 'todo do'.
func doCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "do <id>...",
		Short: "Mark tasks as completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				task, err := c.files.Get(id)
				if err != nil {
					return err
				}
				if task.Completed {
					c.printOutput(c.formatter.FormatWarning(fmt.Sprintf("Task %d is already completed", id)))
					continue
				}

				done, day := true, c.today()
				updated, err := c.files.Update(id, storage.Patch{Completed: &done, CompletionDate: &day})
				if err != nil {
					return err
				}
				c.reportTask(fmt.Sprintf("Completed task %d: %s", id, updated.Text), updated)
			}
			return nil
		},
	}
}

// priCmd implements 'todo pri'.
func priCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pri <id> <priority>",
		Short: "Set a task's priority",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := priority.Validate(args[1], c.cfg.PriorityMode)
			if err != nil {
				return err
			}
			updated, err := c.files.Update(id, storage.Patch{Priority: &p, Today: c.today()})
			if err != nil {
				return err
			}
			c.reportTask(fmt.Sprintf("Set priority (%s) for task %d: %s", p, id, updated.Text), updated)
			return nil
		},
	}
}

// depriCmd implements 'todo depri'.
func depriCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "depri <id>",
		Short: "Remove a task's priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := c.files.Get(id)
			if err != nil {
				return err
			}
			if task.Priority == "" {
				c.printOutput(c.formatter.FormatWarning(fmt.Sprintf("Task %d has no priority", id)))
				return nil
			}

			none := ""
			updated, err := c.files.Update(id, storage.Patch{Priority: &none})
			if err != nil {
				return err
			}
			c.reportTask(fmt.Sprintf("Removed priority from task %d: %s", id, updated.Text), updated)
			return nil
		},
	}
}

// editCmd implements 'todo edit'.
func editCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text>...",
		Short: "Replace a task's text",
		Long: `Replace a task's text. A leading "(A) " also sets the priority;
without one the current priority is kept.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, text, err := c.splitInput(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}

			patch := storage.Patch{Text: &text, Today: c.today()}
			if p != "" {
				patch.Priority = &p
			}
			updated, err := c.files.Update(id, patch)
			if err != nil {
				return err
			}
			c.reportTask(fmt.Sprintf("Updated task %d: %s", id, updated.Text), updated)
			return nil
		},
	}
}

// delCmd implements 'todo del'.
func delCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "del <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Long: `Delete a task. Tasks are numbered by line, so later tasks move up
by one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			task, err := c.files.Get(id)
			if err != nil {
				return err
			}
			if err := c.files.Delete(id); err != nil {
				return err
			}
			c.reportTask(fmt.Sprintf("Deleted task %d: %s", id, task.Text), task)
			return nil
		},
	}
}
