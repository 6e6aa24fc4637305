package ui

import (
	"strings"

	"todo/internal/priority"
	"todo/internal/taskstore"
	"todo/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
)

// runCommand executes a line typed after ":".
func (a *App) runCommand(line string) tea.Cmd {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	a.statsPane.Record(":" + strings.Join(fields, " "))
	name, args := fields[0], fields[1:]

	switch name {
	case "q", "quit":
		return a.quit()

	case "w", "write":
		return a.persist("write")

	case "wq", "x":
		gen := a.saver.reserve()
		a.quitGen = gen
		return saveTasksCmd(a.saver, gen, a.store.Tasks(), "write")

	case "set":
		if len(args) == 0 {
			a.openSettings()
			return nil
		}
		return a.setOption(strings.Join(args, " "))

	case "help":
		a.showHelp = true
		return nil

	case "undo":
		return a.undo()

	case "sort":
		if len(args) == 0 {
			a.SetStatus("Sort: "+string(a.store.SortMode()), false)
			return nil
		}
		mode, err := taskstore.ParseSortMode(args[0])
		if err != nil {
			a.SetStatus(err.Error(), true)
			return nil
		}
		a.store.SetSortMode(mode)
		a.taskPane.Sync()
		a.SetStatus("Sort: "+string(mode), false)
		return nil

	case "filter":
		if len(args) == 0 {
			a.SetStatus("Usage: filter +project|@context|(A)|due|done-today|active", true)
			return nil
		}
		f, err := taskstore.ParseFilter(args[0])
		if err != nil {
			a.SetStatus(err.Error(), true)
			return nil
		}
		a.store.SetFilter(&f)
		a.taskPane.Sync()
		a.SetStatus("Filter: "+f.Label(), false)
		return nil

	case "nofilter", "clear":
		a.store.ClearFilters()
		a.taskPane.Sync()
		a.SetStatus("Filters cleared", false)
		return nil

	case "theme":
		if len(args) == 0 {
			return a.setTheme(theme.Next(a.cfg.Theme).Key)
		}
		return a.setOption("theme=" + args[0])
	}

	a.SetStatus("Unknown command: "+name, true)
	return nil
}

// setOption applies "key=value" (or "key value") from :set.
func (a *App) setOption(arg string) tea.Cmd {
	k, v, ok := strings.Cut(arg, "=")
	if !ok {
		k, v, _ = strings.Cut(arg, " ")
	}
	k = strings.TrimSpace(k)
	v = strings.TrimSpace(v)

	switch strings.ToLower(k) {
	case "priority", "prioritymode":
		mode, err := priority.ParseMode(v)
		if err != nil {
			a.SetStatus(err.Error(), true)
			return nil
		}
		if mode == a.store.PriorityMode() {
			return nil
		}
		return a.setPriorityMode(mode, false)

	case "theme":
		if !theme.Exists(v) {
			a.SetStatus("Unknown theme: "+v+" (available: "+strings.Join(theme.Names(), ", ")+")", true)
			return nil
		}
		return a.setTheme(v)
	}

	a.SetStatus("Unknown setting: "+k, true)
	return nil
}
