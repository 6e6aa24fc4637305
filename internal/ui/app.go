// Package ui provides the interactive terminal interface for todo.txt files.
// This file contains the main App model which coordinates all panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/priority"
	"todo/internal/storage"
	"todo/internal/taskstore"
	"todo/internal/todotxt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneTasks PaneID = iota
	PaneStats
	PaneTags
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows all three panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	ConfirmDeletions      bool
	NarrowLayoutThreshold int
}

// Options wires the App to its files. Files is required; everything else
// has a usable default.
type Options struct {
	Files      *storage.FileStore
	Fs         afero.Fs // for the config file; defaults to the task file's fs
	Config     *config.Config
	ConfigPath string
	Watcher    FileWatcher
	Logger     *log.Logger
	Now        func() time.Time
	App        *AppConfig
}

// App is the main application model that coordinates all panes.
type App struct {
	files      *storage.FileStore
	fs         afero.Fs
	cfg        config.Config
	configPath string
	watcher    FileWatcher
	saver      *serialSaver
	logger     *log.Logger
	now        func() time.Time

	store        *taskstore.Store
	styles       *Styles
	config       *AppConfig
	taskPane     *TaskPane
	statsPane    *StatsPane
	tagsPane     *TagsPane
	helpOverlay  *HelpOverlay
	settings     *SettingsOverlay
	prompt       *Prompt
	confirmDel   *confirmDeleteState
	clipboard    *todotxt.Task
	activePane   PaneID
	layoutMode   LayoutMode
	showHelp     bool
	showSettings bool
	width        int
	height       int
	status       string
	statusErr    bool
	statusUntil  time.Time
	quitting     bool

	// quitGen is the save generation that must land before quitting; zero
	// means no save-then-quit is pending.
	quitGen uint64

	// Key bindings
	keys        GlobalKeyMap
	helpKeys    HelpKeyMap
	confirmKeys ConfirmKeyMap
	inputKeys   InputKeyMap
	taskKeys    TaskKeyMap
	panelKeys   PanelKeyMap

	// Pane positions for mouse click detection (x coordinates)
	tasksPaneStart int
	tasksPaneEnd   int
	statsPaneStart int
	statsPaneEnd   int
	tagsPaneStart  int
	tagsPaneEnd    int
	contentTop     int // Y coordinate where content starts
}

type confirmDeleteState struct {
	title string
	body  string
	id    int
}

// NewApp creates a new application. Reading the todo file is deferred to
// Init() to keep the constructor non-blocking.
func NewApp(opts Options) *App {
	appCfg := opts.App
	if appCfg == nil {
		appCfg = &AppConfig{
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
		}
	}
	cfg := config.Default()
	if opts.Config != nil {
		cfg = opts.Config
	}
	fs := opts.Fs
	if fs == nil {
		fs = opts.Files.Fs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store := taskstore.New(taskstore.Options{Mode: cfg.PriorityMode, Now: now})
	styles := NewStyles(cfg.Theme)

	app := &App{
		files:       opts.Files,
		fs:          fs,
		cfg:         *cfg,
		configPath:  opts.ConfigPath,
		watcher:     opts.Watcher,
		saver:       newSerialSaver(opts.Files, opts.Watcher),
		logger:      logger,
		now:         now,
		store:       store,
		styles:      styles,
		config:      appCfg,
		taskPane:    NewTaskPane(store, styles),
		statsPane:   NewStatsPane(store, styles),
		tagsPane:    NewTagsPane(store, styles),
		helpOverlay: NewHelpOverlay(styles),
		settings:    NewSettingsOverlay(styles),
		prompt:      NewPrompt(styles),
		activePane:  PaneTasks,
		keys:        DefaultGlobalKeyMap(),
		helpKeys:    DefaultHelpKeyMap(),
		confirmKeys: DefaultConfirmKeyMap(),
		inputKeys:   DefaultInputKeyMap(),
		taskKeys:    DefaultTaskKeyMap(),
		panelKeys:   DefaultPanelKeyMap(),
	}
	app.setActivePane(PaneTasks)
	return app
}

// Store exposes the live task store.
func (a *App) Store() *taskstore.Store {
	return a.store
}

// Init loads the todo file and starts listening for external edits.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		loadTasksCmd(a.files),
		waitForChangeCmd(a.watcher),
	)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.err != nil {
			a.logger.Error("Failed to load tasks", "path", a.files.Path(), "err", msg.err)
			a.SetStatus("Load: "+msg.err.Error(), true)
			return a, nil
		}
		a.store.Load(msg.tasks)
		a.taskPane.Sync()
		a.logger.Debug("Loaded tasks", "path", a.files.Path(), "count", len(msg.tasks))
		return a, nil

	case tasksSavedMsg:
		if msg.err != nil {
			a.logger.Error("Failed to save tasks", "op", msg.op, "err", msg.err)
			a.SetStatus("Save failed: "+msg.err.Error(), true)
			a.quitGen = 0
			return a, nil
		}
		if msg.written {
			a.logger.Debug("Saved tasks", "op", msg.op, "gen", msg.gen)
		}
		if msg.op == "write" {
			a.SetStatus("Saved "+a.files.Path(), false)
		}
		if a.quitGen != 0 && msg.gen >= a.quitGen {
			a.quitting = true
			return a, tea.Quit
		}
		return a, nil

	case fileChangedMsg:
		if msg.change.Removed {
			a.logger.Warn("Todo file removed", "path", msg.change.Path)
			a.SetStatus("Todo file was removed; the next change recreates it", true)
		} else {
			lost := a.reloadTasks(todotxt.ParseFile(msg.change.Content))
			a.logger.Info("Reloaded tasks after external change", "path", msg.change.Path, "canceled", lost)
			if lost {
				a.SetStatus("Reloaded: the task you were changing was edited on disk", true)
			} else {
				a.SetStatus("Reloaded: file changed on disk", false)
			}
		}
		return a, waitForChangeCmd(a.watcher)

	case watcherStoppedMsg:
		return a, nil

	case configSavedMsg:
		if msg.err != nil {
			a.logger.Error("Failed to save config", "path", a.configPath, "err", msg.err)
			a.SetStatus("Settings not saved: "+msg.err.Error(), true)
		}
		return a, nil

	case toggleTaskMsg:
		return a, a.toggleTask(msg.id)

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && a.now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()
	}

	// Cursor blink and other input housekeeping.
	if a.prompt.Active() {
		return a, a.prompt.Update(msg)
	}
	return a, nil
}

// handleKey routes a key press to whichever layer owns the keyboard:
// prompt, confirmation, settings, help, then global keys, then the pane.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.prompt.Active() {
		return a.handlePromptKey(msg)
	}

	if a.confirmDel != nil {
		switch {
		case key.Matches(msg, a.confirmKeys.Yes):
			id := a.confirmDel.id
			a.confirmDel = nil
			return a.deleteTask(id)
		case key.Matches(msg, a.confirmKeys.No):
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return nil
	}

	if a.showSettings {
		return a.applySettings(a.settings.Update(msg))
	}

	// Help overlay takes priority
	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a.quit()

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil

	case key.Matches(msg, a.keys.NextPane):
		a.setActivePane((a.activePane + 1) % 3)
		return nil

	case key.Matches(msg, a.keys.PrevPane):
		a.setActivePane((a.activePane + 2) % 3)
		return nil

	case key.Matches(msg, a.keys.Undo):
		return a.undo()

	case key.Matches(msg, a.keys.Settings):
		a.openSettings()
		return nil

	case key.Matches(msg, a.keys.Command):
		return a.prompt.Open(promptCommand, "", 0)
	}

	switch a.activePane {
	case PaneTasks:
		return a.handleTaskKey(msg)
	case PaneStats:
		return a.handlePanelKey(msg, a.statsPane.Filter, a.statsPane.Update)
	case PaneTags:
		return a.handlePanelKey(msg, a.tagsPane.Filter, a.tagsPane.Update)
	}
	return nil
}

func (a *App) handlePanelKey(msg tea.KeyMsg, selected func() *taskstore.Filter, update func(tea.Msg) tea.Cmd) tea.Cmd {
	switch {
	case key.Matches(msg, a.panelKeys.Apply):
		a.toggleFilter(selected())
		return nil
	case key.Matches(msg, a.panelKeys.Clear):
		a.store.SetFilter(nil)
		a.taskPane.Sync()
		a.SetStatus("Filter cleared", false)
		return nil
	}
	return update(msg)
}

// toggleFilter applies f, or clears it when it is already active.
func (a *App) toggleFilter(f *taskstore.Filter) {
	if f == nil {
		return
	}
	if cur := a.store.ActiveFilter(); cur != nil && *cur == *f {
		a.store.SetFilter(nil)
		a.SetStatus("Filter cleared", false)
	} else {
		a.store.SetFilter(f)
		a.SetStatus("Filter: "+f.Label(), false)
	}
	a.taskPane.Sync()
}

func (a *App) handleTaskKey(msg tea.KeyMsg) tea.Cmd {
	task, hasTask := a.taskPane.Selected()

	switch {
	case key.Matches(msg, a.taskKeys.Add):
		return a.prompt.Open(promptAdd, "", 0)

	case key.Matches(msg, a.taskKeys.Edit):
		if !hasTask {
			return nil
		}
		return a.prompt.Open(promptEdit, editValue(task), task.ID)

	case key.Matches(msg, a.taskKeys.Toggle):
		if !hasTask {
			return nil
		}
		return a.toggleTask(task.ID)

	case key.Matches(msg, a.taskKeys.Delete):
		if !hasTask {
			a.SetStatus("No task selected", true)
			return nil
		}
		if a.config.ConfirmDeletions {
			a.confirmDel = &confirmDeleteState{
				title: "Delete task?",
				body:  truncateText(task.Text, 60),
				id:    task.ID,
			}
			return nil
		}
		return a.deleteTask(task.ID)

	case key.Matches(msg, a.taskKeys.Priority):
		if !hasTask {
			return nil
		}
		return a.prompt.Open(promptPriority, task.Priority, task.ID)

	case key.Matches(msg, a.taskKeys.ClearPriority):
		if !hasTask {
			return nil
		}
		return a.setPriority(task.ID, "")

	case key.Matches(msg, a.taskKeys.Search):
		return a.prompt.Open(promptSearch, a.store.Search(), 0)

	case key.Matches(msg, a.taskKeys.Sort):
		mode := a.store.CycleSortMode()
		a.taskPane.Sync()
		a.SetStatus("Sort: "+string(mode), false)
		return nil

	case key.Matches(msg, a.taskKeys.ShowCompleted):
		a.store.ToggleShowCompleted()
		a.taskPane.Sync()
		if a.store.ShowCompleted() {
			a.SetStatus("Showing completed tasks", false)
		} else {
			a.SetStatus("Hiding completed tasks", false)
		}
		return nil

	case key.Matches(msg, a.taskKeys.ClearFilters):
		a.store.ClearFilters()
		a.taskPane.Sync()
		a.SetStatus("Filters cleared", false)
		return nil

	case key.Matches(msg, a.taskKeys.Overdue):
		if a.taskPane.ToggleOverdue() {
			a.SetStatus("Highlighting overdue tasks", false)
		} else {
			a.SetStatus("Overdue highlighting off", false)
		}
		return nil

	case key.Matches(msg, a.taskKeys.Yank):
		if !hasTask {
			return nil
		}
		clip := task.Clone()
		a.clipboard = &clip
		a.SetStatus("Yanked: "+truncateText(task.Text, 40), false)
		return nil

	case key.Matches(msg, a.taskKeys.Paste):
		return a.pasteTask()
	}

	if p, ok := a.directPriority(msg); ok {
		if !hasTask {
			return nil
		}
		return a.setPriority(task.ID, p)
	}

	return a.taskPane.Update(msg)
}

// directPriority maps an upper-case letter (letter mode) or a digit (number
// mode) to a priority. G is left to navigation.
func (a *App) directPriority(msg tea.KeyMsg) (string, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 || msg.Alt {
		return "", false
	}
	r := msg.Runes[0]
	if a.store.PriorityMode() == priority.Number {
		return string(r), r >= '0' && r <= '9'
	}
	return string(r), r >= 'A' && r <= 'Z' && r != 'G'
}

func (a *App) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	mode := a.prompt.Mode()

	switch {
	case key.Matches(msg, a.inputKeys.Confirm):
		value := strings.TrimSpace(a.prompt.Value())
		id := a.prompt.TaskID()
		a.prompt.Close()
		return a.submitPrompt(mode, id, value)

	case key.Matches(msg, a.inputKeys.Cancel):
		a.prompt.Close()
		if mode == promptSearch {
			a.store.SetSearch("")
			a.taskPane.Sync()
		}
		return nil
	}

	cmd := a.prompt.Update(msg)
	if mode == promptSearch {
		a.store.SetSearch(a.prompt.Value())
		a.taskPane.Sync()
	}
	return cmd
}

func (a *App) submitPrompt(mode promptMode, id int, value string) tea.Cmd {
	switch mode {
	case promptAdd:
		if value == "" {
			return nil
		}
		return a.addTask(value)

	case promptEdit:
		if value == "" {
			a.SetStatus("Task cannot be empty", true)
			return nil
		}
		return a.editTask(id, value)

	case promptSearch:
		a.store.SetSearch(value)
		a.taskPane.Sync()
		if value != "" {
			a.SetStatus(fmt.Sprintf("Search: %s (%d matching)", value, len(a.store.View())), false)
		}
		return nil

	case promptPriority:
		if value == "" {
			return a.setPriority(id, "")
		}
		p, err := priority.Validate(value, a.store.PriorityMode())
		if err != nil {
			a.SetStatus(err.Error(), true)
			return nil
		}
		return a.setPriority(id, p)

	case promptCommand:
		return a.runCommand(value)
	}
	return nil
}

// =============================================================================
// Mutations
// =============================================================================

// reloadTasks replaces the list with tasks read from disk. Ids are line
// numbers, so a pending delete confirmation or edit/priority prompt is
// moved to the task with the same line. It is canceled when that line is
// gone, and reloadTasks reports true.
func (a *App) reloadTasks(tasks []todotxt.Task) bool {
	var delLine, promptLine string
	if a.confirmDel != nil {
		delLine = a.taskLine(a.confirmDel.id)
	}
	promptID := a.prompt.TaskID()
	if promptID != 0 {
		promptLine = a.taskLine(promptID)
	}

	a.store.Load(tasks)
	a.taskPane.Sync()

	lost := false
	if a.confirmDel != nil {
		if id, ok := a.findLine(delLine, a.confirmDel.id); ok {
			a.confirmDel.id = id
		} else {
			a.confirmDel = nil
			lost = true
		}
	}
	if promptID != 0 {
		if id, ok := a.findLine(promptLine, promptID); ok {
			a.prompt.SetTaskID(id)
		} else {
			a.prompt.Close()
			lost = true
		}
	}
	return lost
}

func (a *App) taskLine(id int) string {
	if t, ok := a.store.Get(id); ok {
		return todotxt.Serialize(t)
	}
	return ""
}

// findLine returns the id of a task serializing to line, preferring
// the one at prefer when duplicates exist.
func (a *App) findLine(line string, prefer int) (int, bool) {
	if line == "" {
		return 0, false
	}
	if a.taskLine(prefer) == line {
		return prefer, true
	}
	for _, t := range a.store.Tasks() {
		if todotxt.Serialize(t) == line {
			return t.ID, true
		}
	}
	return 0, false
}

// quit exits once every reserved save has landed. With a save still in
// flight it waits for that generation instead; asking again quits at once.
func (a *App) quit() tea.Cmd {
	if gen := a.saver.pending(); gen != 0 && a.quitGen == 0 {
		a.quitGen = gen
		a.SetStatus("Saving before quit… press q again to quit now", false)
		return nil
	}
	a.quitting = true
	return tea.Quit
}

// persist writes the current task list in the background.
func (a *App) persist(op string) tea.Cmd {
	return saveTasksCmd(a.saver, a.saver.reserve(), a.store.Tasks(), op)
}

// splitInput separates a leading "(X) " priority from typed task text and
// validates it against the active mode.
func (a *App) splitInput(input string) (string, string, error) {
	p, text := todotxt.SplitPriority(input)
	if p == "" {
		return "", text, nil
	}
	p, err := priority.Validate(p, a.store.PriorityMode())
	if err != nil {
		return "", "", err
	}
	return p, text, nil
}

func (a *App) addTask(input string) tea.Cmd {
	p, text, err := a.splitInput(input)
	if err != nil {
		a.SetStatus(err.Error(), true)
		return nil
	}
	if text == "" {
		a.SetStatus("Task cannot be empty", true)
		return nil
	}

	task := todotxt.Task{Priority: p, CreationDate: a.store.Today()}
	task.SetText(text)
	added := a.store.AddTask(task)
	a.taskPane.Select(added.ID)
	a.statsPane.Record("add " + text)
	a.SetStatus("Added: "+truncateText(text, 40), false)
	return a.persist("add")
}

func (a *App) editTask(id int, input string) tea.Cmd {
	p, text, err := a.splitInput(input)
	if err != nil {
		a.SetStatus(err.Error(), true)
		return nil
	}
	if text == "" {
		a.SetStatus("Task cannot be empty", true)
		return nil
	}

	patch := storage.Patch{Text: &text}
	if p != "" {
		patch.Priority = &p
	}
	if _, err := a.store.UpdateTask(id, patch); err != nil {
		a.SetStatus(err.Error(), true)
		return nil
	}
	a.taskPane.Select(id)
	a.statsPane.Record(fmt.Sprintf("edit #%d", id))
	a.SetStatus("Updated: "+truncateText(text, 40), false)
	return a.persist("update")
}

func (a *App) toggleTask(id int) tea.Cmd {
	task, err := a.store.ToggleCompletion(id)
	if err != nil {
		a.SetStatus(err.Error(), true)
		return nil
	}
	a.taskPane.Sync()
	if task.Completed {
		a.statsPane.Record(fmt.Sprintf("do #%d", id))
		a.SetStatus("Completed: "+truncateText(task.Text, 40), false)
	} else {
		a.statsPane.Record(fmt.Sprintf("undo #%d", id))
		a.SetStatus("Reopened: "+truncateText(task.Text, 40), false)
	}
	return a.persist("update")
}

func (a *App) deleteTask(id int) tea.Cmd {
	task, ok := a.store.Get(id)
	if err := a.store.DeleteTask(id); err != nil {
		a.SetStatus(err.Error(), true)
		return nil
	}
	a.taskPane.Sync()
	a.statsPane.Record(fmt.Sprintf("del #%d", id))
	if ok {
		a.SetStatus("Deleted: "+truncateText(task.Text, 40), false)
	}
	return a.persist("delete")
}

func (a *App) setPriority(id int, p string) tea.Cmd {
	task, err := a.store.UpdateTask(id, storage.Patch{Priority: &p})
	if err != nil {
		a.SetStatus(err.Error(), true)
		return nil
	}
	a.taskPane.Sync()
	if p == "" {
		a.statsPane.Record(fmt.Sprintf("depri #%d", id))
		a.SetStatus("Priority cleared: "+truncateText(task.Text, 40), false)
	} else {
		a.statsPane.Record(fmt.Sprintf("pri #%d %s", id, p))
		a.SetStatus(fmt.Sprintf("Priority (%s): %s", p, truncateText(task.Text, 40)), false)
	}
	return a.persist("update")
}

func (a *App) pasteTask() tea.Cmd {
	if a.clipboard == nil {
		a.SetStatus("Nothing to paste", true)
		return nil
	}
	task := todotxt.Task{Priority: a.clipboard.Priority, CreationDate: a.store.Today()}
	task.SetText(a.clipboard.Text)
	added := a.store.AddTask(task)
	a.taskPane.Select(added.ID)
	a.statsPane.Record("paste " + task.Text)
	a.SetStatus("Pasted: "+truncateText(task.Text, 40), false)
	return a.persist("add")
}

func (a *App) undo() tea.Cmd {
	ok, err := a.store.Undo()
	if err != nil {
		a.SetStatus("Undo failed: "+err.Error(), true)
		return nil
	}
	if !ok {
		a.SetStatus("Nothing to undo", false)
		return nil
	}
	a.taskPane.Sync()
	a.statsPane.Record("undo")
	a.SetStatus("Undone", false)
	return a.persist("undo")
}

// =============================================================================
// Settings
// =============================================================================

func (a *App) openSettings() {
	withPriorities := 0
	for _, t := range a.store.Tasks() {
		if t.Priority != "" {
			withPriorities++
		}
	}
	a.settings.Open(a.store.PriorityMode(), a.cfg.Theme, withPriorities)
	a.showSettings = true
}

func (a *App) applySettings(action settingsAction) tea.Cmd {
	switch action.kind {
	case settingsClose:
		a.showSettings = false
		return nil
	case settingsSetTheme:
		return a.setTheme(action.theme)
	case settingsSetMode:
		return a.setPriorityMode(action.mode, action.convert)
	}
	return nil
}

// setTheme restyles every component in place and persists the choice.
func (a *App) setTheme(themeKey string) tea.Cmd {
	*a.styles = *NewStyles(themeKey)
	a.cfg.Theme = a.styles.Theme.Key
	a.SetStatus("Theme: "+a.styles.Theme.Name, false)
	return saveConfigCmd(a.fs, a.configPath, a.cfg)
}

// setPriorityMode switches the priority alphabet. With convert, existing
// priorities are rewritten into the new alphabet as one undoable step.
func (a *App) setPriorityMode(mode priority.Mode, convert bool) tea.Cmd {
	var cmds []tea.Cmd
	if convert {
		tasks := a.store.Tasks()
		for i := range tasks {
			tasks[i].Priority = priority.Normalize(tasks[i].Priority, mode)
		}
		a.store.SetTasks(tasks)
		cmds = append(cmds, a.persist("convert"))
	}
	a.store.SetPriorityMode(mode)
	a.taskPane.Sync()
	a.cfg.PriorityMode = mode
	a.statsPane.Record("set priorityMode=" + string(mode))
	a.SetStatus("Priority mode: "+string(mode), false)
	cmds = append(cmds, saveConfigCmd(a.fs, a.configPath, a.cfg))
	return tea.Batch(cmds...)
}

// =============================================================================
// Layout
// =============================================================================

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane

	a.taskPane.SetFocused(pane == PaneTasks)
	a.statsPane.SetFocused(pane == PaneStats)
	a.tagsPane.SetFocused(pane == PaneTags)
}

// paneAtPosition returns which pane is at the given X coordinate.
// Returns -1 if no pane is at that position.
func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		return a.activePane
	}

	if x >= a.tasksPaneStart && x < a.tasksPaneEnd {
		return PaneTasks
	}
	if x >= a.statsPaneStart && x < a.statsPaneEnd {
		return PaneStats
	}
	if x >= a.tagsPaneStart && x < a.tagsPaneEnd {
		return PaneTags
	}
	return -1
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar (2) and help bar (1)
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}

	a.contentTop = 1
	a.helpOverlay.SetSize(a.width, a.height)
	a.settings.SetSize(a.width, a.height)
	a.prompt.SetWidth(a.width)

	totalWidth := a.width - 4

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow

		// Leave room for the tab bar.
		narrowHeight := contentHeight - 1
		if narrowHeight < 8 {
			narrowHeight = 8
		}

		paneWidth := totalWidth
		if paneWidth < 20 {
			paneWidth = 20
		}

		a.taskPane.SetSize(paneWidth, narrowHeight)
		a.statsPane.SetSize(paneWidth, narrowHeight)
		a.tagsPane.SetSize(paneWidth, narrowHeight)

		a.tasksPaneStart, a.tasksPaneEnd = 0, a.width
		a.statsPaneStart, a.statsPaneEnd = 0, a.width
		a.tagsPaneStart, a.tagsPaneEnd = 0, a.width
		a.contentTop = 2
		return
	}

	a.layoutMode = LayoutWide

	var tasksWidth, statsWidth, tagsWidth int
	if totalWidth < 120 {
		tasksWidth = (totalWidth * 50) / 100
		statsWidth = (totalWidth * 25) / 100
		tagsWidth = totalWidth - tasksWidth - statsWidth - 2
	} else {
		tasksWidth = min((totalWidth*55)/100, 90)
		statsWidth = min((totalWidth*22)/100, 36)
		tagsWidth = min(totalWidth-tasksWidth-statsWidth-2, 40)
	}

	a.taskPane.SetSize(tasksWidth, contentHeight)
	a.statsPane.SetSize(statsWidth, contentHeight)
	a.tagsPane.SetSize(tagsWidth, contentHeight)

	// One space gap between panes.
	a.tasksPaneStart = 0
	a.tasksPaneEnd = tasksWidth
	a.statsPaneStart = tasksWidth + 1
	a.statsPaneEnd = a.statsPaneStart + statsWidth
	a.tagsPaneStart = a.statsPaneEnd + 1
	a.tagsPaneEnd = a.tagsPaneStart + tagsWidth
}

// handleMouse focuses the clicked pane and forwards the event with
// pane-local coordinates.
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.confirmDel != nil || a.showHelp || a.showSettings {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if a.confirmDel != nil {
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
			}
			a.showHelp = false
			a.showSettings = false
		}
		return nil
	}
	if a.prompt.Active() {
		return nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		// Tab bar click in narrow mode.
		if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
			tabWidth := max(1, a.width/3)
			a.setActivePane(PaneID(min(2, msg.X/tabWidth)))
			return nil
		}
		if pane := a.paneAtPosition(msg.X); pane >= 0 && pane != a.activePane {
			a.setActivePane(pane)
		}
	}

	if msg.Y < a.contentTop {
		return nil
	}
	local := msg
	local.Y = msg.Y - a.contentTop
	if a.layoutMode == LayoutWide {
		switch a.activePane {
		case PaneStats:
			local.X = msg.X - a.statsPaneStart
		case PaneTags:
			local.X = msg.X - a.tagsPaneStart
		}
	}

	// Pane content sits inside a one-cell border.
	local.Y--
	local.X -= 2

	switch a.activePane {
	case PaneTasks:
		return a.taskPane.Update(local)
	case PaneStats:
		return a.statsPane.Update(local)
	case PaneTags:
		return a.tagsPane.Update(local)
	}
	return nil
}

// =============================================================================
// Rendering
// =============================================================================

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	if a.showSettings {
		return a.settings.View()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")

	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderWideContent renders all three panes side by side.
func (a *App) renderWideContent() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		a.taskPane.View(), " ", a.statsPane.View(), " ", a.tagsPane.View())
}

// renderNarrowContent renders the focused pane with a tab bar.
func (a *App) renderNarrowContent() string {
	var b strings.Builder

	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	switch a.activePane {
	case PaneTasks:
		b.WriteString(a.taskPane.View())
	case PaneStats:
		b.WriteString(a.statsPane.View())
	case PaneTags:
		b.WriteString(a.tagsPane.View())
	}

	return b.String()
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneTasks, "Tasks"},
		{PaneStats, "Stats"},
		{PaneTags, "Tags"},
	}

	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		if tab.id == a.activePane {
			parts = append(parts, activeTabStyle.Render("["+tab.label+"]"))
		} else {
			parts = append(parts, inactiveTabStyle.Render(" "+tab.label+" "))
		}
	}

	tabBar := strings.Join(parts, "  ")
	padding := (a.width - lipgloss.Width(tabBar)) / 2
	if padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}
	return tabBar
}

// renderGoodbye shows an exit message with the day's summary.
func (a *App) renderGoodbye() string {
	sum := a.statsPane.Summary()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	b.WriteString("\n")

	if sum.Total > 0 {
		b.WriteString("  Today's progress:\n")
		b.WriteString(fmt.Sprintf("     Done today: %d\n", sum.DoneToday))
		b.WriteString(fmt.Sprintf("     Active:     %d/%d\n", sum.Active, sum.Total))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTitleBar creates the top title bar with counters, file and date.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" todo ")

	sum := a.statsPane.Summary()
	var statsItems []string
	if sum.Total > 0 {
		statsItems = append(statsItems, fmt.Sprintf("Active: %d/%d", sum.Active, sum.Total))
	}
	if n := sum.DueOrOverdue(); n > 0 {
		statsItems = append(statsItems, fmt.Sprintf("Due: %d", n))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(statsItems, "  "))

	file := a.styles.StatLabelStyle.Render(filepath.Base(a.files.Path()))
	date := a.styles.DateStyle.Render(a.now().Format("Mon Jan 2 · 15:04"))

	usedWidth := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(file) + lipgloss.Width(date)
	spacerWidth := a.width - usedWidth - 6
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	var parts []string
	parts = append(parts, title)
	if len(statsItems) > 0 {
		parts = append(parts, "  "+stats)
	}
	parts = append(parts, strings.Repeat(" ", spacerWidth/2))
	parts = append(parts, file)
	parts = append(parts, strings.Repeat(" ", spacerWidth-spacerWidth/2))
	parts = append(parts, date)

	return strings.Join(parts, "")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.prompt.Active() {
		return a.prompt.View()
	}

	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	switch a.activePane {
	case PaneTasks:
		return a.styles.RenderHelp(
			"a", "add",
			"space", "done",
			"e", "edit",
			"x", "del",
			"/", "search",
			"s", "sort",
			"u", "undo",
			"?", "help",
		)
	case PaneStats, PaneTags:
		return a.styles.RenderHelp(
			"enter", "filter",
			"c", "clear",
			"j/k", "nav",
			"tab", "pane",
			"?", "help",
		)
	}
	return ""
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = a.now().Add(ttl)
}

// editValue is what the edit prompt starts with: the priority token, if
// any, followed by the text.
func editValue(t todotxt.Task) string {
	if t.Priority == "" {
		return t.Text
	}
	return "(" + t.Priority + ") " + t.Text
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	if opts.Files == nil {
		return errors.New("ui: a task file is required")
	}
	app := NewApp(opts)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
