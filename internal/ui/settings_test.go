package ui

import (
	"strings"
	"testing"

	"todo/internal/config"
	"todo/internal/priority"
	"todo/internal/theme"
)

func TestSettingsOverlay_ToggleModeWithoutPriorities(t *testing.T) {
	setupTest(t)
	s := NewSettingsOverlay(createTestStyles())
	s.Open(priority.Letter, theme.Default, 0)

	action := s.Update(keyEnter)

	if action.kind != settingsSetMode || action.mode != priority.Number || action.convert {
		t.Errorf("unexpected action %+v", action)
	}
	if !strings.Contains(s.View(), "Number (0-9)") {
		t.Error("menu should show the new mode")
	}
}

func TestSettingsOverlay_ConfirmConversion(t *testing.T) {
	setupTest(t)
	s := NewSettingsOverlay(createTestStyles())
	s.Open(priority.Letter, theme.Default, 2)

	if action := s.Update(keyEnter); action.kind != settingsNone {
		t.Fatalf("expected confirmation step, got %+v", action)
	}
	if view := s.View(); !strings.Contains(view, "Convert 2 priorities letters to numbers") {
		t.Errorf("confirmation prompt missing:\n%s", view)
	}

	action := s.Update(runes("y"))
	if action.kind != settingsSetMode || action.mode != priority.Number || !action.convert {
		t.Errorf("unexpected action %+v", action)
	}

	// Declining keeps the values but still switches.
	s.Open(priority.Number, theme.Default, 1)
	s.Update(keyEnter)
	action = s.Update(runes("n"))
	if action.kind != settingsSetMode || action.mode != priority.Letter || action.convert {
		t.Errorf("unexpected action %+v", action)
	}
}

func TestSettingsOverlay_EscCancelsConfirmation(t *testing.T) {
	s := NewSettingsOverlay(createTestStyles())
	s.Open(priority.Letter, theme.Default, 3)

	s.Update(keyEnter)
	if action := s.Update(keyEsc); action.kind != settingsNone {
		t.Errorf("esc should go back without an action, got %+v", action)
	}
	if s.state != settingsMenu {
		t.Errorf("expected menu state, got %v", s.state)
	}
	if action := s.Update(keyEsc); action.kind != settingsClose {
		t.Errorf("esc on the menu should close, got %+v", action)
	}
}

func TestSettingsOverlay_PickTheme(t *testing.T) {
	setupTest(t)
	s := NewSettingsOverlay(createTestStyles())
	s.Open(priority.Letter, "nord", 0)

	s.Update(runes("j"))
	s.Update(keyEnter)
	if s.state != settingsTheme {
		t.Fatalf("expected theme list, got state %v", s.state)
	}
	if view := s.View(); !strings.Contains(view, "> Nord") {
		t.Errorf("theme list should start on the current theme:\n%s", view)
	}

	s.Update(runes("j"))
	action := s.Update(keyEnter)

	names := theme.Names()
	want := ""
	for i, n := range names {
		if n == "nord" {
			want = names[i+1]
		}
	}
	if action.kind != settingsSetTheme || action.theme != want {
		t.Errorf("expected theme %q, got %+v", want, action)
	}
}

func TestApp_SettingsConvertPriorities(t *testing.T) {
	app := newTestApp(t, "(A) one", "(B) two", "three")

	app.press(runes(","))
	if !app.showSettings {
		t.Fatal("expected settings to open")
	}
	app.press(keyEnter, runes("y"))

	if app.Store().PriorityMode() != priority.Number {
		t.Errorf("mode = %q, want number", app.Store().PriorityMode())
	}
	if got := readTodo(t, app.files); got != "(0) one\n(1) two\nthree\n" {
		t.Errorf("unexpected file after conversion %q", got)
	}

	cfg, err := config.Read(app.fs, app.configPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PriorityMode != priority.Number {
		t.Errorf("saved mode = %q, want number", cfg.PriorityMode)
	}

	// The conversion is a single undo step.
	app.press(keyEsc, runes("u"))
	if got := readTodo(t, app.files); got != "(A) one\n(B) two\nthree\n" {
		t.Errorf("unexpected file after undo %q", got)
	}
}

func TestApp_SettingsChangeTheme(t *testing.T) {
	app := newTestApp(t)
	before := app.styles.ColorPrimary

	app.press(runes(","), runes("j"), keyEnter, runes("j"), keyEnter)

	if app.cfg.Theme != theme.Names()[1] {
		t.Errorf("theme = %q, want %q", app.cfg.Theme, theme.Names()[1])
	}
	if app.styles.ColorPrimary == before {
		t.Error("styles should be rebuilt for the new theme")
	}
	if app.taskPane.styles != app.styles {
		t.Error("panes should share the restyled Styles")
	}

	cfg, err := config.Read(app.fs, app.configPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != theme.Names()[1] {
		t.Errorf("saved theme = %q", cfg.Theme)
	}
}
