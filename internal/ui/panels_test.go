package ui

import (
	"fmt"
	"strings"
	"testing"

	"todo/internal/taskstore"
)

func TestStatsPaneView(t *testing.T) {
	setupTest(t)
	store := createTestStore(t,
		"pay bills due:2025-01-09",
		"call back due:2025-01-10",
		"x 2025-01-10 ship it",
		"x 2025-01-02 old",
		"someday",
	)
	pane := NewStatsPane(store, createTestStyles())
	pane.SetSize(32, 20)
	pane.SetFocused(true)

	view := pane.View()
	for _, want := range []string{"Stats", "> DUE/OVERDUE: 2", "DONE TODAY: 1", "ACTIVE: 3/5", "Mode: letter", "No commands yet"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in stats view:\n%s", want, view)
		}
	}
}

func TestStatsPane_MarksActiveFilter(t *testing.T) {
	setupTest(t)
	store := createTestStore(t, "task")
	pane := NewStatsPane(store, createTestStyles())
	pane.SetSize(32, 20)

	store.SetFilter(&taskstore.Filter{Type: taskstore.FilterDoneToday})

	if view := pane.View(); !strings.Contains(view, "* DONE TODAY") {
		t.Errorf("active filter row should be marked:\n%s", view)
	}
}

func TestStatsPane_RecordKeepsNewestFirst(t *testing.T) {
	pane := NewStatsPane(createTestStore(t), createTestStyles())

	for i := 0; i < maxRecent+3; i++ {
		pane.Record(fmt.Sprintf("cmd %d", i))
	}

	recent := pane.Recent()
	if len(recent) != maxRecent {
		t.Fatalf("len(Recent()) = %d, want %d", len(recent), maxRecent)
	}
	if recent[0] != fmt.Sprintf("cmd %d", maxRecent+2) {
		t.Errorf("newest entry = %q", recent[0])
	}
}

func TestStatsPane_Navigation(t *testing.T) {
	pane := NewStatsPane(createTestStore(t), createTestStyles())
	pane.SetFocused(true)

	pane.Update(runes("G"))
	if f := pane.Filter(); f.Type != taskstore.FilterActive {
		t.Errorf("bottom row filter = %v, want active", f.Type)
	}
	pane.Update(runes("k"))
	if f := pane.Filter(); f.Type != taskstore.FilterDoneToday {
		t.Errorf("after up filter = %v, want done-today", f.Type)
	}
}

func TestTagsPaneView(t *testing.T) {
	setupTest(t)
	store := createTestStore(t, "a +Garden @home", "b +Work", "c @phone")
	pane := NewTagsPane(store, createTestStyles())
	pane.SetSize(30, 20)
	pane.SetFocused(true)

	view := pane.View()
	for _, want := range []string{"Tags", "Projects", "> +Garden", "+Work", "Contexts", "@home", "@phone"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in tags view:\n%s", want, view)
		}
	}
}

func TestTagsPaneView_Empty(t *testing.T) {
	setupTest(t)
	pane := NewTagsPane(createTestStore(t, "plain"), createTestStyles())
	pane.SetSize(30, 20)

	view := pane.View()
	if !strings.Contains(view, "No projects") || !strings.Contains(view, "No contexts") {
		t.Errorf("expected empty hints:\n%s", view)
	}
	if pane.Filter() != nil {
		t.Error("Filter() should be nil without tags")
	}
}

func TestTagsPane_FilterFollowsCursor(t *testing.T) {
	pane := NewTagsPane(createTestStore(t, "a +Garden @home"), createTestStyles())
	pane.SetFocused(true)

	if f := pane.Filter(); f.Type != taskstore.FilterProject || f.Value != "Garden" {
		t.Errorf("first filter = %+v", f)
	}

	pane.Update(runes("j"))
	pane.Update(runes("j"))
	if f := pane.Filter(); f.Type != taskstore.FilterContext || f.Value != "home" {
		t.Errorf("second filter = %+v", f)
	}
}
