package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/actionviz/pkg/graph"
)

func testElements() graph.Elements {
	return graph.Elements{
		Nodes: []graph.DisplayNode{
			{ID: "0", Label: "SyncWorkspace", Category: graph.CategorySyncWorkspace},
			{ID: "1", Label: "RunTask(app:build)", Category: graph.CategoryRunTask},
			{ID: "2", Label: "RunTask(app:test)", Category: graph.CategoryRunTask},
			{ID: "3", Label: "app:lint", Category: graph.CategoryUnknown},
		},
		Edges: []graph.DisplayEdge{
			{ID: "1 -> 0", Source: "1", Target: "0"},
			{ID: "2 -> 1", Source: "2", Target: "1", Label: "dep"},
		},
	}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "shift+tab":
			msg = tea.KeyMsg{Type: tea.KeyShiftTab}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func labels(nodes []graph.DisplayNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Label
	}
	return out
}

func TestExploreFilter(t *testing.T) {
	m := NewExploreModel("graph.json", testElements())
	if got := len(m.Visible()); got != 4 {
		t.Fatalf("initially visible = %d, want 4", got)
	}

	// tab walks "", sync-workspace, sync-project, ..., run-task
	got := press(m, "tab").(ExploreModel)
	if got.Filter != graph.CategorySyncWorkspace {
		t.Errorf("filter after tab = %q", got.Filter)
	}
	if diff := cmp.Diff([]string{"SyncWorkspace"}, labels(got.Visible())); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}

	got = press(m, "shift+tab").(ExploreModel)
	if got.Filter != graph.CategoryUnknown {
		t.Errorf("filter after shift+tab = %q, want unknown", got.Filter)
	}

	got = press(m, "tab", "tab", "tab", "tab", "tab", "tab", "tab").(ExploreModel)
	if got.Filter != graph.CategoryRunTask {
		t.Fatalf("filter = %q, want run-task", got.Filter)
	}
	if diff := cmp.Diff([]string{"RunTask(app:build)", "RunTask(app:test)"}, labels(got.Visible())); diff != "" {
		t.Errorf("visible mismatch (-want +got):\n%s", diff)
	}

	got = press(got, "a").(ExploreModel)
	if got.Filter != "" || len(got.Visible()) != 4 {
		t.Errorf("a should clear the filter, got %q with %d nodes", got.Filter, len(got.Visible()))
	}
}

func TestExploreNavigation(t *testing.T) {
	m := NewExploreModel("graph.json", testElements())

	got := press(m, "down", "down", "j").(ExploreModel)
	if n, _ := got.Selected(); n.ID != "3" {
		t.Errorf("selected %q after three downs, want 3", n.ID)
	}

	got = press(got, "down").(ExploreModel)
	if got.Cursor != 3 {
		t.Errorf("cursor moved past the end: %d", got.Cursor)
	}

	got = press(got, "up", "k").(ExploreModel)
	if n, _ := got.Selected(); n.ID != "1" {
		t.Errorf("selected %q, want 1", n.ID)
	}

	// Changing the filter resets the cursor.
	got = press(got, "tab").(ExploreModel)
	if got.Cursor != 0 {
		t.Errorf("cursor = %d after filter change, want 0", got.Cursor)
	}
}

func TestExploreQuit(t *testing.T) {
	m := NewExploreModel("graph.json", testElements())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestExploreView(t *testing.T) {
	m := NewExploreModel("graph.json", testElements())
	view := m.View()
	for _, want := range []string{"graph.json", "SyncWorkspace", "app:lint", "Category: all", "[1/4]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view should contain %q", want)
		}
	}

	// Details list the edges of RunTask(app:build).
	view = press(m, "down", "enter").(ExploreModel).View()
	for _, want := range []string{"depends on 1, required by 1", "→ SyncWorkspace", "RunTask(app:test) →", "(dep)"} {
		if !strings.Contains(view, want) {
			t.Errorf("details should contain %q:\n%s", want, view)
		}
	}
}

func TestExploreEmptyFilter(t *testing.T) {
	m := NewExploreModel("graph.json", testElements())
	got := press(m, "tab", "tab").(ExploreModel) // sync-project: no nodes
	if _, ok := got.Selected(); ok {
		t.Error("nothing should be selected in an empty category")
	}
	if !strings.Contains(got.View(), "[0/0]") {
		t.Error("view should show [0/0]")
	}
}
