package style

import (
	"testing"

	"github.com/matzehuels/actionviz/pkg/graph"
)

func TestResolve_Sizes(t *testing.T) {
	tests := []struct {
		category graph.Category
		want     int
	}{
		{graph.CategoryRunTask, 65},
		{graph.CategorySyncProject, 80},
		{graph.CategoryInstallDependencies, 80},
		{graph.CategorySetupEnvironment, 90},
		{graph.CategorySetupToolchain, 100},
		{graph.CategorySetupProto, 110},
		{graph.CategorySyncWorkspace, 120},
		{graph.CategoryUnknown, DefaultNodeSize},
	}

	table := Default()
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			if got := table.Resolve(tt.category).Size; got != tt.want {
				t.Errorf("Resolve(%q).Size = %d, want %d", tt.category, got, tt.want)
			}
		})
	}
}

func TestResolve_Colors(t *testing.T) {
	table := Default()

	if got := table.Resolve(graph.CategoryUnknown).Colors; got != table.Node.Colors {
		t.Errorf("unknown colors = %v, want default %v", got, table.Node.Colors)
	}
	if got := table.Resolve(graph.CategoryRunTask).Colors; got != (Gradient{"#6e58d1", "#4a2ec6", "#3b259e"}) {
		t.Errorf("run-task colors = %v", got)
	}
	if got := table.Resolve(graph.CategoryRunTask).TextColor; got != "#fff" {
		t.Errorf("run-task text color = %q, want inherited #fff", got)
	}
}

func TestResolve_LaterOverrideWins(t *testing.T) {
	table := Default()
	table.Overrides = append(table.Overrides, Override{
		Category: graph.CategoryRunTask,
		Colors:   Gradient{"#000", "#111", "#222"},
		Size:     70,
	})

	got := table.Resolve(graph.CategoryRunTask)
	if got.Size != 70 || got.Colors[0] != "#000" {
		t.Errorf("Resolve() = %+v, want last override applied", got)
	}
}

func TestRules_Order(t *testing.T) {
	rules := Default().Rules()

	want := []string{
		"edges",
		"node",
		`node[type="run-task"]`,
		`node[type="sync-project"]`,
		`node[type="install-dependencies"]`,
		`node[type="setup-environment"]`,
		`node[type="setup-toolchain"]`,
		`node[type="setup-proto"]`,
		`node[type="sync-workspace"]`,
	}
	if len(rules) != len(want) {
		t.Fatalf("len(Rules()) = %d, want %d", len(rules), len(want))
	}
	for i, sel := range want {
		if rules[i].Selector != sel {
			t.Errorf("rule %d selector = %q, want %q", i, rules[i].Selector, sel)
		}
	}
}

func TestRules_Properties(t *testing.T) {
	rules := Default().Rules()

	edge := rules[0].Style
	if edge["target-arrow-shape"] != "chevron" {
		t.Errorf("edge arrow shape = %v, want chevron", edge["target-arrow-shape"])
	}
	if edge["label"] != "data(label)" {
		t.Errorf("edge label = %v, want data(label)", edge["label"])
	}
	if edge["line-opacity"] != 0.18 {
		t.Errorf("edge line-opacity = %v, want 0.18", edge["line-opacity"])
	}

	node := rules[1].Style
	checks := map[string]any{
		"shape":                           "ellipse",
		"background-fill":                 "linear-gradient",
		"background-gradient-direction":   "to-bottom-right",
		"background-gradient-stop-colors": "#d7dfe9 #bdc9db #97a1af",
		"width":                           65,
		"height":                          65,
		"label":                           "data(label)",
		"text-valign":                     "bottom",
	}
	for k, want := range checks {
		if node[k] != want {
			t.Errorf("node %s = %v, want %v", k, node[k], want)
		}
	}

	runTask := rules[2].Style
	if _, ok := runTask["width"]; ok {
		t.Error("run-task rule should not override size")
	}
	workspace := rules[8].Style
	if workspace["width"] != 120 || workspace["height"] != 120 {
		t.Errorf("sync-workspace size = %v x %v, want 120", workspace["width"], workspace["height"])
	}
}

func TestRules_NoUnknownRule(t *testing.T) {
	for _, r := range Default().Rules() {
		if r.Selector == Selector(graph.CategoryUnknown) {
			t.Error("default table should not style unknown nodes")
		}
	}
}
