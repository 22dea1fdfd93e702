package style

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/graph"
)

const sampleTheme = `
[node]
colors = ["#111111", "#222222", "#333333"]
size = 70

[edge]
line_color = "#abcdef"
line_opacity = 0.5

[categories.run-task]
size = 75

[categories.unknown]
colors = ["#000000", "#000000", "#000000"]
`

func TestParseTheme_Apply(t *testing.T) {
	th, err := ParseTheme([]byte(sampleTheme))
	if err != nil {
		t.Fatalf("ParseTheme() error: %v", err)
	}

	base := Default()
	table := th.Apply(base)

	if table.Node.Size != 70 {
		t.Errorf("node size = %d, want 70", table.Node.Size)
	}
	if table.Edge.LineColor != "#abcdef" || table.Edge.LineOpacity != 0.5 {
		t.Errorf("edge = %+v", table.Edge)
	}

	run := table.Resolve(graph.CategoryRunTask)
	if run.Size != 75 {
		t.Errorf("run-task size = %d, want 75", run.Size)
	}
	if run.Colors != (Gradient{"#6e58d1", "#4a2ec6", "#3b259e"}) {
		t.Errorf("run-task colors = %v, want unchanged", run.Colors)
	}

	if got := table.Resolve(graph.CategoryUnknown).Colors; got[0] != "#000000" {
		t.Errorf("unknown colors = %v, want theme override", got)
	}
	if got := table.Resolve(graph.CategorySyncWorkspace).Size; got != 120 {
		t.Errorf("sync-workspace size = %d, want 120", got)
	}

	// Apply must not mutate its input.
	if base.Overrides[0].Size != 0 || len(base.Overrides) != 7 {
		t.Error("Apply() mutated the base table")
	}
}

func TestApply_IgnoresMalformedGradients(t *testing.T) {
	th := Theme{
		Node: &NodeTheme{Colors: []string{"#fff", "#000"}, Size: 70},
		Categories: map[string]CategoryTheme{
			"run-task": {Colors: []string{"#111", "#222", "#333", "#444"}, Size: 75},
		},
	}
	base := Default()
	table := th.Apply(base)

	if table.Node.Colors != base.Node.Colors {
		t.Errorf("node colors = %v, want default", table.Node.Colors)
	}
	if table.Node.Size != 70 {
		t.Errorf("node size = %d, want 70", table.Node.Size)
	}
	run := table.Resolve(graph.CategoryRunTask)
	if run.Colors != base.Resolve(graph.CategoryRunTask).Colors || run.Size != 75 {
		t.Errorf("run-task = %+v, want default colors and size 75", run)
	}
}

func TestParseTheme_Invalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[node`},
		{"unknown category", "[categories.deploy]\nsize = 10"},
		{"short gradient", "[node]\ncolors = [\"#fff\"]"},
		{"negative size", "[categories.run-task]\nsize = -1"},
		{"unknown key", "[node]\nshape = \"box\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTheme([]byte(tt.toml))
			if err == nil {
				t.Fatal("ParseTheme() should return error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidTheme) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidTheme)
			}
		})
	}
}

func TestLoadTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	if err := os.WriteFile(path, []byte(sampleTheme), 0644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadTheme(path)
	if err != nil {
		t.Fatalf("LoadTheme() error: %v", err)
	}
	if th.Node == nil || th.Node.Size != 70 {
		t.Errorf("LoadTheme() node = %+v", th.Node)
	}

	if _, err := LoadTheme(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidTheme) {
		t.Errorf("LoadTheme(missing) error = %v, want INVALID_THEME", err)
	}
}
