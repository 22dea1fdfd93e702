package cli

import (
	"strings"
	"testing"

	"github.com/matzehuels/actionviz/pkg/graph"
	"github.com/matzehuels/actionviz/pkg/render/style"
)

func TestCategoryTable(t *testing.T) {
	counts := graph.Stats(testElements())
	out := categoryTable(counts, style.Default())

	for _, c := range graph.Categories {
		if !strings.Contains(out, string(c)) {
			t.Errorf("table should list %s", c)
		}
	}
	if !strings.Contains(out, "Category") || !strings.Contains(out, "Nodes") {
		t.Error("table should have headers")
	}
}
