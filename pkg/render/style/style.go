package style

import (
	"fmt"
	"strings"

	"github.com/matzehuels/actionviz/pkg/graph"
)

// DefaultNodeSize is the width and height of nodes without a size override.
const DefaultNodeSize = 65

// Gradient is a three-stop colour gradient drawn from top-left (light) to
// bottom-right (dark).
type Gradient [3]string

// String returns the space-separated stop list used by cytoscape.
func (g Gradient) String() string {
	return strings.Join(g[:], " ")
}

// NodeStyle is the resolved appearance of a node.
type NodeStyle struct {
	Colors       Gradient
	Size         int
	TextColor    string
	OverlayColor string
	TextMarginY  int
}

// EdgeStyle is the appearance shared by all edges.
type EdgeStyle struct {
	LineColor   string
	ArrowColor  string
	TextColor   string
	LineOpacity float64
	TextOpacity float64
	Width       int
	FontSize    int
	ArrowScale  float64
}

// Override replaces the gradient, and optionally the size, of one category.
// A zero Size keeps the default node size.
type Override struct {
	Category graph.Category
	Colors   Gradient
	Size     int
}

// Table is the ordered style table: the edge default, the node default, then
// per-category overrides. Later entries win over earlier ones for matching
// elements, so the override order is significant.
type Table struct {
	Edge      EdgeStyle
	Node      NodeStyle
	Overrides []Override
}

// Default returns the built-in table. Node size grows with how early the
// action runs in a pipeline: run-task keeps the default and sync-workspace is
// the largest. Unknown nodes have no override.
func Default() Table {
	return Table{
		Edge: EdgeStyle{
			LineColor:   "#c9eef6",
			ArrowColor:  "#c9eef6",
			TextColor:   "#e4f7fb",
			LineOpacity: 0.18,
			TextOpacity: 0.6,
			Width:       3,
			FontSize:    12,
			ArrowScale:  2,
		},
		Node: NodeStyle{
			Colors:       Gradient{"#d7dfe9", "#bdc9db", "#97a1af"},
			Size:         DefaultNodeSize,
			TextColor:    "#fff",
			OverlayColor: "#99aab7",
			TextMarginY:  6,
		},
		Overrides: []Override{
			{Category: graph.CategoryRunTask, Colors: Gradient{"#6e58d1", "#4a2ec6", "#3b259e"}},
			{Category: graph.CategorySyncProject, Colors: Gradient{"#ffafff", "#ff79ff", "#cc61cc"}, Size: 80},
			{Category: graph.CategoryInstallDependencies, Colors: Gradient{"#afe6f2", "#79d5e9", "#61aaba"}, Size: 80},
			{Category: graph.CategorySetupEnvironment, Colors: Gradient{"#c9e166", "#b7d733", "#a5cd00"}, Size: 90},
			{Category: graph.CategorySetupToolchain, Colors: Gradient{"#ff9da6", "#ff5b6b", "#cc4956"}, Size: 100},
			{Category: graph.CategorySetupProto, Colors: Gradient{"#ffafff", "#ff79ff", "#cc61cc"}, Size: 110},
			{Category: graph.CategorySyncWorkspace, Colors: Gradient{"#b7a9f9", "#9a87f7", "#8c75f5"}, Size: 120},
		},
	}
}

// Resolve returns the effective node style for c after applying the default
// node rule and every matching override in order.
func (t Table) Resolve(c graph.Category) NodeStyle {
	s := t.Node
	for _, o := range t.Overrides {
		if o.Category != c {
			continue
		}
		s.Colors = o.Colors
		if o.Size > 0 {
			s.Size = o.Size
		}
	}
	return s
}

// Rule is one selector/style pair in cytoscape's vocabulary.
type Rule struct {
	Selector string         `json:"selector"`
	Style    map[string]any `json:"style"`
}

// Selector for nodes of a category.
func Selector(c graph.Category) string {
	return fmt.Sprintf(`node[type="%s"]`, c)
}

// Rules renders the table as an ordered rule list.
func (t Table) Rules() []Rule {
	rules := make([]Rule, 0, 2+len(t.Overrides))
	rules = append(rules, Rule{
		Selector: "edges",
		Style: map[string]any{
			"arrow-scale":        t.Edge.ArrowScale,
			"color":              t.Edge.TextColor,
			"curve-style":        "straight",
			"font-size":          t.Edge.FontSize,
			"label":              "data(label)",
			"line-cap":           "round",
			"line-color":         t.Edge.LineColor,
			"line-opacity":       t.Edge.LineOpacity,
			"overlay-color":      t.Edge.LineColor,
			"target-arrow-color": t.Edge.ArrowColor,
			"target-arrow-shape": "chevron",
			"text-opacity":       t.Edge.TextOpacity,
			"width":              t.Edge.Width,
		},
	})
	rules = append(rules, Rule{
		Selector: "node",
		Style: map[string]any{
			"background-fill":                 "linear-gradient",
			"background-gradient-direction":   "to-bottom-right",
			"background-gradient-stop-colors": t.Node.Colors.String(),
			"color":                           t.Node.TextColor,
			"height":                          t.Node.Size,
			"label":                           "data(label)",
			"overlay-color":                   t.Node.OverlayColor,
			"overlay-shape":                   "ellipse",
			"padding":                         "0",
			"shape":                           "ellipse",
			"text-halign":                     "center",
			"text-margin-y":                   t.Node.TextMarginY,
			"text-valign":                     "bottom",
			"underlay-shape":                  "ellipse",
			"width":                           t.Node.Size,
		},
	})
	for _, o := range t.Overrides {
		s := map[string]any{
			"background-gradient-stop-colors": o.Colors.String(),
		}
		if o.Size > 0 {
			s["height"] = o.Size
			s["width"] = o.Size
		}
		rules = append(rules, Rule{Selector: Selector(o.Category), Style: s})
	}
	return rules
}
