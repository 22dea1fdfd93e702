package graph

// =============================================================================
// Category - Node Classification
// =============================================================================

// Category classifies a display node. Style rules are keyed on it.
type Category string

// Known categories. The first seven match action kinds one to one.
const (
	CategorySyncWorkspace       Category = "sync-workspace"
	CategorySyncProject         Category = "sync-project"
	CategorySetupProto          Category = "setup-proto"
	CategorySetupEnvironment    Category = "setup-environment"
	CategorySetupToolchain      Category = "setup-toolchain"
	CategoryInstallDependencies Category = "install-dependencies"
	CategoryRunTask             Category = "run-task"
	CategoryUnknown             Category = "unknown"
)

// Categories lists every category in declaration order, unknown last.
var Categories = []Category{
	CategorySyncWorkspace,
	CategorySyncProject,
	CategorySetupProto,
	CategorySetupEnvironment,
	CategorySetupToolchain,
	CategoryInstallDependencies,
	CategoryRunTask,
	CategoryUnknown,
}

// ParseCategory returns the category named s and whether it is known.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return CategoryUnknown, false
}

// =============================================================================
// Display Elements
// =============================================================================

// DisplayNode is a node ready for a rendering engine.
// The JSON form uses "type" for the category because style selectors match
// on node[type="..."].
type DisplayNode struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Category Category `json:"type"`
}

// DisplayEdge is a directed edge ready for a rendering engine.
type DisplayEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Elements is the normalized element collection handed to an engine.
type Elements struct {
	Nodes []DisplayNode `json:"nodes"`
	Edges []DisplayEdge `json:"edges"`
}

// Stats counts nodes per category. Every known category is present in the
// result, with zero for categories that do not occur.
func Stats(e Elements) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	for _, n := range e.Nodes {
		counts[n.Category]++
	}
	return counts
}
