package cytoscape

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/graph"
	"github.com/matzehuels/actionviz/pkg/render"
	"github.com/matzehuels/actionviz/pkg/render/style"
)

// DefaultCDN serves the cytoscape bundles when no CDN is configured.
const DefaultCDN = "https://unpkg.com"

// DatastarURL is the client script that drives live reload.
const DatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

// DefaultTitle is the page title when none is set.
const DefaultTitle = "Action graph"

// Layouts lists the layout names the engine accepts. dagre and klay come
// from extensions loaded next to cytoscape; the rest are built in.
var Layouts = []string{
	"cose",
	"dagre",
	"klay",
	"breadthfirst",
	"circle",
	"concentric",
	"grid",
	"random",
}

// scripts are loaded in order; the extensions register themselves with the
// global cytoscape instance.
var scripts = []string{
	"cytoscape@3.30.2/dist/cytoscape.min.js",
	"dagre@0.8.5/dist/dagre.min.js",
	"cytoscape-dagre@2.5.0/cytoscape-dagre.js",
	"klayjs@0.4.1/klay.js",
	"cytoscape-klay@3.1.4/cytoscape-klay.js",
}

// Engine writes a standalone HTML page that draws the graph with
// cytoscape.js in the browser.
type Engine struct {
	// Title is the page title.
	Title string

	// CDN is the base URL the cytoscape bundles are loaded from.
	CDN string

	// ReloadURL, when set, is an SSE endpoint the page subscribes to. The
	// server answers with a reload script when the graph changes.
	ReloadURL string
}

// New returns an engine with the default title and CDN.
func New() *Engine {
	return &Engine{Title: DefaultTitle, CDN: DefaultCDN}
}

// Name implements render.Engine.
func (e *Engine) Name() string { return "cytoscape" }

// ValidateLayout returns INVALID_LAYOUT unless name is in [Layouts].
func ValidateLayout(name string) error {
	if slices.Contains(Layouts, name) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidLayout,
		"unsupported layout %q (want one of %s)", name, strings.Join(Layouts, ", "))
}

// Mount implements render.Engine.
func (e *Engine) Mount(target render.Target, cfg render.Config) error {
	if err := ValidateLayout(cfg.Layout.Name); err != nil {
		return err
	}
	if target.Writer == nil {
		return errors.New(errors.ErrCodeInvalidInput, "cytoscape: no output writer")
	}

	data := pageData{
		Title:     e.title(),
		Container: target.Container,
		Scripts:   e.scriptURLs(),
		ReloadURL: e.ReloadURL,
		Datastar:  DatastarURL,
		Nodes:     len(cfg.Elements.Nodes),
		Edges:     len(cfg.Elements.Edges),
		Config: pageConfig{
			Container: target.Container,
			Elements:  ToElements(cfg.Elements),
			Layout:    cfg.Layout,
			Style:     cfg.Style,
		},
	}
	if err := pageTemplate.Execute(target.Writer, data); err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

func (e *Engine) title() string {
	if e.Title == "" {
		return DefaultTitle
	}
	return e.Title
}

func (e *Engine) scriptURLs() []string {
	base := strings.TrimSuffix(e.CDN, "/")
	if base == "" {
		base = DefaultCDN
	}
	urls := make([]string, len(scripts))
	for i, s := range scripts {
		urls[i] = base + "/" + s
	}
	return urls
}

// =============================================================================
// Element Conversion
// =============================================================================

// Element wraps node or edge fields in cytoscape's element definition shape.
type Element[T any] struct {
	Data T `json:"data"`
}

// ElementSet is cytoscape's grouped element collection.
type ElementSet struct {
	Nodes []Element[graph.DisplayNode] `json:"nodes"`
	Edges []Element[graph.DisplayEdge] `json:"edges"`
}

// ToElements converts normalized elements into cytoscape's element shape.
func ToElements(e graph.Elements) ElementSet {
	set := ElementSet{
		Nodes: make([]Element[graph.DisplayNode], len(e.Nodes)),
		Edges: make([]Element[graph.DisplayEdge], len(e.Edges)),
	}
	for i, n := range e.Nodes {
		set.Nodes[i] = Element[graph.DisplayNode]{Data: n}
	}
	for i, ed := range e.Edges {
		set.Edges[i] = Element[graph.DisplayEdge]{Data: ed}
	}
	return set
}

type pageConfig struct {
	Container string        `json:"container"`
	Elements  ElementSet    `json:"elements"`
	Layout    render.Layout `json:"layout"`
	Style     []style.Rule  `json:"style"`
}
