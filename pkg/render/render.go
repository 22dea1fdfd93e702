package render

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/graph"
	"github.com/matzehuels/actionviz/pkg/observability"
	"github.com/matzehuels/actionviz/pkg/render/style"
)

// DefaultLayout is the layout used when none is given.
const DefaultLayout = "dagre"

// DefaultContainer is the element id engines mount into when the target
// names none.
const DefaultContainer = "graph"

// =============================================================================
// Engine Contract
// =============================================================================

// Engine lays out and draws a configured element collection.
//
// Implementations reject layout names they do not support with
// INVALID_LAYOUT. Render returns engine errors unmodified.
type Engine interface {
	// Name identifies the engine in handles and cache keys.
	Name() string

	// Mount draws cfg into target.
	Mount(target Target, cfg Config) error
}

// Target is the surface an engine draws into.
type Target struct {
	// Container is the id of the element the diagram is mounted in.
	Container string

	// Writer receives the engine output.
	Writer io.Writer
}

// Config is everything an engine needs to draw a graph.
type Config struct {
	Elements graph.Elements
	Layout   Layout
	Style    []style.Rule

	// Table is the style table Style was rendered from. Engines that do not
	// speak cytoscape's rule vocabulary resolve node styles from it.
	Table style.Table
}

// Layout is the layout descriptor handed to the engine.
type Layout struct {
	Name                        string  `json:"name"`
	Fit                         bool    `json:"fit"`
	NodeDimensionsIncludeLabels bool    `json:"nodeDimensionsIncludeLabels"`
	SpacingFactor               float64 `json:"spacingFactor"`
}

// NewLayout returns the descriptor for name with the fixed presentation
// settings: fit to the viewport, include labels in node dimensions and
// unit spacing.
func NewLayout(name string) Layout {
	return Layout{
		Name:                        name,
		Fit:                         true,
		NodeDimensionsIncludeLabels: true,
		SpacingFactor:               1,
	}
}

// Handle identifies a mounted diagram.
type Handle struct {
	ID     string
	Engine string
	Layout string
	Nodes  int
	Edges  int
}

// =============================================================================
// Presenter
// =============================================================================

// Render normalizes payload and mounts it into target with the default style
// table.
func Render(engine Engine, target Target, payload graph.Payload, layout string) (Handle, error) {
	return RenderWithTable(engine, target, payload, layout, style.Default())
}

// RenderWithTable is like [Render] with a custom style table.
func RenderWithTable(engine Engine, target Target, payload graph.Payload, layout string, table style.Table) (Handle, error) {
	elements, err := graph.Normalize(payload)
	if err != nil {
		return Handle{}, err
	}
	return Mount(engine, target, elements, layout, table)
}

// Mount hands already normalized elements to engine.
func Mount(engine Engine, target Target, elements graph.Elements, layout string, table style.Table) (Handle, error) {
	if engine == nil {
		return Handle{}, errors.New(errors.ErrCodeInvalidInput, "no rendering engine")
	}
	if layout == "" {
		layout = DefaultLayout
	}
	if target.Container == "" {
		target.Container = DefaultContainer
	}

	cfg := Config{
		Elements: elements,
		Layout:   NewLayout(layout),
		Style:    table.Rules(),
		Table:    table,
	}
	hooks := observability.Render()
	hooks.OnRenderStart(engine.Name(), layout, len(elements.Nodes))
	start := time.Now()
	err := engine.Mount(target, cfg)
	hooks.OnRenderComplete(engine.Name(), layout, time.Since(start), err)
	if err != nil {
		return Handle{}, err
	}

	return Handle{
		ID:     uuid.NewString(),
		Engine: engine.Name(),
		Layout: layout,
		Nodes:  len(elements.Nodes),
		Edges:  len(elements.Edges),
	}, nil
}
