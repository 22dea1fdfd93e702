// Package render hands normalized action graphs to a drawing engine.
//
// # Overview
//
// The presenter is deliberately thin. [Render] normalizes a payload with
// [graph.Normalize], builds a [Config] from the elements, a [Layout]
// descriptor and the style table, and calls [Engine.Mount]. It performs no
// graph analysis of its own.
//
//	payload, err := graph.ReadPayloadFile("actions.json")
//	h, err := render.Render(cytoscape.New(), render.Target{Writer: w}, payload, "dagre")
//
// Errors from the engine, such as an unsupported layout name, are returned
// as is, so callers can match on their codes with [errors.Is].
//
// # Engines
//
//   - [cytoscape]: standalone HTML page driven by cytoscape.js
//   - [nodelink]: Graphviz DOT and SVG
//
// # Styles
//
// The [style] subpackage holds the category-keyed style table. Use
// [RenderWithTable] to draw with a themed table.
//
// [cytoscape]: github.com/matzehuels/actionviz/pkg/render/cytoscape
// [nodelink]: github.com/matzehuels/actionviz/pkg/render/nodelink
// [style]: github.com/matzehuels/actionviz/pkg/render/style
package render
