// Package nodelink renders action graphs with Graphviz.
//
// # Overview
//
// The [Engine] translates a render configuration into Graphviz DOT and,
// unless asked for DOT only, renders it to SVG in-process. It is the
// offline counterpart of the browser-based cytoscape engine and accepts the
// same layout names:
//
//	dagre, klay, breadthfirst  dot
//	cose                       fdp
//	circle, concentric         circo
//	grid                       osage
//	random                     neato
//
// Graphviz program names (dot, neato, fdp, sfdp, circo, twopi, osage) are
// accepted as is. Anything else is rejected with INVALID_LAYOUT.
//
// # Usage
//
//	var buf bytes.Buffer
//	h, err := render.Render(nodelink.Engine{}, render.Target{Writer: &buf}, payload, "dagre")
//
// [ToDOT] and [RenderSVG] are exported for callers that want to edit the DOT
// source before rendering.
//
// # Styling
//
// Node colours and sizes come from the style table's resolved node styles.
// The three-stop gradient is approximated by a two-stop Graphviz gradient
// from the lightest to the darkest colour.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for SVG rendering.
package nodelink
