// Package cytoscape renders action graphs as standalone HTML pages.
//
// The page loads cytoscape.js with the dagre and klay layout extensions and
// mounts the configured elements, layout and style rules into a container
// element. The configuration is embedded as JSON, so the page needs no
// server beyond the CDN the scripts come from.
//
//	eng := cytoscape.New()
//	eng.Title = "Action graph"
//	h, err := render.Render(eng, render.Target{Writer: f}, payload, "dagre")
//
// Set [Engine.ReloadURL] to an SSE endpoint to have the page reload itself
// when the server signals a change.
package cytoscape
