// Package pkg provides the core libraries for actionviz, a viewer for task
// runner action graphs.
//
// # Overview
//
// A task runner plans a build as a graph of actions (sync the workspace,
// set up a toolchain, install dependencies, run a task) and can dump that
// graph as JSON. actionviz turns the dump into an interactive diagram. The
// pkg directory is organized into these areas:
//
//  1. [graph] - Payload decoding and normalization into display elements
//  2. [render] - The presenter plus the cytoscape and Graphviz engines
//  3. [render/style] - The ordered style table and TOML themes
//  4. [cache] and [store] - Artifact caching and snapshot persistence
//  5. [errors], [httputil], [observability] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through actionviz:
//
//	Action graph JSON (v1 or v2)
//	         ↓
//	    [graph] package (decode, detect version, normalize)
//	         ↓
//	    [render/style] package (default table + theme overrides)
//	         ↓
//	    [render] package (presenter mounts elements into an engine)
//	         ↓
//	    HTML page / SVG / DOT / elements JSON
//
// # Quick Start
//
// Render a payload file into a standalone HTML page:
//
//	import (
//	    "os"
//	    "github.com/matzehuels/actionviz/pkg/graph"
//	    "github.com/matzehuels/actionviz/pkg/render"
//	    "github.com/matzehuels/actionviz/pkg/render/cytoscape"
//	)
//
//	// 1. Decode the payload; the version is detected from its shape
//	p, _ := graph.ReadPayloadFile("actions.json")
//
//	// 2. Normalize and mount with the default style table
//	out, _ := os.Create("actions.html")
//	h, _ := render.Render(cytoscape.New(), render.Target{Writer: out}, p, "dagre")
//
//	// 3. The handle describes what was drawn
//	fmt.Println(h.ID, h.Nodes, h.Edges)
//
// # Main Packages
//
// [graph] - The GraphNormalizer. Decodes version 1 (flat node-link) and
// version 2 (typed action records) payloads, formats action labels,
// classifies free-text labels into categories and produces the display
// elements every engine consumes.
//
// [render] - The StylePresenter. Defines the [render.Engine] contract,
// the layout descriptor and [render.Handle]. Rendering engines:
//
//   - [render/cytoscape]: standalone HTML page drawn by cytoscape.js
//   - [render/nodelink]: DOT source and SVG through Graphviz
//
// [render/style] - The ordered style table (edge rule, node rule, then
// per-category overrides) and TOML themes laid over it.
//
// [cache] - Content-addressed artifact cache with file, Redis and null
// backends, plus keyers that scope keys per deployment.
//
// [store] - Snapshot persistence for sharing graphs by URL, with memory,
// file and MongoDB backends.
//
// [httputil] - Fetching payloads from URLs with retry and backoff.
//
// [observability] - Hook interfaces for render, cache and HTTP events.
//
// [errors] - Structured error codes shared by the CLI and the viewer server.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/graph/...              # Specific package
//	go test -run Example ./pkg/graph     # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/render
// [render/style]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/render/style
// [render/cytoscape]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/render/cytoscape
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/store
// [httputil]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/actionviz/pkg/errors
package pkg
