// Package graph decodes action graph payloads and normalizes them into
// display elements.
//
// The build tool emits its action, project and task graphs in one of two wire
// versions. This package is the single place that knows both shapes.
//
// # Wire Versions
//
// Version 1 is a flat node-link object with integer node ids:
//
//	{
//	  "nodes": [{"id": 1, "label": "SyncWorkspace"}],
//	  "edges": [{"id": "1 -> 2", "source": 1, "target": 2, "label": "production"}]
//	}
//
// Version 2 nests a graph whose nodes are typed records and whose edges are
// [source, target, label] tuples indexing into the node list:
//
//	{
//	  "graph": {
//	    "nodes": [{"action": "sync-project", "params": {"projectId": "app"}}],
//	    "edges": [[0, 1, "development"]]
//	  }
//	}
//
// A payload is version 2 if and only if it has a "graph" field. [Decode]
// returns a [Payload], a sealed union of [*PayloadV1] and [*PayloadV2].
//
// Every field shown above is required. A missing node or edge list, a
// version 1 record without its label, or an action without the parameter its
// label needs fails with INVALID_PAYLOAD rather than rendering a blank. The
// one exception is a null version 2 edge label, which becomes empty because
// the action graph emits unit edge weights there.
//
// # Normalization
//
// [Normalize] turns either version into [Elements]: display nodes with an id,
// label and [Category], and display edges with shortened dependency labels.
//
//	p, err := graph.ReadPayloadFile("action-graph.json")
//	if err != nil {
//	    return err
//	}
//	elems, err := graph.Normalize(p)
//
// Version 2 action nodes get their labels from [FormatActionLabel]. Version 1
// nodes only carry a label, so [ClassifyLabel] recovers the category with
// prefix heuristics. The heuristics cannot recover setup-proto; such nodes
// classify as [CategoryUnknown].
//
// # Errors
//
// Malformed payloads return errors with code INVALID_PAYLOAD naming the
// offending record. Action kinds outside the known set return UNKNOWN_ACTION.
// See package [github.com/matzehuels/actionviz/pkg/errors].
//
// # Concurrency
//
// All functions are pure and safe for concurrent use.
package graph
