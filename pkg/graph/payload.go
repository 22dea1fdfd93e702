package graph

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/actionviz/pkg/errors"
)

// =============================================================================
// Payload - Tagged Union of Wire Versions
// =============================================================================

// Payload is a decoded graph in one of the two wire versions.
// The concrete type is either *PayloadV1 or *PayloadV2; no other
// implementations exist.
type Payload interface {
	// Version returns 1 or 2.
	Version() int

	payload()
}

// PayloadV1 is the flat node-link format.
type PayloadV1 struct {
	Nodes []NodeV1
	Edges []EdgeV1
}

// NodeV1 is a version 1 node. It carries no structured kind.
type NodeV1 struct {
	ID    int
	Label string
}

// EdgeV1 is a version 1 edge between integer node ids.
type EdgeV1 struct {
	ID     string
	Source int
	Target int
	Label  string
}

// PayloadV2 is the nested format with typed node records.
type PayloadV2 struct {
	Nodes []NodeV2
	Edges []EdgeV2
}

// NodeV2 is a version 2 node record. Exactly which fields are set depends on
// the record type: action nodes set Action, task records set Target, project
// records set ID. A nil pointer means the field was absent.
type NodeV2 struct {
	Action *ActionNode
	Target *string
	ID     *string
}

// EdgeV2 is a [source, target, label] tuple. Source and Target index into
// the node list.
type EdgeV2 struct {
	Source int
	Target int
	Label  string
}

// Version implements Payload.
func (*PayloadV1) Version() int { return 1 }

// Version implements Payload.
func (*PayloadV2) Version() int { return 2 }

func (*PayloadV1) payload() {}
func (*PayloadV2) payload() {}

// =============================================================================
// Decoding
// =============================================================================

// Decode parses a JSON payload and detects its version.
// A top-level "graph" field selects version 2; otherwise a "nodes" field is
// required and selects version 1. Anything else is rejected with
// INVALID_PAYLOAD naming the missing discriminator. Both versions require
// their node and edge lists, and version 1 records require every field.
func Decode(data []byte) (Payload, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "payload is not a JSON object")
	}
	if top == nil {
		return nil, errors.New(errors.ErrCodeInvalidPayload, "payload is null")
	}

	if raw, ok := top["graph"]; ok {
		return decodeV2(raw)
	}
	if raw, ok := top["nodes"]; ok {
		return decodeV1(raw, top["edges"])
	}
	return nil, errors.New(errors.ErrCodeInvalidPayload,
		`payload has neither a "graph" field (v2) nor a "nodes" field (v1)`)
}

type rawNodeV1 struct {
	ID    *int    `json:"id"`
	Label *string `json:"label"`
}

type rawEdgeV1 struct {
	ID     *string `json:"id"`
	Source *int    `json:"source"`
	Target *int    `json:"target"`
	Label  *string `json:"label"`
}

func decodeV1(nodesRaw, edgesRaw json.RawMessage) (*PayloadV1, error) {
	var nodes []rawNodeV1
	if err := json.Unmarshal(nodesRaw, &nodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode v1 nodes")
	}
	if nodes == nil {
		return nil, errors.New(errors.ErrCodeInvalidPayload, `v1 "nodes" field is null`)
	}

	p := &PayloadV1{Nodes: make([]NodeV1, len(nodes))}
	for i, n := range nodes {
		switch {
		case n.ID == nil:
			return nil, errors.New(errors.ErrCodeInvalidPayload, `v1 node %d: missing "id"`, i)
		case n.Label == nil:
			return nil, errors.New(errors.ErrCodeInvalidPayload, `v1 node %d: missing "label"`, i)
		}
		p.Nodes[i] = NodeV1{ID: *n.ID, Label: *n.Label}
	}

	if isNull(edgesRaw) {
		return nil, errors.New(errors.ErrCodeInvalidPayload, `v1 payload has no "edges" field`)
	}
	var edges []rawEdgeV1
	if err := json.Unmarshal(edgesRaw, &edges); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "decode v1 edges")
	}
	p.Edges = make([]EdgeV1, len(edges))
	for i, e := range edges {
		switch {
		case e.ID == nil:
			return nil, errors.New(errors.ErrCodeInvalidPayload, `v1 edge %d: missing "id"`, i)
		case e.Source == nil:
			return nil, errors.New(errors.ErrCodeInvalidPayload, `v1 edge %d: missing "source"`, i)
		case e.Target == nil:
			return nil, errors.New(errors.ErrCodeInvalidPayload, `v1 edge %d: missing "target"`, i)
		case e.Label == nil:
			return nil, errors.New(errors.ErrCodeInvalidPayload, `v1 edge %d: missing "label"`, i)
		}
		p.Edges[i] = EdgeV1{ID: *e.ID, Source: *e.Source, Target: *e.Target, Label: *e.Label}
	}
	return p, nil
}

type rawGraphV2 struct {
	Nodes []json.RawMessage `json:"nodes"`
	Edges []json.RawMessage `json:"edges"`
}

func decodeV2(raw json.RawMessage) (*PayloadV2, error) {
	if isNull(raw) {
		return nil, errors.New(errors.ErrCodeInvalidPayload, `v2 "graph" field is null`)
	}
	var g rawGraphV2
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, `decode v2 "graph"`)
	}
	if g.Nodes == nil {
		return nil, errors.New(errors.ErrCodeInvalidPayload, `v2 "graph" has no "nodes" field`)
	}

	p := &PayloadV2{Nodes: make([]NodeV2, len(g.Nodes))}
	for i, rn := range g.Nodes {
		n, err := decodeNodeV2(rn)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "v2 node %d", i)
		}
		p.Nodes[i] = n
	}

	if g.Edges == nil {
		return nil, errors.New(errors.ErrCodeInvalidPayload, `v2 "graph" has no "edges" field`)
	}
	p.Edges = make([]EdgeV2, len(g.Edges))
	for i, re := range g.Edges {
		e, err := decodeEdgeV2(re)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPayload, err, "v2 edge %d", i)
		}
		p.Edges[i] = e
	}
	return p, nil
}

func decodeNodeV2(raw json.RawMessage) (NodeV2, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return NodeV2{}, err
	}

	var n NodeV2
	if kindRaw, ok := fields["action"]; ok {
		var kind string
		if err := json.Unmarshal(kindRaw, &kind); err != nil {
			return NodeV2{}, err
		}
		a := ActionNode{Kind: ActionKind(kind)}
		if p, ok := fields["params"]; ok && !isNull(p) {
			if err := json.Unmarshal(p, &a.Params); err != nil {
				return NodeV2{}, err
			}
		}
		n.Action = &a
	}
	if t, ok := fields["target"]; ok {
		var s string
		if err := json.Unmarshal(t, &s); err != nil {
			return NodeV2{}, err
		}
		n.Target = &s
	}
	if id, ok := fields["id"]; ok {
		var s string
		if err := json.Unmarshal(id, &s); err != nil {
			return NodeV2{}, err
		}
		n.ID = &s
	}
	return n, nil
}

// decodeEdgeV2 parses a [source, target, label] tuple. A null label is
// accepted and becomes empty; the action graph emits unit edge weights.
func decodeEdgeV2(raw json.RawMessage) (EdgeV2, error) {
	var tuple []json.RawMessage
	if err := json.Unmarshal(raw, &tuple); err != nil {
		return EdgeV2{}, err
	}
	if len(tuple) != 3 {
		return EdgeV2{}, errors.New(errors.ErrCodeInvalidPayload,
			"edge tuple has %d elements, want 3", len(tuple))
	}

	var e EdgeV2
	if err := json.Unmarshal(tuple[0], &e.Source); err != nil {
		return EdgeV2{}, err
	}
	if err := json.Unmarshal(tuple[1], &e.Target); err != nil {
		return EdgeV2{}, err
	}
	if !isNull(tuple[2]) {
		if err := json.Unmarshal(tuple[2], &e.Label); err != nil {
			return EdgeV2{}, err
		}
	}
	return e, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
