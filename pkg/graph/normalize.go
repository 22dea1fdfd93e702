package graph

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/actionviz/pkg/errors"
)

// Normalize extracts display nodes and edges from a payload of either version.
func Normalize(p Payload) (Elements, error) {
	nodes, err := ExtractNodes(p)
	if err != nil {
		return Elements{}, err
	}
	edges, err := ExtractEdges(p)
	if err != nil {
		return Elements{}, err
	}
	return Elements{Nodes: nodes, Edges: edges}, nil
}

// ExtractNodes returns the display nodes of p.
//
// Version 2 node ids are their list positions. Action nodes are labelled by
// [FormatActionLabel] and categorized by kind; task records use their target,
// project records their id, and both are [CategoryUnknown].
//
// Version 1 node ids are stringified and categories come from [ClassifyLabel].
func ExtractNodes(p Payload) ([]DisplayNode, error) {
	switch p := p.(type) {
	case *PayloadV2:
		out := make([]DisplayNode, len(p.Nodes))
		for i, n := range p.Nodes {
			dn, err := nodeFromV2(i, n)
			if err != nil {
				return nil, err
			}
			out[i] = dn
		}
		return out, nil

	case *PayloadV1:
		out := make([]DisplayNode, len(p.Nodes))
		for i, n := range p.Nodes {
			out[i] = DisplayNode{
				ID:       strconv.Itoa(n.ID),
				Label:    n.Label,
				Category: ClassifyLabel(n.Label),
			}
		}
		return out, nil

	case nil:
		return nil, errors.New(errors.ErrCodeInvalidPayload, "payload is nil")
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported payload type %T", p)
}

// ExtractEdges returns the display edges of p with shortened labels.
// Version 2 edge ids have the form "<source> -> <target>".
func ExtractEdges(p Payload) ([]DisplayEdge, error) {
	switch p := p.(type) {
	case *PayloadV2:
		out := make([]DisplayEdge, len(p.Edges))
		for i, e := range p.Edges {
			out[i] = DisplayEdge{
				ID:     fmt.Sprintf("%d -> %d", e.Source, e.Target),
				Source: strconv.Itoa(e.Source),
				Target: strconv.Itoa(e.Target),
				Label:  ShortenDepLabel(e.Label),
			}
		}
		return out, nil

	case *PayloadV1:
		out := make([]DisplayEdge, len(p.Edges))
		for i, e := range p.Edges {
			out[i] = DisplayEdge{
				ID:     e.ID,
				Source: strconv.Itoa(e.Source),
				Target: strconv.Itoa(e.Target),
				Label:  ShortenDepLabel(e.Label),
			}
		}
		return out, nil

	case nil:
		return nil, errors.New(errors.ErrCodeInvalidPayload, "payload is nil")
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported payload type %T", p)
}

func nodeFromV2(index int, n NodeV2) (DisplayNode, error) {
	dn := DisplayNode{ID: strconv.Itoa(index), Category: CategoryUnknown}

	switch {
	case n.Action != nil:
		label, err := FormatActionLabel(*n.Action)
		if err != nil {
			return DisplayNode{}, fmt.Errorf("node %d: %w", index, err)
		}
		cat, _ := n.Action.Kind.Category()
		dn.Label = label
		dn.Category = cat
	case n.Target != nil:
		dn.Label = *n.Target
	case n.ID != nil:
		dn.Label = *n.ID
	}
	return dn, nil
}
