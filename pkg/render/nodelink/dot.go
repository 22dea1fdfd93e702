package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/render"
	"github.com/matzehuels/actionviz/pkg/render/style"
)

// Background is the canvas colour of rendered diagrams. Labels are light,
// so the canvas is dark.
const Background = "#10141f"

// programs maps cytoscape layout names onto the closest Graphviz program.
var programs = map[string]graphviz.Layout{
	"dagre":        graphviz.DOT,
	"klay":         graphviz.DOT,
	"breadthfirst": graphviz.DOT,
	"cose":         graphviz.FDP,
	"circle":       graphviz.CIRCO,
	"concentric":   graphviz.CIRCO,
	"grid":         graphviz.OSAGE,
	"random":       graphviz.NEATO,

	"dot":   graphviz.DOT,
	"neato": graphviz.NEATO,
	"fdp":   graphviz.FDP,
	"sfdp":  graphviz.SFDP,
	"circo": graphviz.CIRCO,
	"twopi": graphviz.TWOPI,
	"osage": graphviz.OSAGE,
}

// Program returns the Graphviz program for a layout name. Unsupported names
// return INVALID_LAYOUT.
func Program(layout string) (graphviz.Layout, error) {
	if p, ok := programs[layout]; ok {
		return p, nil
	}
	names := make([]string, 0, len(programs))
	for n := range programs {
		names = append(names, n)
	}
	sort.Strings(names)
	return "", errors.New(errors.ErrCodeInvalidLayout,
		"unsupported layout %q (want one of %s)", layout, strings.Join(names, ", "))
}

// Format selects what [Engine] writes.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// Engine draws graphs with Graphviz. It implements render.Engine.
type Engine struct {
	// Format defaults to SVG.
	Format Format
}

// Name implements render.Engine.
func (e Engine) Name() string { return "graphviz" }

// Mount implements render.Engine.
func (e Engine) Mount(target render.Target, cfg render.Config) error {
	prog, err := Program(cfg.Layout.Name)
	if err != nil {
		return err
	}
	if target.Writer == nil {
		return errors.New(errors.ErrCodeInvalidInput, "graphviz: no output writer")
	}

	dot := ToDOT(cfg)
	switch e.Format {
	case FormatDOT:
		_, err = io.WriteString(target.Writer, dot)
		return err
	case FormatSVG, "":
		svg, err := RenderSVG(context.Background(), dot, prog)
		if err != nil {
			return err
		}
		_, err = target.Writer.Write(svg)
		return err
	}
	return errors.New(errors.ErrCodeInvalidFormat, "graphviz: unsupported format %q", e.Format)
}

// =============================================================================
// DOT Generation
// =============================================================================

// ToDOT converts a render configuration to Graphviz DOT.
//
// Nodes are fixed-size ellipses filled with their category gradient, labelled
// underneath with xlabel. Edges carry their labels and the shared edge style.
// Node sizes are in pixels and converted at 72 per inch.
func ToDOT(cfg render.Config) string {
	t := cfg.Table
	prog, _ := Program(cfg.Layout.Name)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", "actions")
	if prog != "" {
		fmt.Fprintf(&buf, "  layout=%s;\n", prog)
	}
	buf.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", Background)
	buf.WriteString("  forcelabels=true;\n")
	if cfg.Layout.SpacingFactor > 0 {
		fmt.Fprintf(&buf, "  nodesep=%s;\n", num(0.5*cfg.Layout.SpacingFactor))
		fmt.Fprintf(&buf, "  ranksep=%s;\n", num(0.75*cfg.Layout.SpacingFactor))
	}
	fmt.Fprintf(&buf, "  node [shape=ellipse, style=filled, fixedsize=true, label=\"\", gradientangle=315, fontcolor=%q, penwidth=0];\n",
		hexColor(t.Node.TextColor))
	fmt.Fprintf(&buf, "  edge [color=%q, fontcolor=%q, fontsize=%d, penwidth=%d, arrowhead=vee, arrowsize=%s];\n",
		withAlpha(t.Edge.LineColor, t.Edge.LineOpacity),
		withAlpha(t.Edge.TextColor, t.Edge.TextOpacity),
		t.Edge.FontSize, t.Edge.Width, num(t.Edge.ArrowScale/2))
	buf.WriteString("\n")

	for _, n := range cfg.Elements.Nodes {
		s := t.Resolve(n.Category)
		size := num(float64(s.Size) / 72)
		fmt.Fprintf(&buf, "  %q [xlabel=%q, width=%s, height=%s, fillcolor=%q, class=%q];\n",
			n.ID, n.Label, size, size, gradient(s.Colors), string(n.Category))
	}

	buf.WriteString("\n")
	for _, e := range cfg.Elements.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [id=%q, label=%q];\n", e.Source, e.Target, e.ID, e.Label)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [id=%q];\n", e.Source, e.Target, e.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// gradient fills from the lightest to the darkest stop.
func gradient(g style.Gradient) string {
	return hexColor(g[0]) + ":" + hexColor(g[2])
}

// hexColor expands #rgb to #rrggbb, which is the only hex form Graphviz reads.
func hexColor(c string) string {
	if len(c) == 4 && c[0] == '#' {
		return "#" + string([]byte{c[1], c[1], c[2], c[2], c[3], c[3]})
	}
	return c
}

// withAlpha appends an alpha channel for opacities below one.
func withAlpha(c string, opacity float64) string {
	c = hexColor(c)
	if opacity <= 0 || opacity >= 1 || len(c) != 7 {
		return c
	}
	return fmt.Sprintf("%s%02x", c, int(math.Round(opacity*255)))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// =============================================================================
// SVG Rendering
// =============================================================================

// RenderSVG renders DOT source to SVG with the given Graphviz program.
func RenderSVG(ctx context.Context, dot string, prog graphviz.Layout) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if prog != "" {
		gv.SetLayout(prog)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
