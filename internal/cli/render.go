package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/actionviz/internal/config"
	"github.com/matzehuels/actionviz/pkg/cache"
	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/graph"
	"github.com/matzehuels/actionviz/pkg/observability"
	"github.com/matzehuels/actionviz/pkg/render"
	"github.com/matzehuels/actionviz/pkg/render/cytoscape"
	"github.com/matzehuels/actionviz/pkg/render/nodelink"
	"github.com/matzehuels/actionviz/pkg/render/style"
)

// Output formats.
const (
	formatHTML = "html" // cytoscape page
	formatSVG  = "svg"  // graphviz drawing
	formatDOT  = "dot"  // graphviz source
	formatJSON = "json" // normalized elements
)

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatHTML: true, formatSVG: true, formatDOT: true, formatJSON: true}

// renderOpts holds the command-line flags of the render command that are
// not part of the shared config.
type renderOpts struct {
	output  string   // output file, base path for several formats, or "-"
	formats []string // html, svg, dot, json
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [graph.json | - | url]",
		Short: "Render an action graph to HTML, SVG, DOT or JSON",
		Long: `Render an action graph to HTML, SVG, DOT or JSON.

html writes a standalone cytoscape page, svg and dot use Graphviz, and json
writes the normalized nodes and edges. Outputs are written next to the input
unless -o is given; "-o -" writes a single format to stdout.

SVG renderings are cached locally; --no-cache bypasses the cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			if opts.output == "-" && len(opts.formats) > 1 {
				return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format")
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output directory, file (single format), base path (several) or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): html (default), svg, dot, json (comma-separated)")
	cmd.Flags().String("layout", "", "layout name (default dagre)")
	cmd.Flags().String("title", "", "page title (html)")
	cmd.Flags().String("theme", "", "TOML style theme")
	cmd.Flags().String("js-url", "", "base URL of the cytoscape bundles (html)")
	cmd.Flags().Bool("no-cache", false, "disable the artifact cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["html"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatHTML}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'html', 'svg', 'dot' or 'json')", f)
		}
	}
	return nil
}

// outputPath returns where format is written. An existing directory, or
// an output ending in a path separator, receives <base>.<format>. Otherwise
// a single format goes to output as given and several formats share output
// (minus any known extension) as their stem.
func outputPath(output, base, format string, single bool) string {
	if output == "" {
		return base + "." + format
	}
	if isDir(output) {
		return filepath.Join(output, filepath.Base(base)+"."+format)
	}
	if single {
		return output
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}

func isDir(path string) bool {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// renderer renders one payload to several formats.
type renderer struct {
	cfg       *config.Config
	in        input
	elements  graph.Elements
	table     style.Table
	themeHash string
	cache     cache.Cache
	keyer     cache.Keyer
}

func (c *CLI) runRender(ctx context.Context, arg string, cfg *config.Config, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	in, _, elements, err := readElements(ctx, arg)
	if err != nil {
		return err
	}
	table, themeHash, err := loadTable(cfg)
	if err != nil {
		return err
	}
	artifacts, err := c.newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer artifacts.Close()

	r := &renderer{
		cfg:       cfg,
		in:        in,
		elements:  elements,
		table:     table,
		themeHash: themeHash,
		cache:     artifacts,
		keyer:     cache.NewDefaultKeyer(),
	}

	single := len(opts.formats) == 1
	allCached := true
	var written []string
	for _, format := range opts.formats {
		data, cached, err := r.render(ctx, format)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		allCached = allCached && cached
		logger.Debugf("Generated %s: %d bytes", format, len(data))

		if opts.output == "-" {
			_, err := os.Stdout.Write(data)
			return err
		}
		path := outputPath(opts.output, in.base(), format, single)
		if err := writeOutput(path, data); err != nil {
			return err
		}
		written = append(written, path)
	}

	prog.done(fmt.Sprintf("Rendered %s", in.name))
	for _, path := range written {
		printFile(path)
	}
	printStats(len(elements.Nodes), len(elements.Edges), allCached)
	return nil
}

// render produces one format and reports whether it came from the cache.
// Only the graphviz formats are cached; html and json are cheap.
func (r *renderer) render(ctx context.Context, format string) ([]byte, bool, error) {
	switch format {
	case formatJSON:
		data, err := graph.MarshalElements(r.elements)
		return data, false, err

	case formatHTML:
		eng := &cytoscape.Engine{Title: r.cfg.Title, CDN: r.cfg.JSURL}
		data, err := r.mount(eng)
		return data, false, err

	case formatSVG, formatDOT:
		eng := nodelink.Engine{Format: nodelink.Format(format)}
		key := r.keyer.ArtifactKey(cache.Hash(r.in.data), cache.ArtifactKeyOpts{
			Engine: eng.Name(),
			Layout: r.cfg.Layout,
			Format: format,
			Theme:  r.themeHash,
		})
		if data, ok, _ := r.cache.Get(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, observability.KeyArtifact)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, observability.KeyArtifact)

		var spinner *Spinner
		if format == formatSVG {
			spinner = newSpinnerWithContext(ctx, "Rendering SVG...")
			spinner.Start()
		}
		data, err := r.mount(eng)
		if spinner != nil {
			spinner.Stop()
			if spinner.Cancelled() {
				return nil, false, ctx.Err()
			}
		}
		if err != nil {
			return nil, false, err
		}
		if err := r.cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			loggerFromContext(ctx).Warn("cache artifact", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, observability.KeyArtifact, len(data))
		}
		return data, false, nil
	}
	return nil, false, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
}

func (r *renderer) mount(eng render.Engine) ([]byte, error) {
	var buf bytes.Buffer
	_, err := render.Mount(eng, render.Target{Writer: &buf}, r.elements, r.cfg.Layout, r.table)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
