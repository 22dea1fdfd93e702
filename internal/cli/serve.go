package cli

import (
	"context"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/matzehuels/actionviz/internal/config"
	"github.com/matzehuels/actionviz/internal/server"
	"github.com/matzehuels/actionviz/pkg/cache"
	"github.com/matzehuels/actionviz/pkg/httputil"
)

// serveCommand creates the serve command that starts the local viewer.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [graph.json | - | url]",
		Short: "Serve an action graph in the browser",
		Long: `Serve an action graph in the browser.

The viewer draws the graph with cytoscape.js. The payload is re-read on
every request; with --watch the page also reloads itself when the file
changes. Use "-" to read the payload from stdin or pass an http(s) URL.

Snapshots can be posted to /snapshots and are kept in MongoDB (--mongo)
or under ~/.config/actionviz/snapshots.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), args[0], cfg)
		},
	}

	cmd.Flags().String("host", config.DefaultHost, "address to bind")
	cmd.Flags().IntP("port", "p", config.DefaultPort, "port to listen on (0 picks a free port)")
	cmd.Flags().String("title", "", "page title")
	cmd.Flags().String("layout", "", "cytoscape layout (default dagre)")
	cmd.Flags().String("theme", "", "TOML style theme")
	cmd.Flags().String("js-url", "", "base URL of the cytoscape bundles")
	cmd.Flags().BoolP("watch", "w", false, "reload the page when the file changes")
	cmd.Flags().Bool("open", false, "open the viewer in the default browser")
	cmd.Flags().String("redis", "", "redis URL for the artifact cache")
	cmd.Flags().String("mongo", "", "mongodb URI for snapshots")
	cmd.Flags().String("mongo-database", "", "mongodb database (default actionviz)")
	cmd.Flags().Bool("no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, arg string, cfg *config.Config) error {
	logger := loggerFromContext(ctx)

	src, err := c.newSource(ctx, arg, cfg)
	if err != nil {
		return err
	}

	table, themeHash, err := loadTable(cfg)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Connecting backends...")
	spinner.Start()
	artifacts, err := c.newCache(ctx, cfg)
	if err != nil {
		spinner.StopWithError("Cache unavailable")
		return err
	}
	defer artifacts.Close()

	snapshots, err := c.newStore(ctx, cfg)
	if err != nil {
		spinner.StopWithError("Snapshot store unavailable")
		return err
	}
	defer snapshots.Close(context.Background())
	spinner.Stop()

	keyer := cache.NewDefaultKeyer()
	if cfg.Redis != "" {
		keyer = cache.NewScopedKeyer(keyer, appName+":")
	}

	srv := server.New(server.Config{
		Source:    src,
		Title:     cfg.Title,
		Layout:    cfg.Layout,
		CDN:       cfg.JSURL,
		Table:     table,
		ThemeHash: themeHash,
		Watch:     cfg.Watch,
		Store:     snapshots,
		Cache:     artifacts,
		Keyer:     keyer,
		Logger:    logger,
	})

	ln, err := server.Listen(cfg.Addr())
	if err != nil {
		return err
	}
	url := viewerURL(ln.Addr())

	printSuccess("Serving %s", StyleHighlight.Render(arg))
	printKeyValue("Viewer", StyleLink.Render(url))
	printKeyValue("Layout", cfg.Layout)
	printKeyValue("Snapshots", storeLocation(cfg, snapshots))
	if cfg.Watch {
		printKeyValue("Watching", StyleValue.Render("on"))
	}
	printDetail("Press Ctrl+C to stop")

	if cfg.Open {
		if err := openBrowser(url); err != nil {
			printWarning("Could not open browser: %v", err)
		}
	}

	return srv.Serve(ctx, ln)
}

// newSource picks the payload source for arg. Files are re-read per
// request; stdin and URLs are read once.
func (c *CLI) newSource(ctx context.Context, arg string, cfg *config.Config) (server.Source, error) {
	if arg != stdinArg && !httputil.IsURL(arg) {
		return server.NewFileSource(arg, loggerFromContext(ctx))
	}
	if cfg.Watch {
		printWarning("--watch only applies to files")
		cfg.Watch = false
	}
	in, err := readInput(ctx, arg)
	if err != nil {
		return nil, err
	}
	return server.StaticSource(in.data), nil
}

// viewerURL formats the listener address for the browser. Wildcard hosts
// are shown as localhost.
func viewerURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return "http://" + addr.String() + "/"
	}
	host := tcp.IP.String()
	if tcp.IP.IsUnspecified() {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s/", net.JoinHostPort(host, fmt.Sprint(tcp.Port)))
}
