package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/actionviz/internal/config"
	"github.com/matzehuels/actionviz/pkg/store"
)

// snapshotCommand creates the snapshot management command.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and list graph snapshots",
		Long: `Save and list graph snapshots.

Snapshots are stored in MongoDB when --mongo (or ACTIONVIZ_MONGO) is set,
otherwise under ~/.config/actionviz/snapshots. The viewer serves the same
store at /snapshots.`,
	}

	cmd.PersistentFlags().String("mongo", "", "mongodb URI")
	cmd.PersistentFlags().String("mongo-database", "", "mongodb database (default actionviz)")

	cmd.AddCommand(c.snapshotSaveCommand())
	cmd.AddCommand(c.snapshotListCommand())
	cmd.AddCommand(c.snapshotExportCommand())

	return cmd
}

// withStore loads the config, opens the store and runs fn.
func (c *CLI) withStore(cmd *cobra.Command, fn func(context.Context, store.Store) error) error {
	cfg, err := c.loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())
	c.Logger.Debug("opened snapshot store", "location", storeLocation(cfg, st))
	return fn(ctx, st)
}

func (c *CLI) snapshotSaveCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "save [graph.json | - | url]",
		Short: "Store a payload as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, st store.Store) error {
				in, err := readInput(ctx, args[0])
				if err != nil {
					return err
				}
				snap, err := st.Save(ctx, store.Snapshot{Title: title, Payload: in.data})
				if err != nil {
					return err
				}
				printSuccess("Saved snapshot %s", StyleHighlight.Render(snap.ID))
				printDetail("%d nodes, %d edges", snap.Nodes, snap.Edges)
				printNextStep("View it", fmt.Sprintf("%s serve %s, then open /snapshots/%s", appName, args[0], snap.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "snapshot title")

	return cmd
}

func (c *CLI) snapshotListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, st store.Store) error {
				snaps, err := st.List(ctx, limit)
				if err != nil {
					return err
				}
				if len(snaps) == 0 {
					printInfo("No snapshots")
					return nil
				}
				fmt.Println(snapshotTable(snaps, time.Now()))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of snapshots")

	return cmd
}

func (c *CLI) snapshotExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Write a snapshot's payload to a file or stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(ctx context.Context, st store.Store) error {
				snap, err := st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				if output == "" || output == "-" {
					_, err := os.Stdout.Write(snap.Payload)
					return err
				}
				if err := writeOutput(output, snap.Payload); err != nil {
					return err
				}
				printFile(output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

// snapshotTable renders snapshot summaries newest first.
func snapshotTable(snaps []store.Snapshot, now time.Time) string {
	rows := make([][]string, len(snaps))
	for i, s := range snaps {
		title := s.Title
		if title == "" {
			title = "—"
		}
		rows[i] = []string{
			s.ID,
			title,
			fmt.Sprintf("v%d", s.Version),
			fmt.Sprint(s.Nodes),
			fmt.Sprint(s.Edges),
			formatRelativeTime(s.CreatedAt, now),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Version", "Nodes", "Edges", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 5:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		}).
		String()
}

// formatRelativeTime formats t relative to now.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// storeLocation describes where snapshots live, for messages.
func storeLocation(cfg *config.Config, st store.Store) string {
	if cfg.Mongo != "" {
		return "mongodb"
	}
	if fs, ok := st.(*store.FileStore); ok {
		return fs.Path()
	}
	return "memory"
}
