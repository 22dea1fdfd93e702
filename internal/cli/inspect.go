package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/actionviz/pkg/graph"
	"github.com/matzehuels/actionviz/pkg/render/style"
)

// inspectCommand creates the inspect command that summarizes a payload.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [graph.json | - | url]",
		Short: "Summarize an action graph",
		Long: `Summarize an action graph.

Prints the payload version, node and edge counts, and how many nodes fall
into each category, with the category's colour.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

// summary is the machine-readable form of inspect's output.
type summary struct {
	Version    int                    `json:"version"`
	Nodes      int                    `json:"nodes"`
	Edges      int                    `json:"edges"`
	Categories map[graph.Category]int `json:"categories"`
}

func runInspect(ctx context.Context, arg string, asJSON bool) error {
	in, p, elements, err := readElements(ctx, arg)
	if err != nil {
		return err
	}
	sum := summary{
		Version:    p.Version(),
		Nodes:      len(elements.Nodes),
		Edges:      len(elements.Edges),
		Categories: graph.Stats(elements),
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	fmt.Println(StyleTitle.Render(in.name))
	printKeyValue("Version", fmt.Sprintf("v%d", sum.Version))
	printKeyValue("Nodes", StyleNumber.Render(fmt.Sprint(sum.Nodes)))
	printKeyValue("Edges", StyleNumber.Render(fmt.Sprint(sum.Edges)))
	fmt.Println()
	fmt.Println(categoryTable(sum.Categories, style.Default()))
	return nil
}

// categoryTable renders per-category counts, one row per known category,
// with a swatch in the category's mid gradient colour.
func categoryTable(counts map[graph.Category]int, t style.Table) string {
	rows := make([][]string, 0, len(graph.Categories))
	for _, cat := range graph.Categories {
		rows = append(rows, []string{categorySwatch(t, cat), string(cat), fmt.Sprint(counts[cat])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Category", "Nodes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 2 {
				base = base.Align(lipgloss.Right)
			}
			if row < len(graph.Categories) && counts[graph.Categories[row]] == 0 {
				return base.Foreground(colorDim)
			}
			return base
		}).
		String()
}
