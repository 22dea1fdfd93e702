package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/actionviz/pkg/graph"
	"github.com/matzehuels/actionviz/pkg/render/style"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore [graph.json | - | url]",
		Short: "Browse the nodes of an action graph",
		Long: `Browse the nodes of an action graph in the terminal.

Keys: ↑/↓ move, tab/shift+tab cycle the category filter, a clears it,
enter shows the selected node's edges, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(cmd.Context(), args[0])
		},
	}
}

func runExplore(ctx context.Context, arg string) error {
	in, _, elements, err := readElements(ctx, arg)
	if err != nil {
		return err
	}
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if arg == stdinArg {
		// stdin held the payload; read keys from the terminal instead.
		opts = append(opts, tea.WithInputTTY())
	}
	_, err = tea.NewProgram(NewExploreModel(in.name, elements), opts...).Run()
	return err
}

// =============================================================================
// ExploreModel - Interactive node browser
// =============================================================================

// ExploreModel is the bubbletea model for browsing nodes by category.
type ExploreModel struct {
	Title    string
	Elements graph.Elements
	Table    style.Table

	// Filter is the category shown, or "" for all.
	Filter  graph.Category
	Cursor  int
	Offset  int
	Height  int
	Details bool

	visible []int // indexes into Elements.Nodes
}

// NewExploreModel creates an explorer over elements showing all nodes.
func NewExploreModel(title string, elements graph.Elements) ExploreModel {
	m := ExploreModel{
		Title:    title,
		Elements: elements,
		Table:    style.Default(),
		Height:   15,
	}
	m.applyFilter()
	return m
}

// Visible returns the nodes that pass the current filter.
func (m ExploreModel) Visible() []graph.DisplayNode {
	out := make([]graph.DisplayNode, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.Elements.Nodes[idx]
	}
	return out
}

// Selected returns the node under the cursor.
func (m ExploreModel) Selected() (graph.DisplayNode, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.visible) {
		return graph.DisplayNode{}, false
	}
	return m.Elements.Nodes[m.visible[m.Cursor]], true
}

func (m *ExploreModel) applyFilter() {
	m.visible = nil
	for i, n := range m.Elements.Nodes {
		if m.Filter == "" || n.Category == m.Filter {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor = 0
	m.Offset = 0
}

// cycleFilter moves the filter through "", then each category, by step.
func (m *ExploreModel) cycleFilter(step int) {
	options := append([]graph.Category{""}, graph.Categories...)
	i := 0
	for j, c := range options {
		if c == m.Filter {
			i = j
			break
		}
	}
	i = (i + step + len(options)) % len(options)
	m.Filter = options[i]
	m.applyFilter()
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "tab":
			m.cycleFilter(1)
		case "shift+tab":
			m.cycleFilter(-1)
		case "a":
			m.Filter = ""
			m.applyFilter()
		case "enter":
			m.Details = !m.Details
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab filter  a all  ⏎ edges  q quit"))
	b.WriteString("\n\n")

	filter := "all"
	if m.Filter != "" {
		filter = string(m.Filter)
	}
	filterStyle := StyleHighlight
	if m.Filter != "" {
		filterStyle = categoryStyle(m.Table, m.Filter)
	}
	b.WriteString(StyleDim.Render("Category: ") + filterStyle.Render(filter))
	b.WriteString("\n")

	end := min(m.Offset+m.Height, len(m.visible))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Elements.Nodes[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.ID, n.Label, string(n.Category)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Label", "Category").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 3 {
				base = categoryStyle(m.Table, m.Elements.Nodes[m.visible[idx]].Category)
			}
			if idx == m.Cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(m.visible)), len(m.visible))))

	if n, ok := m.Selected(); ok && m.Details {
		b.WriteString("\n\n")
		b.WriteString(m.edgeView(n))
	}

	return b.String()
}

// edgeView lists the edges that touch n.
func (m ExploreModel) edgeView(n graph.DisplayNode) string {
	labels := make(map[string]string, len(m.Elements.Nodes))
	for _, node := range m.Elements.Nodes {
		labels[node.ID] = node.Label
	}

	var out, in []string
	for _, e := range m.Elements.Edges {
		suffix := ""
		if e.Label != "" {
			suffix = listDimStyle.Render(" (" + e.Label + ")")
		}
		if e.Source == n.ID {
			out = append(out, "  "+iconArrow+" "+labels[e.Target]+suffix)
		}
		if e.Target == n.ID {
			in = append(in, "  "+labels[e.Source]+" "+iconArrow+suffix)
		}
	}

	var b strings.Builder
	b.WriteString(StyleHighlight.Render(n.Label))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("depends on %d, required by %d", len(out), len(in))))
	for _, line := range out {
		b.WriteString("\n" + line)
	}
	for _, line := range in {
		b.WriteString("\n" + line)
	}
	return b.String()
}
