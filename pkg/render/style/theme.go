package style

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/actionviz/pkg/errors"
	"github.com/matzehuels/actionviz/pkg/graph"
)

// Theme is a partial style table read from TOML. Unset fields keep the
// values of the table the theme is applied to.
//
//	[node]
//	colors = ["#d7dfe9", "#bdc9db", "#97a1af"]
//	size = 70
//
//	[edge]
//	line_color = "#ffffff"
//
//	[categories.run-task]
//	colors = ["#6e58d1", "#4a2ec6", "#3b259e"]
//	size = 75
type Theme struct {
	Node       *NodeTheme               `toml:"node"`
	Edge       *EdgeTheme               `toml:"edge"`
	Categories map[string]CategoryTheme `toml:"categories"`
}

// NodeTheme overrides the default node rule.
type NodeTheme struct {
	Colors       []string `toml:"colors"`
	Size         int      `toml:"size"`
	TextColor    string   `toml:"text_color"`
	OverlayColor string   `toml:"overlay_color"`
}

// EdgeTheme overrides the default edge rule.
type EdgeTheme struct {
	LineColor   string   `toml:"line_color"`
	ArrowColor  string   `toml:"arrow_color"`
	TextColor   string   `toml:"text_color"`
	LineOpacity *float64 `toml:"line_opacity"`
	Width       int      `toml:"width"`
	FontSize    int      `toml:"font_size"`
}

// CategoryTheme overrides or adds the rule for one category.
type CategoryTheme struct {
	Colors []string `toml:"colors"`
	Size   int      `toml:"size"`
}

// LoadTheme reads a TOML theme file.
func LoadTheme(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "read theme %s", path)
	}
	return ParseTheme(data)
}

// ParseTheme decodes a TOML theme and validates category names, gradient
// lengths and sizes.
func ParseTheme(data []byte) (Theme, error) {
	var th Theme
	md, err := toml.Decode(string(data), &th)
	if err != nil {
		return Theme{}, errors.Wrap(errors.ErrCodeInvalidTheme, err, "decode theme")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Theme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme key %q", undecoded[0].String())
	}
	if err := th.validate(); err != nil {
		return Theme{}, err
	}
	return th, nil
}

func (th Theme) validate() error {
	if th.Node != nil {
		if err := validateColors("node", th.Node.Colors); err != nil {
			return err
		}
		if th.Node.Size < 0 {
			return errors.New(errors.ErrCodeInvalidTheme, "node size must be positive")
		}
	}
	for name, ct := range th.Categories {
		if _, ok := graph.ParseCategory(name); !ok {
			return errors.New(errors.ErrCodeInvalidTheme, "unknown category %q", name)
		}
		if err := validateColors(name, ct.Colors); err != nil {
			return err
		}
		if ct.Size < 0 {
			return errors.New(errors.ErrCodeInvalidTheme, "%s size must be positive", name)
		}
	}
	return nil
}

func validateColors(where string, colors []string) error {
	if colors != nil && len(colors) != 3 {
		return errors.New(errors.ErrCodeInvalidTheme, "%s colors must have 3 stops, got %d", where, len(colors))
	}
	return nil
}

// Apply returns a copy of t with the theme laid over it. Categories that
// already have an override are updated in place, keeping their position;
// new categories are appended in name order. Colour lists that are not
// exactly three stops are ignored; [ParseTheme] rejects them up front.
func (th Theme) Apply(t Table) Table {
	out := t
	out.Overrides = append([]Override(nil), t.Overrides...)

	if n := th.Node; n != nil {
		if g, ok := gradientOf(n.Colors); ok {
			out.Node.Colors = g
		}
		if n.Size > 0 {
			out.Node.Size = n.Size
		}
		if n.TextColor != "" {
			out.Node.TextColor = n.TextColor
		}
		if n.OverlayColor != "" {
			out.Node.OverlayColor = n.OverlayColor
		}
	}

	if e := th.Edge; e != nil {
		if e.LineColor != "" {
			out.Edge.LineColor = e.LineColor
		}
		if e.ArrowColor != "" {
			out.Edge.ArrowColor = e.ArrowColor
		}
		if e.TextColor != "" {
			out.Edge.TextColor = e.TextColor
		}
		if e.LineOpacity != nil {
			out.Edge.LineOpacity = *e.LineOpacity
		}
		if e.Width > 0 {
			out.Edge.Width = e.Width
		}
		if e.FontSize > 0 {
			out.Edge.FontSize = e.FontSize
		}
	}

	names := make([]string, 0, len(th.Categories))
	for name := range th.Categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ct := th.Categories[name]
		cat := graph.Category(name)

		idx := -1
		for i, o := range out.Overrides {
			if o.Category == cat {
				idx = i
				break
			}
		}
		if idx < 0 {
			out.Overrides = append(out.Overrides, Override{Category: cat, Colors: out.Node.Colors})
			idx = len(out.Overrides) - 1
		}
		if g, ok := gradientOf(ct.Colors); ok {
			out.Overrides[idx].Colors = g
		}
		if ct.Size > 0 {
			out.Overrides[idx].Size = ct.Size
		}
	}
	return out
}

func gradientOf(colors []string) (Gradient, bool) {
	if len(colors) != len(Gradient{}) {
		return Gradient{}, false
	}
	return Gradient(colors), true
}
