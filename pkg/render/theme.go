package render

import "github.com/charmbracelet/lipgloss"

// Palette holds the chart colors shared by every renderer, as hex strings.
type Palette struct {
	Highlight string // emphasized bar
	Neutral   string // other bars
	Good      string // "On Time" slice
	Bad       string // "Late" slice
}

// DefaultPalette returns the dashboard's stock chart colors.
func DefaultPalette() Palette {
	return Palette{
		Highlight: "#72BCD4",
		Neutral:   "#D3D3D3",
		Good:      "#90EE90", // lightgreen
		Bad:       "#F08080", // lightcoral
	}
}

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Heading lipgloss.Style
	Palette Palette
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Pass   string
	Fail   string
	Warn   string
	Info   string
	Bullet string
	Tab    string
	Full   rune // filled bar cell
	Empty  rune // unfilled bar cell
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // orange
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Heading: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("39")),
		Palette: DefaultPalette(),
		Icons: ThemeIcons{
			Pass:   "✓",
			Fail:   "✗",
			Warn:   "⚠",
			Info:   "●",
			Bullet: "·",
			Tab:    "▸",
			Full:   '█',
			Empty:  ' ',
		},
	}
}

// OrcaTheme returns a muted, professional theme.
func OrcaTheme() Theme {
	return Theme{
		Name:    "orca",
		Primary: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("179")), // muted gold
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")), // lighter gray
		Bold:    lipgloss.NewStyle().Bold(true),
		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Palette: Palette{
			Highlight: "#5FAFD7",
			Neutral:   "#8A8A8A",
			Good:      "#87AF87",
			Bad:       "#D75F5F",
		},
		Icons: ThemeIcons{
			Pass:   "✓",
			Fail:   "✗",
			Warn:   "!",
			Info:   "·",
			Bullet: "·",
			Tab:    "›",
			Full:   '▇',
			Empty:  ' ',
		},
	}
}

// MonoTheme returns a monochrome theme (no colors).
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Primary: lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle().Bold(true),
		Heading: lipgloss.NewStyle().Bold(true),
		Palette: DefaultPalette(),
		Icons: ThemeIcons{
			Pass:   "+",
			Fail:   "x",
			Warn:   "!",
			Info:   "*",
			Bullet: "-",
			Tab:    ">",
			Full:   '#',
			Empty:  '.',
		},
	}
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "orca":
		return OrcaTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}

// WithPalette returns t with chart colors replaced by any non-empty field of p.
func (t Theme) WithPalette(p Palette) Theme {
	if p.Highlight != "" {
		t.Palette.Highlight = p.Highlight
	}
	if p.Neutral != "" {
		t.Palette.Neutral = p.Neutral
	}
	if p.Good != "" {
		t.Palette.Good = p.Good
	}
	if p.Bad != "" {
		t.Palette.Bad = p.Bad
	}
	return t
}
