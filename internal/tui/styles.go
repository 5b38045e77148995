package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/newsletter/internal/theme"
)

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	dim       lipgloss.Color
	accent    lipgloss.Color
	border    lipgloss.Color
	tabBg     lipgloss.Color
	statusBg  lipgloss.Color
	statusFg  lipgloss.Color
	green     lipgloss.Color
	surface   lipgloss.Color
}

var (
	lightPalette = palette{
		primary:   "#5A56E0",
		secondary: "#3D3D3D",
		dim:       "#9B9B9B",
		accent:    "#F25D94",
		border:    "#DBDBDB",
		tabBg:     "#EEEEEE",
		statusBg:  "#E8E8E8",
		statusFg:  "#3D3D3D",
		green:     "#04B575",
		surface:   "#F5F5F5",
	}
	darkPalette = palette{
		primary:   "#7571F9",
		secondary: "#ABABAB",
		dim:       "#626262",
		accent:    "#F25D94",
		border:    "#383838",
		tabBg:     "#2A2A3E",
		statusBg:  "#16213E",
		statusFg:  "#ABABAB",
		green:     "#25D366",
		surface:   "#1A1A2E",
	}
)

// styles is the full set of renderers for one theme. It is rebuilt whenever
// the theme store changes.
type styles struct {
	header       lipgloss.Style
	headerDate   lipgloss.Style
	listPane     lipgloss.Style
	listActive   lipgloss.Style
	previewPane  lipgloss.Style
	previewFocus lipgloss.Style

	itemTitle    lipgloss.Style
	itemSelected lipgloss.Style
	itemAuthor   lipgloss.Style
	itemTime     lipgloss.Style

	previewTitle lipgloss.Style
	previewMeta  lipgloss.Style
	previewTags  lipgloss.Style
	previewBody  lipgloss.Style
	previewLink  lipgloss.Style

	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	tabSep      lipgloss.Style
	tabBar      lipgloss.Style

	statusBar    lipgloss.Style
	spinner      lipgloss.Style
	searchPrompt lipgloss.Style
	errorText    lipgloss.Style
	dimText      lipgloss.Style
	accent       lipgloss.Style
	text         lipgloss.Style
	helpCard     lipgloss.Style
}

func newStyles(t theme.Theme) styles {
	p := lightPalette
	if t == theme.Dark {
		p = darkPalette
	}
	pane := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())

	return styles{
		header:       lipgloss.NewStyle().Bold(true).Foreground(p.primary).PaddingLeft(1),
		headerDate:   lipgloss.NewStyle().Foreground(p.dim).Align(lipgloss.Right),
		listPane:     pane.BorderForeground(p.border),
		listActive:   pane.BorderForeground(p.primary),
		previewPane:  pane.BorderForeground(p.border),
		previewFocus: pane.BorderForeground(p.primary),

		itemTitle:    lipgloss.NewStyle().Foreground(p.primary).Bold(true),
		itemSelected: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		itemAuthor:   lipgloss.NewStyle().Foreground(p.green),
		itemTime:     lipgloss.NewStyle().Foreground(p.dim),

		previewTitle: lipgloss.NewStyle().Bold(true).Foreground(p.primary).MarginBottom(1),
		previewMeta:  lipgloss.NewStyle().Foreground(p.green),
		previewTags:  lipgloss.NewStyle().Foreground(p.accent),
		previewBody:  lipgloss.NewStyle().Foreground(p.secondary),
		previewLink:  lipgloss.NewStyle().Foreground(p.dim).Italic(true).MarginTop(1),

		tabActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(p.primary).
			Padding(0, 1).
			Bold(true),
		tabInactive: lipgloss.NewStyle().Foreground(p.secondary).Background(p.tabBg).Padding(0, 1),
		tabSep:      lipgloss.NewStyle().Foreground(p.dim).Background(p.surface),
		tabBar:      lipgloss.NewStyle().Background(p.surface).PaddingLeft(1),

		statusBar:    lipgloss.NewStyle().Background(p.statusBg).Foreground(p.statusFg).PaddingLeft(1).PaddingRight(1),
		spinner:      lipgloss.NewStyle().Foreground(p.accent),
		searchPrompt: lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		errorText:    lipgloss.NewStyle().Foreground(p.accent),
		dimText:      lipgloss.NewStyle().Foreground(p.dim),
		accent:       lipgloss.NewStyle().Foreground(p.accent).Bold(true),
		text:         lipgloss.NewStyle().Foreground(p.secondary),
		helpCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 3),
	}
}
