package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/newsletter/internal/api"
)

// langTabs renders one tab per supported language with the current one
// highlighted, followed by the committed search term if any.
func (s styles) langTabs(active api.Lang, query string, width int) string {
	sep := s.tabSep.Render(" · ")
	var parts []string
	for _, l := range api.Langs() {
		style := s.tabInactive
		if l == active {
			style = s.tabActive
		}
		parts = append(parts, style.Render(strings.ToUpper(string(l))))
	}
	if query != "" {
		parts = append(parts, s.dimText.Render("search: "+query))
	}

	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	return s.tabBar.Width(width).Render(row)
}
