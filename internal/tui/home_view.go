package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/newsletter/internal/api"
)

func (s styles) renderHomeScreen(width, height int, lang api.Lang, info *api.BasicInfo, updateVersion string) string {
	title := "newsletter"
	if info != nil && info.Name != "" {
		title = info.Name
	}

	var lines []string
	lines = append(lines, s.accent.Render(strings.ToUpper(title)))
	if info != nil {
		var about []string
		if info.Role != "" {
			about = append(about, info.Role)
		}
		if place := strings.Trim(info.City+", "+info.Country, ", "); place != "" {
			about = append(about, place)
		}
		if len(about) > 0 {
			lines = append(lines, s.dimText.Render(strings.Join(about, " · ")))
		}
		if info.SubscriberCount != nil {
			lines = append(lines, s.dimText.Render(fmt.Sprintf("%d subscribers", *info.SubscriberCount)))
		}
	}
	lines = append(lines, "", "")

	lines = append(lines, "          "+s.accent.Render("[e]")+"  "+s.text.Render("Browse articles ("+strings.ToUpper(string(lang))+")"))
	lines = append(lines, "          "+s.accent.Render("[l]")+"  "+s.text.Render("Switch to "+strings.ToUpper(string(lang.Other()))))
	lines = append(lines, "          "+s.accent.Render("[t]")+"  "+s.text.Render("Toggle theme"))
	lines = append(lines, "")
	lines = append(lines, "          "+s.accent.Render("[q]")+"  "+s.text.Render("Quit"))

	if updateVersion != "" {
		lines = append(lines, "")
		lines = append(lines, "          "+s.accent.Render("Update available: v"+updateVersion))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}
