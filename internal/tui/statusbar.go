package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type statusInfo struct {
	count     int
	hasMore   bool
	searching bool
	loading   bool
	admin     bool
}

func (s styles) renderStatusBar(info statusInfo, width int) string {
	left := fmt.Sprintf(" %d articles", info.count)
	if info.hasMore {
		left += "+"
	}
	if info.admin {
		left += " · " + s.accent.Render("admin")
	}
	if info.loading {
		left += " (loading...)"
	}

	right := " / search  l lang  t theme  o open  ? help  q quit "
	if info.searching {
		right = " esc clear  enter done "
	}

	return s.bar(left, right, width)
}

func (s styles) renderBottomBar(hints string, width int) string {
	return s.bar("", " "+hints+" ", width)
}

func (s styles) bar(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return s.statusBar.Width(width).Render(left + fmt.Sprintf("%*s", gap, "") + right)
}
