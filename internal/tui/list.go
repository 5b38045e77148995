package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheuskafuri/newsletter/internal/api"
)

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "draft"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func (s styles) renderListItem(a api.Article, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = s.itemSelected.Render("> " + truncateStr(a.Title, width-4))
	} else {
		title = s.itemTitle.Render("  " + truncateStr(a.Title, width-4))
	}

	author := a.Author
	if author == "" {
		author = "anonymous"
	}
	meta := "  " + s.itemAuthor.Render(truncateStr(author, width/2)) + " " + s.itemTime.Render("· "+relativeTime(a.PublishedAt))

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// visibleRange is the window of items shown for cursor when each item takes
// itemHeight lines.
func visibleRange(total, cursor, height, itemHeight int) (int, int) {
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > total {
		end = total
		start = max(0, end-visible)
	}
	return start, end
}

func (s styles) renderList(articles []api.Article, cursor, height, width int, hasMore bool) string {
	if len(articles) == 0 {
		return lipglossCenter("No articles found", width, height)
	}

	// Each item is 2 lines + 1 blank line
	start, end := visibleRange(len(articles), cursor, height, 3)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(s.renderListItem(articles[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if hasMore && end == len(articles) {
		b.WriteString("\n" + s.dimText.Render("  n  load more"))
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", max(0, (width-len(s))/2)) + s
}
