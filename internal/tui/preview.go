package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/newsletter/internal/api"
)

func (s styles) renderPreview(article *api.Article, link string, width, height, scroll int) string {
	if article == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := s.previewTitle.Width(contentWidth).Render(article.Title)

	published := "unpublished"
	if !article.PublishedAt.IsZero() {
		published = article.PublishedAt.Format("Jan 2, 2006")
	}
	meta := s.previewMeta.Render(fmt.Sprintf("%s · %s · %s", article.Author, published, strings.ToUpper(string(article.Lang))))

	parts := []string{title, meta}
	if len(article.Tags) > 0 {
		parts = append(parts, s.previewTags.Render("#"+strings.Join(article.Tags, " #")))
	}

	desc := article.Excerpt
	if desc == "" {
		desc = "(No excerpt available)"
	}
	parts = append(parts, "", s.previewBody.Width(contentWidth).Render(wrapText(desc, contentWidth)))
	if link != "" {
		parts = append(parts, "", s.previewLink.Width(contentWidth).Render("Read more: "+link))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
