package api

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Site configuration reads never fail: any problem (missing base URL,
// transport, non-2xx, malformed payload) yields nil so pages render with
// their built-in fallbacks.

func configPath(name string, lang Lang) string {
	if lang == "" {
		return "/config/" + name
	}
	return "/config/" + name + "?lang=" + url.QueryEscape(string(lang))
}

func (c *Client) fetchConfig(ctx context.Context, path string) map[string]any {
	resp, err := c.Request(ctx, path, RequestOptions{})
	if err != nil {
		c.logger.DebugContext(ctx, "site config unavailable", "path", path, "error", err)
		return nil
	}
	m, ok := resp.Body.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

func (c *Client) FetchBasicInfo(ctx context.Context, lang Lang) *BasicInfo {
	data := c.fetchConfig(ctx, configPath("basic-info", lang))
	if data == nil {
		return nil
	}
	info := &BasicInfo{
		Name:      safeString(data["name"]),
		Role:      safeString(data["role"]),
		StartYear: safeInt(data["startYear"], 1900, time.Now().Year()),
		GitHub:    safeString(data["github"]),
		LinkedIn:  safeString(data["linkedin"]),
		Country:   safeString(data["country"]),
		City:      safeString(data["city"]),
	}
	if n, ok := data["subscriberCount"].(float64); ok && n >= 0 {
		count := int(n)
		info.SubscriberCount = &count
	}
	return info
}

func (c *Client) FetchLogo(ctx context.Context) *Logo {
	data := c.fetchConfig(ctx, configPath("logo", ""))
	if data == nil {
		return nil
	}
	u := strings.TrimSpace(safeString(data["logoUrl"]))
	if u == "" {
		return nil
	}
	return &Logo{URL: u}
}

func (c *Client) FetchAbout(ctx context.Context, lang Lang) *About {
	data := c.fetchConfig(ctx, configPath("about", lang))
	if data == nil {
		return nil
	}
	return &About{
		Title:    safeString(data["title"]),
		Subtitle: safeString(data["subtitle"]),
		Sections: parseSections(data["sections"]),
	}
}

func parseSections(v any) []AboutSection {
	list, ok := v.([]any)
	if !ok {
		return []AboutSection{}
	}
	out := make([]AboutSection, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		_, hasTitle := m["title"]
		_, hasContent := m["content"]
		if !hasTitle || !hasContent {
			continue
		}
		out = append(out, AboutSection{
			Title:   safeString(m["title"]),
			Content: safeString(m["content"]),
		})
	}
	return out
}

func safeString(v any) string {
	s, _ := v.(string)
	return s
}

func safeInt(v any, floor, fallback int) int {
	n, ok := v.(float64)
	if !ok || n < float64(floor) {
		return fallback
	}
	return int(n)
}
