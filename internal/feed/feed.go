// Package feed turns RSS/Atom items into newsletter articles.
package feed

import (
	"context"
	"crypto/sha256"
	"fmt"
	"html"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/config"
)

const excerptRunes = 300

// Item is a feed entry reduced to what an article needs.
type Item struct {
	GUID      string
	Link      string
	Title     string
	Author    string
	Tags      []string
	Published time.Time
	Excerpt   string
	Content   string
}

type Fetcher interface {
	Fetch(ctx context.Context, f config.Feed) ([]Item, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
	text   *bluemonday.Policy
	body   *bluemonday.Policy
}

func NewRSSFetcher() *RSSFetcher {
	body := bluemonday.UGCPolicy()
	body.RequireNoFollowOnLinks(true)
	body.AddTargetBlankToFullyQualifiedLinks(true)
	return &RSSFetcher{
		parser: gofeed.NewParser(),
		text:   bluemonday.StrictPolicy(),
		body:   body,
	}
}

func (f *RSSFetcher) Fetch(ctx context.Context, src config.Feed) ([]Item, error) {
	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", src.Name, err)
	}

	now := time.Now()
	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		pub := now
		if it.PublishedParsed != nil {
			pub = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			pub = *it.UpdatedParsed
		}

		content := it.Content
		if content == "" {
			content = it.Description
		}
		desc := it.Description
		if desc == "" {
			desc = it.Content
		}

		guid := it.GUID
		if guid == "" {
			guid = itemID(it.Link)
		}
		author := src.Author
		if author == "" && it.Author != nil {
			author = it.Author.Name
		}

		items = append(items, Item{
			GUID:      guid,
			Link:      it.Link,
			Title:     strings.TrimSpace(html.UnescapeString(f.text.Sanitize(it.Title))),
			Author:    author,
			Tags:      it.Categories,
			Published: pub,
			Excerpt:   truncate(f.plainText(desc), excerptRunes),
			Content:   strings.TrimSpace(f.body.Sanitize(content)),
		})
	}
	return items, nil
}

// plainText drops all markup and collapses whitespace.
func (f *RSSFetcher) plainText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(f.text.Sanitize(s))), " ")
}

func itemID(link string) string {
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// Slug derives the article slug from the last path segment of the item link,
// falling back to the title.
func Slug(link, title string) string {
	if u, err := url.Parse(link); err == nil {
		base := path.Base(strings.TrimSuffix(u.Path, "/"))
		base = strings.TrimSuffix(base, path.Ext(base))
		if s := slugify(base); s != "" {
			return s
		}
	}
	return slugify(title)
}

// ToInput builds the create request for item in lang. Items without
// categories get suggested tags.
func ToInput(item Item, lang api.Lang) api.CreateArticleInput {
	tags := item.Tags
	if len(tags) == 0 {
		tags = SuggestTags(item.Title, item.Excerpt)
	}
	return api.CreateArticleInput{
		Lang:    lang,
		Slug:    Slug(item.Link, item.Title),
		Author:  item.Author,
		Tags:    tags,
		Title:   item.Title,
		Excerpt: item.Excerpt,
		Content: item.Content,
	}
}
