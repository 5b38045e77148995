package api

import (
	"fmt"
	"strings"
	"time"
)

type Lang string

const (
	LangES Lang = "es"
	LangEN Lang = "en"
)

// PrimaryLang is used whenever a language preference is missing.
const PrimaryLang = LangES

// Langs returns the supported languages in canonical order.
func Langs() []Lang {
	return []Lang{LangES, LangEN}
}

func ParseLang(s string) (Lang, error) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case LangES:
		return LangES, nil
	case LangEN:
		return LangEN, nil
	default:
		return "", fmt.Errorf("unsupported language %q (valid: es, en)", s)
	}
}

// Other returns the sibling language.
func (l Lang) Other() Lang {
	if l == LangEN {
		return LangES
	}
	return LangEN
}

type Article struct {
	ID          string    `json:"id"`
	GroupID     string    `json:"groupId"`
	Slug        string    `json:"slug"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Tags        []string  `json:"tags"`
	Lang        Lang      `json:"lang"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
}

// CreateArticleInput creates a language variant. An empty GroupID asks the
// server to create a new group for it.
type CreateArticleInput struct {
	Lang    Lang     `json:"lang"`
	GroupID string   `json:"groupId,omitempty"`
	Slug    string   `json:"slug,omitempty"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
	Title   string   `json:"title"`
	Excerpt string   `json:"excerpt"`
	Content string   `json:"content"`
}

// UpdateArticleInput is a partial update; nil fields are left untouched. A
// non-nil Tags pointing at an empty slice clears the tags.
type UpdateArticleInput struct {
	Slug      *string    `json:"slug,omitempty"`
	Author    *string    `json:"author,omitempty"`
	Tags      *[]string  `json:"tags,omitempty"`
	Title     *string    `json:"title,omitempty"`
	Excerpt   *string    `json:"excerpt,omitempty"`
	Content   *string    `json:"content,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ArticleGroup is one logical article across languages. Title, excerpt and
// publish time come from a representative variant.
type ArticleGroup struct {
	GroupID     string    `json:"groupId"`
	Support     []Lang    `json:"support"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Supports reports whether the group has a variant in lang.
func (g ArticleGroup) Supports(lang Lang) bool {
	for _, l := range g.Support {
		if l == lang {
			return true
		}
	}
	return false
}

type Subscriber struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Lang      Lang      `json:"lang"`
	CreatedAt time.Time `json:"createdAt"`
}

type SubscribeInput struct {
	Email string `json:"email"`
	Lang  Lang   `json:"lang,omitempty"`
}

type SubscribeResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type UnsubscribeResult struct {
	OK bool `json:"ok"`
}

type SubscriberCount struct {
	Count int `json:"count"`
}

type SubscriberEmails struct {
	Emails []string `json:"emails"`
}

type LoginInput struct {
	Secret string `json:"secret"`
}

type LoginResult struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt,omitempty"`
}

type BasicInfo struct {
	Name      string
	Role      string
	StartYear int
	GitHub    string
	LinkedIn  string
	Country   string
	City      string
	// SubscriberCount is nil when the server omitted it or sent garbage.
	SubscriberCount *int
}

type Logo struct {
	URL string
}

type AboutSection struct {
	Title   string
	Content string
}

type About struct {
	Title    string
	Subtitle string
	Sections []AboutSection
}
