package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/matheuskafuri/newsletter/internal/paging"
)

type ArticlePage = paging.Page[Article]

type GroupPage = paging.Page[ArticleGroup]

func withQuery(path string, v url.Values) string {
	if enc := v.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}

// FetchArticles is the flat search: one item per language variant, newest
// first.
func (c *Client) FetchArticles(ctx context.Context, p paging.Params) (ArticlePage, error) {
	if p.Lang == "" {
		return ArticlePage{}, errors.New("fetching articles: lang is required")
	}
	return call[ArticlePage](ctx, c, withQuery("/articles", p.Values()), RequestOptions{Auth: true})
}

// FetchArticlesByGroup lists one variant per group that exists in p.Lang.
// The endpoint does not search, so p.Query is ignored.
func (c *Client) FetchArticlesByGroup(ctx context.Context, p paging.Params) (ArticlePage, error) {
	if p.Lang == "" {
		return ArticlePage{}, errors.New("fetching articles by group: lang is required")
	}
	p.Query = ""
	return call[ArticlePage](ctx, c, withQuery("/articles/by-group", p.Values()), RequestOptions{Auth: true})
}

// FetchArticleGroups is the grouped cross-language listing. An empty p.Lang
// lists groups regardless of language.
func (c *Client) FetchArticleGroups(ctx context.Context, p paging.Params) (GroupPage, error) {
	return call[GroupPage](ctx, c, withQuery("/articles/groups", p.Values()), RequestOptions{Auth: true})
}

// FetchArticleByGroup returns the variant of groupID in lang, or nil when the
// group has no variant in that language.
func (c *Client) FetchArticleByGroup(ctx context.Context, groupID string, lang Lang) (*Article, error) {
	path := "/articles/by-group/" + url.PathEscape(groupID) + "?lang=" + url.QueryEscape(string(lang))
	a, err := call[*Article](ctx, c, path, RequestOptions{Auth: true})
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (c *Client) CreateArticle(ctx context.Context, in CreateArticleInput) (Article, error) {
	return call[Article](ctx, c, "/articles", RequestOptions{
		Method: http.MethodPost,
		Body:   in,
		Auth:   true,
	})
}

func (c *Client) UpdateArticle(ctx context.Context, id string, in UpdateArticleInput) (Article, error) {
	return call[Article](ctx, c, "/articles/"+url.PathEscape(id), RequestOptions{
		Method: http.MethodPatch,
		Body:   in,
		Auth:   true,
	})
}

func (c *Client) DeleteArticle(ctx context.Context, id string) error {
	_, err := c.Request(ctx, "/articles/"+url.PathEscape(id), RequestOptions{
		Method: http.MethodDelete,
		Auth:   true,
	})
	return err
}

// DeleteArticleGroup removes every variant of the group.
func (c *Client) DeleteArticleGroup(ctx context.Context, groupID string) error {
	_, err := c.Request(ctx, "/articles/group/"+url.PathEscape(groupID), RequestOptions{
		Method: http.MethodDelete,
		Auth:   true,
	})
	return err
}
