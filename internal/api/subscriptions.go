package api

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/matheuskafuri/newsletter/internal/paging"
)

type SubscriberPage = paging.Page[Subscriber]

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims and lower-cases an address. Every subscription request
// goes through it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// Subscribe is the public sign-up call. A missing language defaults to the
// primary one.
func (c *Client) Subscribe(ctx context.Context, in SubscribeInput) (SubscribeResult, error) {
	in.Email = NormalizeEmail(in.Email)
	if in.Lang == "" {
		in.Lang = PrimaryLang
	}
	return call[SubscribeResult](ctx, c, "/subscribe", RequestOptions{
		Method: http.MethodPost,
		Body:   in,
	})
}

type unsubscribeBody struct {
	Email string `json:"email"`
}

// Unsubscribe is the admin removal, keyed by email.
func (c *Client) Unsubscribe(ctx context.Context, email string) (UnsubscribeResult, error) {
	return call[UnsubscribeResult](ctx, c, "/subscribe/unsubscribe", RequestOptions{
		Method: http.MethodPost,
		Body:   unsubscribeBody{Email: NormalizeEmail(email)},
		Auth:   true,
	})
}

// UnsubscribePublic is the self-service form variant.
func (c *Client) UnsubscribePublic(ctx context.Context, email string) (UnsubscribeResult, error) {
	return call[UnsubscribeResult](ctx, c, "/subscribe/unsubscribe", RequestOptions{
		Method: http.MethodPost,
		Body:   unsubscribeBody{Email: NormalizeEmail(email)},
	})
}

// UnsubscribeLink mirrors the one-click link sent in newsletter emails.
func (c *Client) UnsubscribeLink(ctx context.Context, email string) (UnsubscribeResult, error) {
	q := url.Values{"email": {NormalizeEmail(email)}}
	return call[UnsubscribeResult](ctx, c, "/subscribe/unsubscribe?"+q.Encode(), RequestOptions{})
}

func (c *Client) FetchSubscribers(ctx context.Context, p paging.Params) (SubscriberPage, error) {
	p.Lang, p.Query = "", ""
	return call[SubscriberPage](ctx, c, withQuery("/subscribe", p.Values()), RequestOptions{Auth: true})
}

func (c *Client) FetchSubscriberCount(ctx context.Context) (SubscriberCount, error) {
	return call[SubscriberCount](ctx, c, "/subscribe/count", RequestOptions{Auth: true})
}

func (c *Client) FetchSubscriberEmails(ctx context.Context) (SubscriberEmails, error) {
	return call[SubscriberEmails](ctx, c, "/subscribe/emails", RequestOptions{Auth: true})
}
