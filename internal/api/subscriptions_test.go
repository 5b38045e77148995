package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/newsletter/internal/paging"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "foo@bar.com", NormalizeEmail("  Foo@Bar.com "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"foo@bar.com", true},
		{"  foo@bar.com ", true},
		{"foo@bar", false},
		{"foo bar@baz.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidEmail(tt.in), tt.in)
	}
}

func TestSubscriptionCallsNormalizeEmail(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})
	c := NewClient(srv.URL, WithTokenSource(staticToken("t")))
	ctx := context.Background()

	_, err := c.Subscribe(ctx, SubscribeInput{Email: "  Foo@Bar.com "})
	require.NoError(t, err)
	_, err = c.Unsubscribe(ctx, "  Foo@Bar.com ")
	require.NoError(t, err)
	_, err = c.UnsubscribePublic(ctx, "  Foo@Bar.com ")
	require.NoError(t, err)
	_, err = c.UnsubscribeLink(ctx, "  Foo@Bar.com ")
	require.NoError(t, err)

	got := reqs()
	require.Len(t, got, 4)
	assert.JSONEq(t, `{"email":"foo@bar.com","lang":"es"}`, got[0].Body)
	assert.Empty(t, got[0].Auth)

	assert.JSONEq(t, `{"email":"foo@bar.com"}`, got[1].Body)
	assert.Equal(t, "Bearer t", got[1].Auth)

	assert.JSONEq(t, `{"email":"foo@bar.com"}`, got[2].Body)
	assert.Empty(t, got[2].Auth)

	assert.Equal(t, http.MethodGet, got[3].Method)
	assert.Equal(t, "/subscribe/unsubscribe", got[3].Path)
	assert.Equal(t, "email=foo%40bar.com", got[3].Query)
}

func TestFetchSubscribers(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/subscribe":
			w.Write([]byte(`{"items":[{"id":"s1","email":"a@b.co","lang":"en","createdAt":"2025-01-02T03:04:05Z"}],"nextCursor":"n"}`))
		case "/subscribe/count":
			w.Write([]byte(`{"count":42}`))
		case "/subscribe/emails":
			w.Write([]byte(`{"emails":["a@b.co"]}`))
		}
	})
	c := NewClient(srv.URL, WithTokenSource(staticToken("t")))
	ctx := context.Background()

	page, err := c.FetchSubscribers(ctx, paging.Params{Lang: "es", Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), page.Items[0].CreatedAt)
	assert.Equal(t, "limit=20", reqs()[0].Query)

	count, err := c.FetchSubscriberCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, count.Count)

	emails, err := c.FetchSubscriberEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.co"}, emails.Emails)
}

func TestFetchBasicInfoSanitizes(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Ana","role":7,"startYear":12,"subscriberCount":-3,"city":"Lima"}`))
	})
	c := NewClient(srv.URL)

	info := c.FetchBasicInfo(context.Background(), LangEN)
	require.NotNil(t, info)
	assert.Equal(t, "Ana", info.Name)
	assert.Empty(t, info.Role)
	assert.Equal(t, time.Now().Year(), info.StartYear)
	assert.Nil(t, info.SubscriberCount)
	assert.Equal(t, "Lima", info.City)
	assert.Equal(t, "/config/basic-info", reqs()[0].Path)
	assert.Equal(t, "lang=en", reqs()[0].Query)
}

func TestSiteReadsDegradeToNil(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config/logo":
			w.Write([]byte(`{"logoUrl":"   "}`))
		case "/config/about":
			w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})
	c := NewClient(srv.URL)
	ctx := context.Background()

	assert.Nil(t, c.FetchBasicInfo(ctx, ""))
	assert.Nil(t, c.FetchLogo(ctx))
	assert.Nil(t, c.FetchAbout(ctx, LangES))
	assert.Nil(t, NewClient("").FetchLogo(ctx))
}

func TestFetchAboutDropsIncompleteSections(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"About","sections":[{"title":"A","content":"x"},{"title":"B"},"junk"]}`))
	})
	c := NewClient(srv.URL)

	about := c.FetchAbout(context.Background(), LangES)
	require.NotNil(t, about)
	assert.Equal(t, "About", about.Title)
	assert.Equal(t, []AboutSection{{Title: "A", Content: "x"}}, about.Sections)
}

func TestParseLang(t *testing.T) {
	l, err := ParseLang(" EN ")
	require.NoError(t, err)
	assert.Equal(t, LangEN, l)
	assert.Equal(t, LangES, l.Other())

	_, err = ParseLang("fr")
	assert.Error(t, err)
}
