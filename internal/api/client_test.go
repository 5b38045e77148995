package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheuskafuri/newsletter/internal/paging"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

// fakeServer records every request and answers with handler.
func fakeServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, func() []recorded) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recorded
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(body),
		})
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), reqs...)
	}
}

func TestRequestWithoutBaseURLFailsFast(t *testing.T) {
	c := NewClient("   ")
	_, err := c.Request(context.Background(), "/articles", RequestOptions{})
	require.ErrorIs(t, err, ErrNoBaseURL)
	assert.Zero(t, StatusOf(err))
}

func TestRequestTrimsTrailingSlash(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := NewClient(srv.URL + "/api/")
	_, err := c.Request(context.Background(), "/ping", RequestOptions{})
	require.NoError(t, err)
	require.Len(t, reqs(), 1)
	assert.Equal(t, "/api/ping", reqs()[0].Path)
}

func TestRequestAttachesBearerOnlyWhenAsked(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	c := NewClient(srv.URL, WithTokenSource(staticToken("tok-1")))

	_, err := c.Request(context.Background(), "/a", RequestOptions{Auth: true})
	require.NoError(t, err)
	_, err = c.Request(context.Background(), "/b", RequestOptions{})
	require.NoError(t, err)

	got := reqs()
	assert.Equal(t, "Bearer tok-1", got[0].Auth)
	assert.Empty(t, got[1].Auth)
}

func TestRequestWithoutCredentialStillSent(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"missing token"}`))
	})
	c := NewClient(srv.URL, WithTokenSource(staticToken("")))

	_, err := c.Request(context.Background(), "/subscribe", RequestOptions{Auth: true})
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	require.Len(t, reqs(), 1)
	assert.Empty(t, reqs()[0].Auth)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "missing token", apiErr.Message)
}

func TestErrorMessageFallsBackToStatusText(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})
	c := NewClient(srv.URL)

	_, err := c.Request(context.Background(), "/x", RequestOptions{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.Equal(t, "upstream exploded", apiErr.Body)
}

func TestErrorMessageFallsBackToHTTPCode(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(599)
	})
	c := NewClient(srv.URL)

	_, err := c.Request(context.Background(), "/x", RequestOptions{})
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "HTTP 599", apiErr.Message)
	assert.Nil(t, apiErr.Body)
}

func TestNonJSONSuccessDegradesToText(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	c := NewClient(srv.URL)

	resp, err := c.Request(context.Background(), "/ping", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "pong", resp.Body)
}

func TestNetworkFailureIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(base)
	_, err := c.Request(context.Background(), "/x", RequestOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestFetchArticlesBuildsQuery(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ArticlePage{
			Items:      []Article{{ID: "a1", Lang: LangES}},
			NextCursor: "next==",
		})
	})
	c := NewClient(srv.URL, WithTokenSource(staticToken("t")))

	page, err := c.FetchArticles(context.Background(), paging.Params{Lang: "es", Query: "  ", Limit: 10, Cursor: "c/1"})
	require.NoError(t, err)
	assert.Equal(t, "next==", page.NextCursor)
	require.Len(t, page.Items, 1)

	got := reqs()[0]
	assert.Equal(t, "/articles", got.Path)
	assert.Equal(t, "cursor=c%2F1&lang=es&limit=10", got.Query)
	assert.Equal(t, "Bearer t", got.Auth)
}

func TestFetchArticlesRequiresLang(t *testing.T) {
	c := NewClient("http://example.invalid")
	_, err := c.FetchArticles(context.Background(), paging.Params{})
	assert.Error(t, err)
}

func TestFetchArticlesByGroupIgnoresQuery(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	})
	c := NewClient(srv.URL)

	_, err := c.FetchArticlesByGroup(context.Background(), paging.Params{Lang: "en", Query: "go"})
	require.NoError(t, err)
	assert.Equal(t, "/articles/by-group", reqs()[0].Path)
	assert.Equal(t, "lang=en", reqs()[0].Query)
}

func TestFetchArticleGroupsLangOptional(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"groupId":"g1","support":["es","en"],"title":"T"}]}`))
	})
	c := NewClient(srv.URL)

	page, err := c.FetchArticleGroups(context.Background(), paging.Params{Query: "go"})
	require.NoError(t, err)
	assert.Equal(t, "q=go", reqs()[0].Query)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].Supports(LangEN))
	assert.False(t, page.HasMore())
}

func TestFetchArticleByGroupNotFoundIsNil(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"no variant"}`))
	})
	c := NewClient(srv.URL)

	a, err := c.FetchArticleByGroup(context.Background(), "g 1", LangEN)
	require.NoError(t, err)
	assert.Nil(t, a)
	assert.Equal(t, "/articles/by-group/g 1", reqs()[0].Path)
	assert.Equal(t, "lang=en", reqs()[0].Query)
}

func TestFetchArticleByGroupOtherErrorsPropagate(t *testing.T) {
	srv, _ := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := NewClient(srv.URL)

	_, err := c.FetchArticleByGroup(context.Background(), "g1", LangEN)
	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
}

func TestMutationsUseExpectedRoutes(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Write([]byte(`{"id":"a1","groupId":"g1","lang":"es"}`))
	})
	c := NewClient(srv.URL, WithTokenSource(staticToken("t")))
	ctx := context.Background()

	_, err := c.CreateArticle(ctx, CreateArticleInput{Lang: LangES, Title: "Hola"})
	require.NoError(t, err)
	title := "Hola 2"
	_, err = c.UpdateArticle(ctx, "a1", UpdateArticleInput{Title: &title})
	require.NoError(t, err)
	require.NoError(t, c.DeleteArticle(ctx, "a1"))
	require.NoError(t, c.DeleteArticleGroup(ctx, "g1"))

	got := reqs()
	require.Len(t, got, 4)
	assert.Equal(t, "POST /articles", got[0].Method+" "+got[0].Path)
	assert.NotContains(t, got[0].Body, "groupId")
	assert.Equal(t, "PATCH /articles/a1", got[1].Method+" "+got[1].Path)
	assert.JSONEq(t, `{"title":"Hola 2"}`, got[1].Body)
	assert.Equal(t, "DELETE /articles/a1", got[2].Method+" "+got[2].Path)
	assert.Equal(t, "DELETE /articles/group/g1", got[3].Method+" "+got[3].Path)
	for _, r := range got {
		assert.Equal(t, "Bearer t", r.Auth)
	}
}

func TestUpdateArticleCanClearTags(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"a1","groupId":"g1","lang":"es"}`))
	})
	c := NewClient(srv.URL, WithTokenSource(staticToken("t")))

	none := []string{}
	_, err := c.UpdateArticle(context.Background(), "a1", UpdateArticleInput{Tags: &none})
	require.NoError(t, err)

	got := reqs()
	require.Len(t, got, 1)
	assert.JSONEq(t, `{"tags":[]}`, got[0].Body)
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	srv, reqs := fakeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token":""}`))
	})
	c := NewClient(srv.URL)

	_, err := c.Login(context.Background(), "s3cret")
	require.Error(t, err)
	assert.JSONEq(t, `{"secret":"s3cret"}`, reqs()[0].Body)
}
