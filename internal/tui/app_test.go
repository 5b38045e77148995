package tui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/browser"
	"github.com/matheuskafuri/newsletter/internal/newsletter"
	"github.com/matheuskafuri/newsletter/internal/prefs"
	"github.com/matheuskafuri/newsletter/internal/querycache"
	"github.com/matheuskafuri/newsletter/internal/search"
	"github.com/matheuskafuri/newsletter/internal/theme"
)

type memPrefs map[string]string

func (m memPrefs) Set(key, value string) error {
	m[key] = value
	return nil
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		lang := api.Lang(q.Get("lang"))
		if r.URL.Path == "/config/basic-info" {
			_ = json.NewEncoder(w).Encode(map[string]string{"name": "site-" + string(lang)})
			return
		}
		page := api.ArticlePage{Items: []api.Article{{ID: "a1-" + string(lang), GroupID: "g1", Lang: lang, Title: "first"}}, NextCursor: "c2"}
		if q.Get("cursor") == "c2" {
			page = api.ArticlePage{Items: []api.Article{{ID: "a2-" + string(lang), GroupID: "g2", Lang: lang, Title: "second"}}}
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(srv.Close)

	svc := newsletter.New(api.NewClient(srv.URL), querycache.New())
	return NewApp(RunOpts{
		Service:    svc,
		Theme:      theme.New(nil, theme.WithDetector(func() bool { return false })),
		Prefs:      memPrefs{},
		Lang:       api.LangES,
		BrowseMode: true,
	})
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// deliver runs cmd and feeds its message back, as the program loop would.
func (a *App) deliver(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	a.Update(cmd())
}

func (a *App) loadCurrent(t *testing.T) {
	t.Helper()
	if _, err := a.list.Activate(context.Background()); err != nil {
		t.Fatalf("activate: %v", err)
	}
	a.Update(pageLoadedMsg{key: a.list.Source().Key})
}

func TestSearchCommitsOnlyLatestTick(t *testing.T) {
	a := newTestApp(t)

	a.Update(key("/"))
	if a.mode != modeSearch {
		t.Fatalf("mode = %v, want search", a.mode)
	}
	for _, r := range []string{"g", "o"} {
		if _, cmd := a.Update(key(r)); cmd == nil {
			t.Fatalf("typing %q returned no command", r)
		}
	}
	if !a.search.Pending() {
		t.Fatal("expected a pending search")
	}

	a.Update(searchTickMsg{tick: 1})
	if got := a.list.Source().Key; !got.Equal(newsletter.List(api.LangES, "")) {
		t.Errorf("stale tick changed source to %s", got)
	}

	_, cmd := a.Update(searchTickMsg{tick: 2})
	if got := a.list.Source().Key; !got.Equal(newsletter.List(api.LangES, "")) {
		t.Errorf("source changed before the commit event, now %s", got)
	}
	a.deliver(t, cmd)
	if got := a.list.Source().Key; !got.Equal(newsletter.List(api.LangES, "go")) {
		t.Errorf("source = %s, want the go search", got)
	}
	if a.search.Committed() != "go" {
		t.Errorf("committed = %q, want go", a.search.Committed())
	}
}

func TestEscClearsCommittedSearch(t *testing.T) {
	a := newTestApp(t)
	a.Update(key("/"))
	a.Update(key("x"))
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.search.Committed() != "x" {
		t.Fatalf("enter did not commit, committed = %q", a.search.Committed())
	}
	a.deliver(t, cmd)
	if got := a.list.Source().Key; !got.Equal(newsletter.List(api.LangES, "x")) {
		t.Fatalf("source = %s after enter", got)
	}

	a.Update(key("/"))
	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a.deliver(t, cmd)
	if a.search.Committed() != "" || a.searchInput.Value() != "" {
		t.Errorf("esc left committed=%q input=%q", a.search.Committed(), a.searchInput.Value())
	}
	if got := a.list.Source().Key; !got.Equal(newsletter.List(api.LangES, "")) {
		t.Errorf("source = %s after esc", got)
	}
}

func TestStaleQueryChangedIsIgnored(t *testing.T) {
	a := newTestApp(t)
	a.Update(key("/"))
	a.Update(key("a"))
	_, first := a.Update(tea.KeyMsg{Type: tea.KeyEnter})

	a.Update(key("/"))
	a.Update(key("b"))
	_, second := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.search.Committed() != "ab" {
		t.Fatalf("committed = %q, want ab", a.search.Committed())
	}

	a.deliver(t, first)
	if got := a.list.Source().Key; !got.Equal(newsletter.List(api.LangES, "")) {
		t.Errorf("overtaken commit changed source to %s", got)
	}
	a.deliver(t, second)
	if got := a.list.Source().Key; !got.Equal(newsletter.List(api.LangES, "ab")) {
		t.Errorf("source = %s, want the ab search", got)
	}

	_, cmd := a.Update(search.QueryChanged{Query: "ab"})
	if cmd != nil {
		t.Error("a repeated commit restarted the list")
	}
}

func TestSwitchLangSavesLanguageAndReusesSiteInfo(t *testing.T) {
	a := newTestApp(t)
	a.deliver(t, a.siteCmd())
	if a.site == nil || a.site.Name != "site-es" {
		t.Fatalf("site = %+v, want site-es", a.site)
	}

	a.Update(key("l"))
	if got := a.prefs.(memPrefs)[prefs.KeyLanguage]; got != "en" {
		t.Errorf("saved language = %q, want en", got)
	}
	if a.site != nil {
		t.Errorf("site = %+v before the en info was fetched", a.site)
	}

	a.Update(key("l"))
	if a.site == nil || a.site.Name != "site-es" {
		t.Errorf("site = %+v, want the cached es info", a.site)
	}
	if got := a.prefs.(memPrefs)[prefs.KeyLanguage]; got != "es" {
		t.Errorf("saved language = %q, want es", got)
	}
}

func TestStalePageIsDropped(t *testing.T) {
	a := newTestApp(t)
	old := a.list.Source().Key

	a.Update(key("l"))
	if a.lang != api.LangEN {
		t.Fatalf("lang = %s, want en", a.lang)
	}
	if !a.loader.Loading() {
		t.Fatal("switching language should start loading")
	}

	a.Update(pageLoadedMsg{key: old})
	if !a.loader.Loading() {
		t.Error("a page for the previous language stopped the loader")
	}

	a.loadCurrent(t)
	if a.loader.Loading() {
		t.Error("loader still loading after the current page arrived")
	}
	if len(a.articles) != 1 || a.articles[0].Lang != api.LangEN {
		t.Errorf("articles = %+v, want one en article", a.articles)
	}
}

func TestSupersededResultIsDropped(t *testing.T) {
	a := newTestApp(t)
	a.loadCurrent(t)
	a.err = nil

	a.Update(pageLoadedMsg{key: a.list.Source().Key, err: querycache.ErrSuperseded})
	if a.err != nil {
		t.Errorf("superseded result surfaced as error: %v", a.err)
	}
}

func TestLoadMoreAppendsNextPage(t *testing.T) {
	a := newTestApp(t)
	a.loadCurrent(t)
	if !a.hasMore {
		t.Fatal("expected more pages after the first")
	}

	_, cmd := a.Update(key("n"))
	if cmd == nil {
		t.Fatal("n returned no command")
	}
	if _, err := a.list.LoadMore(context.Background()); err != nil {
		t.Fatalf("load more: %v", err)
	}
	a.Update(pageLoadedMsg{key: a.list.Source().Key, more: true})

	if len(a.articles) != 2 || a.articles[1].ID != "a2-es" {
		t.Errorf("articles = %+v", a.articles)
	}
	if a.hasMore {
		t.Error("hasMore should be false after the last page")
	}
	if _, cmd := a.Update(key("n")); cmd != nil {
		t.Error("n at the end of the list should do nothing")
	}
}

func TestThemeToggle(t *testing.T) {
	a := newTestApp(t)
	a.Update(key("t"))
	if a.theme.Snapshot() != theme.Dark {
		t.Errorf("theme = %s, want dark", a.theme.Snapshot())
	}
}

func TestOpenWithoutSiteURL(t *testing.T) {
	a := newTestApp(t)
	a.loadCurrent(t)

	a.Update(key("o"))
	if !errors.Is(a.err, browser.ErrNoSiteURL) {
		t.Errorf("err = %v, want ErrNoSiteURL", a.err)
	}
}
