package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/browser"
	"github.com/matheuskafuri/newsletter/internal/newsletter"
	"github.com/matheuskafuri/newsletter/internal/paging"
	"github.com/matheuskafuri/newsletter/internal/prefs"
	"github.com/matheuskafuri/newsletter/internal/querycache"
	"github.com/matheuskafuri/newsletter/internal/search"
	"github.com/matheuskafuri/newsletter/internal/session"
	"github.com/matheuskafuri/newsletter/internal/theme"
)

const requestTimeout = 15 * time.Second

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeHome mode = iota
	modeNormal
	modeSearch
	modeHelp
)

// Prefs stores the browse language between runs.
type Prefs interface {
	Set(key, value string) error
}

type App struct {
	svc     *newsletter.Service
	list    *querycache.List[api.Article]
	theme   *theme.Store
	session *session.Session
	prefs   Prefs
	logger  *slog.Logger

	lang     api.Lang
	siteURL  string
	site     *api.BasicInfo
	articles []api.Article
	hasMore  bool
	cursor   int
	focus    focusPane
	mode     mode

	width  int
	height int

	searchInput textinput.Model
	search      *search.Debounce
	searchDelay time.Duration
	spinner     spinner.Model
	loader      *minLoader
	styles      styles

	previewScroll int
	currentDate   string
	updateVersion string
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Service       *newsletter.Service
	Theme         *theme.Store
	Session       *session.Session
	Prefs         Prefs
	Logger        *slog.Logger
	Lang          api.Lang
	Query         string
	SiteURL       string
	SearchDelay   time.Duration
	MinLoader     time.Duration
	BrowseMode    bool
	UpdateVersion string
}

func NewApp(opts RunOpts) *App {
	lang := opts.Lang
	if lang == "" {
		lang = api.PrimaryLang
	}
	th := opts.Theme
	if th == nil {
		th = theme.New(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	delay := opts.SearchDelay
	if delay <= 0 {
		delay = search.DefaultDelay
	}
	minLoad := opts.MinLoader
	if minLoad <= 0 {
		minLoad = DefaultMinLoader
	}
	st := newStyles(th.Snapshot())

	q := paging.NormalizeQuery(opts.Query)
	ti := textinput.New()
	ti.Placeholder = "Search articles..."
	ti.Prompt = st.searchPrompt.Render("/ ")
	ti.CharLimit = 100
	ti.SetValue(q)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = st.spinner

	startMode := modeHome
	if opts.BrowseMode {
		startMode = modeNormal
	}

	return &App{
		svc:           opts.Service,
		list:          opts.Service.Articles(lang, q),
		theme:         th,
		session:       opts.Session,
		prefs:         opts.Prefs,
		logger:        logger,
		lang:          lang,
		siteURL:       opts.SiteURL,
		searchInput:   ti,
		search:        search.NewDebounce(q),
		searchDelay:   delay,
		spinner:       sp,
		loader:        newMinLoader(minLoad),
		styles:        st,
		currentDate:   time.Now().Format("Jan 2"),
		mode:          startMode,
		updateVersion: opts.UpdateVersion,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.activateCmd(), a.siteCmd())
}

// activateCmd (re)loads the first page of the current source. Published
// content is always refetched on activation.
func (a *App) activateCmd() tea.Cmd {
	list := a.list
	key := list.Source().Key
	return tea.Batch(a.startLoading(), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := list.Activate(ctx)
		return pageLoadedMsg{key: key, err: err}
	})
}

func (a *App) loadMoreCmd() tea.Cmd {
	if !a.hasMore || a.loader.Loading() {
		return nil
	}
	list := a.list
	key := list.Source().Key
	return tea.Batch(a.startLoading(), func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := list.LoadMore(ctx)
		return pageLoadedMsg{key: key, more: true, err: err}
	})
}

func (a *App) siteCmd() tea.Cmd {
	svc := a.svc
	lang := a.lang
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return siteLoadedMsg{lang: lang, info: svc.BasicInfo(ctx, lang)}
	}
}

func queryChangedCmd(q string) tea.Cmd {
	return func() tea.Msg { return search.QueryChanged{Query: q} }
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func (a *App) startLoading() tea.Cmd {
	wasVisible := a.loader.Visible()
	a.loader.Start(time.Now())
	if wasVisible {
		return nil
	}
	return a.spinner.Tick
}

func (a *App) stopLoading() tea.Cmd {
	delay, seq := a.loader.Stop(time.Now())
	if delay <= 0 {
		return nil
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return loaderHideMsg{seq: seq} })
}

// setSource points the list at lang and q and starts it over from the first
// page. Items of the previous source disappear immediately.
func (a *App) setSource(q string) tea.Cmd {
	a.list.SetSource(a.svc.ArticlesSource(a.lang, q))
	a.cursor = 0
	a.previewScroll = 0
	a.syncItems()
	return a.activateCmd()
}

func (a *App) syncItems() {
	a.articles = a.list.Items()
	a.hasMore = a.list.HasMore()
	if a.cursor >= len(a.articles) {
		a.cursor = max(0, len(a.articles)-1)
	}
}

func (a *App) applyTheme() {
	a.styles = newStyles(a.theme.Snapshot())
	a.searchInput.Prompt = a.styles.searchPrompt.Render("/ ")
	a.spinner.Style = a.styles.spinner
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case pageLoadedMsg:
		if !msg.key.Equal(a.list.Source().Key) || errors.Is(msg.err, querycache.ErrSuperseded) {
			a.logger.Debug("dropping stale page", "key", msg.key.String())
			return a, nil
		}
		a.logger.Debug("page loaded", "key", msg.key.String(), "more", msg.more, "err", msg.err)
		cmd := a.stopLoading()
		if msg.err != nil && !errors.Is(msg.err, paging.ErrNoMorePages) {
			a.err = msg.err
		}
		a.syncItems()
		return a, cmd

	case searchTickMsg:
		q, ok := a.search.Expire(msg.tick)
		if !ok {
			return a, nil
		}
		return a, queryChangedCmd(q)

	case search.QueryChanged:
		// A later commit or a language switch may have overtaken this one.
		if msg.Query != a.search.Committed() || a.list.Source().Key.Equal(newsletter.List(a.lang, msg.Query)) {
			return a, nil
		}
		return a, a.setSource(msg.Query)

	case loaderHideMsg:
		a.loader.Hide(msg.seq)
		return a, nil

	case siteLoadedMsg:
		if msg.lang == a.lang {
			a.site = msg.info
		}
		return a, nil

	case themeChangedMsg:
		a.applyTheme()
		return a, nil

	case errMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.loader.Visible() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	switch a.mode {
	case modeHome:
		return a.handleHomeKey(msg)
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusPreview {
			a.previewScroll++
			return a, nil
		}
		if a.cursor < len(a.articles)-1 {
			a.cursor++
			a.previewScroll = 0
		}
		if a.cursor >= len(a.articles)-1 {
			return a, a.loadMoreCmd()
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "n":
		return a, a.loadMoreCmd()
	case "o", "enter":
		if sel := a.selected(); sel != nil {
			url, err := browser.ArticleURL(a.siteURL, string(a.lang), sel.GroupID)
			if err != nil {
				a.err = err
				return a, nil
			}
			return a, openBrowserCmd(url)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "l":
		return a, a.switchLang()
	case "t":
		return a, a.toggleTheme()
	case "r":
		return a, a.activateCmd()
	case "h":
		a.mode = modeHome
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e", "b", "enter":
		a.mode = modeNormal
		return a, nil
	case "l":
		return a, a.switchLang()
	case "t":
		return a, a.toggleTheme()
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		return a, a.commitNow("")
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, a.commitNow(a.searchInput.Value())
	}

	before := a.searchInput.Value()
	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	// Only cursor moves and the like leave the value unchanged.
	if v := a.searchInput.Value(); v != before {
		if tick, armed := a.search.Input(paging.NormalizeQuery(v)); armed {
			cmd = tea.Batch(cmd, tea.Tick(a.searchDelay, func(time.Time) tea.Msg {
				return searchTickMsg{tick: tick}
			}))
		}
	}
	return a, cmd
}

// commitNow skips the debounce window. A pending countdown is dropped either
// way.
func (a *App) commitNow(v string) tea.Cmd {
	q := paging.NormalizeQuery(v)
	unchanged := q == a.search.Committed()
	a.search.SetCommitted(q)
	if unchanged {
		return nil
	}
	return queryChangedCmd(q)
}

// switchLang shows the other edition. The site card of that language is
// reused from the cache until the refetch lands.
func (a *App) switchLang() tea.Cmd {
	a.lang = a.lang.Other()
	a.site = a.svc.CachedBasicInfo(a.lang)
	if a.prefs != nil {
		if err := a.prefs.Set(prefs.KeyLanguage, string(a.lang)); err != nil {
			a.logger.Warn("saving language", "error", err)
		}
	}
	return tea.Batch(a.setSource(a.search.Committed()), a.siteCmd())
}

func (a *App) toggleTheme() tea.Cmd {
	if _, err := a.theme.Toggle(); err != nil {
		a.err = err
	}
	a.applyTheme()
	return nil
}

func (a *App) selected() *api.Article {
	if len(a.articles) == 0 || a.cursor >= len(a.articles) {
		return nil
	}
	return &a.articles[a.cursor]
}

func (a *App) admin() bool {
	return a.session != nil && a.session.Decision() == session.Allowed
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := a.styles.renderBottomBar(hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:max(0, a.height-1)]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return a.styles.accent.Render("  newsletter")
	}

	switch a.mode {
	case modeHome:
		return a.withBottomBar(a.styles.renderHomeScreen(a.width, a.height, a.lang, a.site, a.updateVersion), "e browse  l lang  t theme  q quit")
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "? close  h home  q quit")
	}

	headerHeight := 1
	tabsHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - tabsHeight - statusHeight - 4 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}

	listWidth := int(float64(a.width) * 0.35)
	previewWidth := a.width - listWidth - 1

	name := "newsletter"
	if a.site != nil && a.site.Name != "" {
		name = a.site.Name
	}
	headerLeft := a.styles.header.Render(name)
	headerRight := a.styles.headerDate.Render(a.currentDate)
	headerGap := max(0, a.width-lipgloss.Width(headerLeft)-lipgloss.Width(headerRight))
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	tabs := a.styles.langTabs(a.lang, a.search.Committed(), a.width)
	if a.mode == modeSearch {
		tabs = a.searchInput.View()
	}

	innerListW := listWidth - 4
	listContent := a.styles.renderList(a.articles, a.cursor, contentHeight, innerListW, a.hasMore)
	listStyle := a.styles.listPane
	if a.focus == focusList {
		listStyle = a.styles.listActive
	}
	listPane := listStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	sel := a.selected()
	var link string
	if sel != nil {
		link, _ = browser.ArticleURL(a.siteURL, string(a.lang), sel.GroupID)
	}
	previewContent := a.styles.renderPreview(sel, link, previewWidth-4, contentHeight, a.previewScroll)
	previewStyle := a.styles.previewPane
	if a.focus == focusPreview {
		previewStyle = a.styles.previewFocus
	}
	previewPane := previewStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := a.styles.renderStatusBar(statusInfo{
		count:     len(a.articles),
		hasMore:   a.hasMore,
		searching: a.mode == modeSearch,
		loading:   a.loader.Visible(),
		admin:     a.admin(),
	}, a.width)
	if a.loader.Visible() {
		status = a.spinner.View() + " " + status
	}
	if a.err != nil {
		status = a.styles.errorText.Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, content, status)
}

func (a *App) renderHelp() string {
	dim := a.styles.dimText

	help := a.styles.accent.Render("newsletter") + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Navigate article list\n" +
		"  tab           Switch focus between list and preview\n" +
		"  n             Load more articles\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open article on the site\n" +
		"  r             Reload the list\n" +
		"  /             Search articles\n" +
		"  l             Switch language\n" +
		"  t             Toggle light/dark theme\n\n" +
		dim.Render("General") + "\n" +
		"  h             Go to home screen\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.styles.helpCard.Render(help))
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	// Send must not block the listener: the theme may change from inside Update.
	unsubscribe := app.theme.Subscribe(func() { go p.Send(themeChangedMsg{}) })
	defer unsubscribe()
	_, err := p.Run()
	return err
}
