package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/config"
	"github.com/matheuskafuri/newsletter/internal/newsletter"
	"github.com/matheuskafuri/newsletter/internal/output"
	"github.com/matheuskafuri/newsletter/internal/paging"
	"github.com/matheuskafuri/newsletter/internal/prefs"
	"github.com/matheuskafuri/newsletter/internal/querycache"
	"github.com/matheuskafuri/newsletter/internal/session"
)

var errNoSecret = errors.New("this command needs the admin secret: pass --secret or export " + config.EnvAdminSecret)

// environment is everything a command needs, built once per invocation.
type environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	printer *output.Printer
	lang    api.Lang

	tokens  *session.TokenStore
	client  *api.Client
	session *session.Session
	cache   *querycache.Cache
	svc     *newsletter.Service
}

var env *environment

func setup(cmd *cobra.Command) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	lang := cfg.Lang()
	if flagLang != "" {
		if lang, err = api.ParseLang(flagLang); err != nil {
			return err
		}
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	tokens := &session.TokenStore{}
	client := api.NewClient(cfg.APIURL,
		api.WithTokenSource(tokens),
		api.WithLogger(logger),
		api.WithRequestLogging(cfg.LogRequests),
	)
	sess := session.New(tokens, client)
	sess.Hydrate()

	cache := querycache.New(querycache.WithLogger(logger))
	svc := newsletter.New(client, cache,
		newsletter.WithPageSize(cfg.GetPageSize()),
		newsletter.WithSubscriberPageSize(cfg.GetSubscribersPageSize()),
		newsletter.WithSiteStaleTime(cfg.SiteStaleDuration()),
		newsletter.WithLogger(logger),
	)

	env = &environment{
		cfg:     cfg,
		logger:  logger,
		printer: output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ColorsEnabled()),
		lang:    lang,
		tokens:  tokens,
		client:  client,
		session: sess,
		cache:   cache,
		svc:     svc,
	}
	logger.Debug("configuration loaded", "api_url", cfg.APIURL, "lang", lang)
	return nil
}

func (e *environment) secret() string {
	if flagSecret != "" {
		return flagSecret
	}
	return e.cfg.AdminSecret()
}

// requireAdmin logs in with the configured secret unless the session already
// holds a token.
func (e *environment) requireAdmin(ctx context.Context) error {
	if e.session.Decision() == session.Allowed {
		return nil
	}
	secret := e.secret()
	if secret == "" {
		return errNoSecret
	}
	if err := e.session.Login(ctx, secret); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	e.logger.Debug("admin session started")
	return nil
}

func (e *environment) openPrefs() (*prefs.Store, error) {
	p, err := prefs.Open(config.PrefsPath())
	if err != nil {
		return nil, fmt.Errorf("opening preferences: %w", err)
	}
	return p, nil
}

// collect loads the first page of l and then keeps loading until limit items
// are in or, with all, until the chain ends. It reports whether more pages
// remain.
func collect[T any](ctx context.Context, l *querycache.List[T], limit int, all bool) ([]T, bool, error) {
	if _, err := l.Activate(ctx); err != nil {
		return nil, false, err
	}
	for l.HasMore() && (all || len(l.Items()) < limit) {
		if _, err := l.LoadMore(ctx); err != nil {
			if errors.Is(err, paging.ErrNoMorePages) {
				break
			}
			return nil, false, err
		}
	}
	items := l.Items()
	more := l.HasMore()
	if limit > 0 && len(items) > limit {
		items = items[:limit]
		more = true
	}
	return items, more, nil
}
