package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/config"
	"github.com/matheuskafuri/newsletter/internal/prefs"
)

// Creator publishes an article. *newsletter.Service satisfies it, so cache
// invalidation runs for every imported item.
type Creator interface {
	CreateArticle(ctx context.Context, in api.CreateArticleInput) (api.Article, error)
}

// History remembers which items were already published. *prefs.Store
// satisfies it.
type History interface {
	ImportedGUIDs(feed, lang string) (map[string]bool, error)
	RecordImports(records []prefs.Import) error
}

type Importer struct {
	fetcher Fetcher
	creator Creator
	history History
	limiter *rate.Limiter
	logger  *slog.Logger
}

type Option func(*Importer)

func WithFetcher(f Fetcher) Option {
	return func(i *Importer) { i.fetcher = f }
}

func WithHistory(h History) Option {
	return func(i *Importer) { i.history = h }
}

// WithInterval spaces create calls at least d apart. Zero disables pacing.
func WithInterval(d time.Duration) Option {
	return func(i *Importer) {
		if d <= 0 {
			i.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		i.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(i *Importer) { i.logger = l }
}

func NewImporter(c Creator, opts ...Option) *Importer {
	i := &Importer{
		fetcher: NewRSSFetcher(),
		creator: c,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

type Result struct {
	Created []api.Article
	Skipped int
	Errors  []error
}

func (r *Result) merge(o Result) {
	r.Created = append(r.Created, o.Created...)
	r.Skipped += o.Skipped
	r.Errors = append(r.Errors, o.Errors...)
}

// Import publishes the items of src not imported before. A failing item is
// recorded in Result.Errors and the rest continue; fetch failures and
// context cancellation abort.
func (i *Importer) Import(ctx context.Context, src config.Feed) (Result, error) {
	var res Result
	lang, err := api.ParseLang(src.Lang)
	if err != nil {
		return res, fmt.Errorf("feed %q: %w", src.Name, err)
	}

	items, err := i.fetcher.Fetch(ctx, src)
	if err != nil {
		return res, err
	}

	seen := map[string]bool{}
	if i.history != nil {
		if seen, err = i.history.ImportedGUIDs(src.URL, string(lang)); err != nil {
			return res, err
		}
	}

	var records []prefs.Import
	defer func() {
		if i.history == nil || len(records) == 0 {
			return
		}
		if err := i.history.RecordImports(records); err != nil {
			i.logger.Warn("recording imports failed", "feed", src.Name, "error", err)
		}
	}()

	for _, item := range items {
		if seen[item.GUID] {
			res.Skipped++
			continue
		}
		if err := i.limiter.Wait(ctx); err != nil {
			return res, fmt.Errorf("import %s: %w", src.Name, err)
		}
		a, err := i.creator.CreateArticle(ctx, ToInput(item, lang))
		if err != nil {
			i.logger.Warn("import item failed", "feed", src.Name, "title", item.Title, "error", err)
			res.Errors = append(res.Errors, fmt.Errorf("%s: %q: %w", src.Name, item.Title, err))
			continue
		}
		i.logger.Info("imported article", "feed", src.Name, "id", a.ID, "slug", a.Slug)
		res.Created = append(res.Created, a)
		records = append(records, prefs.Import{
			Feed:       src.URL,
			GUID:       item.GUID,
			ArticleID:  a.ID,
			Lang:       string(lang),
			ImportedAt: time.Now(),
		})
	}
	return res, nil
}

// ImportAll imports every feed in turn. A feed that cannot be fetched is
// reported in Errors without stopping the others.
func (i *Importer) ImportAll(ctx context.Context, feeds []config.Feed) Result {
	var total Result
	for _, f := range feeds {
		res, err := i.Import(ctx, f)
		total.merge(res)
		if err != nil {
			total.Errors = append(total.Errors, err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	return total
}
