// Package newsletter binds the API endpoints to the query cache: it names the
// cache key of every read, builds the paginated lists the screens consume and
// runs mutations followed by their cache invalidations.
package newsletter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/paging"
	"github.com/matheuskafuri/newsletter/internal/querycache"
)

const (
	DefaultPageSize           = 10
	DefaultSubscriberPageSize = 20
	DefaultSiteStaleTime      = 5 * time.Minute
)

type Service struct {
	client *api.Client
	cache  *querycache.Cache
	logger *slog.Logger

	pageSize           int
	subscriberPageSize int
	sitePolicy         querycache.Policy
}

type Option func(*Service)

func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func WithSubscriberPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.subscriberPageSize = n
		}
	}
}

func WithSiteStaleTime(d time.Duration) Option {
	return func(s *Service) { s.sitePolicy = querycache.StalePolicy(d) }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func New(client *api.Client, cache *querycache.Cache, opts ...Option) *Service {
	s := &Service{
		client:             client,
		cache:              cache,
		logger:             slog.Default(),
		pageSize:           DefaultPageSize,
		subscriberPageSize: DefaultSubscriberPageSize,
		sitePolicy:         querycache.StalePolicy(DefaultSiteStaleTime),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Cache() *querycache.Cache {
	return s.cache
}

// ArticlesSource is the flat search listing: every language variant in lang
// matching q, newest first.
func (s *Service) ArticlesSource(lang api.Lang, q string) querycache.Source[api.Article] {
	q = paging.NormalizeQuery(q)
	return querycache.Source[api.Article]{
		Key: List(lang, q),
		Fetch: func(ctx context.Context, cursor string) (api.ArticlePage, error) {
			return s.client.FetchArticles(ctx, paging.Params{
				Lang:   string(lang),
				Query:  q,
				Cursor: cursor,
				Limit:  s.pageSize,
			})
		},
	}
}

// ArticlesByGroupSource lists one variant per group available in lang.
func (s *Service) ArticlesByGroupSource(lang api.Lang) querycache.Source[api.Article] {
	return querycache.Source[api.Article]{
		Key: ListsByGroup(lang),
		Fetch: func(ctx context.Context, cursor string) (api.ArticlePage, error) {
			return s.client.FetchArticlesByGroup(ctx, paging.Params{
				Lang:   string(lang),
				Cursor: cursor,
				Limit:  s.pageSize,
			})
		},
	}
}

// ArticleGroupsSource is the grouped admin listing. AnyLang lists groups in
// every language.
func (s *Service) ArticleGroupsSource(lang api.Lang, q string) querycache.Source[api.ArticleGroup] {
	q = paging.NormalizeQuery(q)
	return querycache.Source[api.ArticleGroup]{
		Key: GroupsQuery(lang, q),
		Fetch: func(ctx context.Context, cursor string) (api.GroupPage, error) {
			return s.client.FetchArticleGroups(ctx, paging.Params{
				Lang:   string(lang),
				Query:  q,
				Cursor: cursor,
				Limit:  s.pageSize,
			})
		},
	}
}

func (s *Service) SubscribersSource() querycache.Source[api.Subscriber] {
	return querycache.Source[api.Subscriber]{
		Key: Subscribers(),
		Fetch: func(ctx context.Context, cursor string) (api.SubscriberPage, error) {
			return s.client.FetchSubscribers(ctx, paging.Params{
				Cursor: cursor,
				Limit:  s.subscriberPageSize,
			})
		},
	}
}

func (s *Service) Articles(lang api.Lang, q string) *querycache.List[api.Article] {
	return querycache.NewList(s.cache, s.ArticlesSource(lang, q))
}

func (s *Service) ArticlesByGroup(lang api.Lang) *querycache.List[api.Article] {
	return querycache.NewList(s.cache, s.ArticlesByGroupSource(lang))
}

func (s *Service) ArticleGroups(lang api.Lang, q string) *querycache.List[api.ArticleGroup] {
	return querycache.NewList(s.cache, s.ArticleGroupsSource(lang, q))
}

func (s *Service) Subscribers() *querycache.List[api.Subscriber] {
	return querycache.NewList(s.cache, s.SubscribersSource())
}

// ArticleByGroup returns the variant of groupID in lang, or nil if that
// language is missing. Always refetched.
func (s *Service) ArticleByGroup(ctx context.Context, groupID string, lang api.Lang) (*api.Article, error) {
	return querycache.Query(ctx, s.cache, ByGroup(groupID, lang), querycache.RefetchPolicy,
		func(ctx context.Context) (*api.Article, error) {
			return s.client.FetchArticleByGroup(ctx, groupID, lang)
		})
}

// ArticleVariants loads every language variant of a group concurrently.
// Missing languages are absent from the map.
func (s *Service) ArticleVariants(ctx context.Context, groupID string) (map[api.Lang]*api.Article, error) {
	langs := api.Langs()
	found := make([]*api.Article, len(langs))
	g, ctx := errgroup.WithContext(ctx)
	for i, lang := range langs {
		i, lang := i, lang
		g.Go(func() error {
			a, err := s.ArticleByGroup(ctx, groupID, lang)
			if err != nil {
				return err
			}
			found[i] = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	out := make(map[api.Lang]*api.Article, len(langs))
	for i, a := range found {
		if a != nil {
			out[langs[i]] = a
		}
	}
	return out, nil
}

func (s *Service) SubscriberCount(ctx context.Context) (int, error) {
	res, err := querycache.Query(ctx, s.cache, SubscriberCount(), querycache.RefetchPolicy, s.client.FetchSubscriberCount)
	return res.Count, err
}

func (s *Service) SubscriberEmails(ctx context.Context) ([]string, error) {
	res, err := querycache.Query(ctx, s.cache, SubscriberEmails(), querycache.RefetchPolicy, s.client.FetchSubscriberEmails)
	return res.Emails, err
}

// BasicInfo and the other site reads never fail: a missing or broken config
// entry is nil. Results, nil included, are reused until they go stale.
func (s *Service) BasicInfo(ctx context.Context, lang api.Lang) *api.BasicInfo {
	v, _ := querycache.Query(ctx, s.cache, BasicInfo(lang), s.sitePolicy,
		func(ctx context.Context) (*api.BasicInfo, error) {
			return s.client.FetchBasicInfo(ctx, lang), nil
		})
	return v
}

// CachedBasicInfo returns the last basic info read for lang without a round
// trip, stale or not.
func (s *Service) CachedBasicInfo(lang api.Lang) *api.BasicInfo {
	v, _ := querycache.PeekValue[*api.BasicInfo](s.cache, BasicInfo(lang))
	return v
}

func (s *Service) Logo(ctx context.Context) *api.Logo {
	v, _ := querycache.Query(ctx, s.cache, Logo(), s.sitePolicy,
		func(ctx context.Context) (*api.Logo, error) {
			return s.client.FetchLogo(ctx), nil
		})
	return v
}

func (s *Service) About(ctx context.Context, lang api.Lang) *api.About {
	v, _ := querycache.Query(ctx, s.cache, About(lang), s.sitePolicy,
		func(ctx context.Context) (*api.About, error) {
			return s.client.FetchAbout(ctx, lang), nil
		})
	return v
}
