package newsletter

import (
	"context"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/querycache"
)

type MutationKind int

const (
	CreateArticle MutationKind = iota
	UpdateArticle
	DeleteArticle
	DeleteGroup
	Subscribe
	Unsubscribe
)

func (k MutationKind) String() string {
	switch k {
	case CreateArticle:
		return "create-article"
	case UpdateArticle:
		return "update-article"
	case DeleteArticle:
		return "delete-article"
	case DeleteGroup:
		return "delete-group"
	case Subscribe:
		return "subscribe"
	case Unsubscribe:
		return "unsubscribe"
	default:
		return "unknown"
	}
}

// Mutation describes a successful write. Lang and GroupID are only read by
// the kinds that need them.
type Mutation struct {
	Kind    MutationKind
	Lang    api.Lang
	GroupID string
}

// Invalidations lists the key prefixes a mutation makes stale. Listings whose
// membership may have changed are dropped in every language they can appear
// in; the cross-language grouped listing is always included because it
// aggregates both languages.
func Invalidations(m Mutation) []querycache.Key {
	grouped := []querycache.Key{Groups(api.LangES), Groups(api.LangEN), Groups(AnyLang)}
	switch m.Kind {
	case CreateArticle:
		keys := append([]querycache.Key{Lists(m.Lang), ListsByGroup(m.Lang)}, grouped...)
		if m.GroupID != "" {
			keys = append(keys, ByGroup(m.GroupID, m.Lang))
		}
		return keys
	case UpdateArticle:
		// A reply without language or group cannot be placed.
		if m.Lang == "" || m.GroupID == "" {
			return []querycache.Key{All}
		}
		keys := append([]querycache.Key{Lists(m.Lang), ListsByGroup(m.Lang)}, grouped...)
		return append(keys, ByGroup(m.GroupID, m.Lang))
	case DeleteArticle:
		return []querycache.Key{All}
	case DeleteGroup:
		keys := []querycache.Key{ListsByGroup(api.LangES), ListsByGroup(api.LangEN)}
		keys = append(keys, grouped...)
		return append(keys,
			Lists(api.LangES), Lists(api.LangEN),
			ByGroup(m.GroupID, api.LangES), ByGroup(m.GroupID, api.LangEN),
		)
	case Subscribe, Unsubscribe:
		return []querycache.Key{SubscribeAll, BasicInfoAll()}
	default:
		return nil
	}
}

func (s *Service) invalidate(m Mutation) {
	dropped := 0
	for _, k := range Invalidations(m) {
		dropped += s.cache.Invalidate(k)
	}
	s.logger.Debug("invalidated after mutation", "mutation", m.Kind.String(), "entries", dropped)
}

// CreateArticle adds a language variant. With an empty GroupID the server
// starts a new group.
func (s *Service) CreateArticle(ctx context.Context, in api.CreateArticleInput) (api.Article, error) {
	a, err := s.client.CreateArticle(ctx, in)
	if err != nil {
		return a, err
	}
	s.invalidate(Mutation{Kind: CreateArticle, Lang: in.Lang, GroupID: in.GroupID})
	return a, nil
}

// UpdateArticle invalidates by the language and group of the stored result,
// not the request. An empty reply resets every article listing.
func (s *Service) UpdateArticle(ctx context.Context, id string, in api.UpdateArticleInput) (api.Article, error) {
	a, err := s.client.UpdateArticle(ctx, id, in)
	if err != nil {
		return a, err
	}
	s.invalidate(Mutation{Kind: UpdateArticle, Lang: a.Lang, GroupID: a.GroupID})
	return a, nil
}

func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	if err := s.client.DeleteArticle(ctx, id); err != nil {
		return err
	}
	s.invalidate(Mutation{Kind: DeleteArticle})
	return nil
}

func (s *Service) DeleteArticleGroup(ctx context.Context, groupID string) error {
	if err := s.client.DeleteArticleGroup(ctx, groupID); err != nil {
		return err
	}
	s.invalidate(Mutation{Kind: DeleteGroup, GroupID: groupID})
	return nil
}

func (s *Service) Subscribe(ctx context.Context, in api.SubscribeInput) (api.SubscribeResult, error) {
	res, err := s.client.Subscribe(ctx, in)
	if err != nil {
		return res, err
	}
	s.invalidate(Mutation{Kind: Subscribe})
	return res, nil
}

// Unsubscribe removes a subscriber through the endpoint chosen by via. Only
// ViaAdmin needs a session.
func (s *Service) Unsubscribe(ctx context.Context, email string, via UnsubscribeVia) (api.UnsubscribeResult, error) {
	var (
		res api.UnsubscribeResult
		err error
	)
	switch via {
	case ViaPublic:
		res, err = s.client.UnsubscribePublic(ctx, email)
	case ViaLink:
		res, err = s.client.UnsubscribeLink(ctx, email)
	default:
		res, err = s.client.Unsubscribe(ctx, email)
	}
	if err != nil {
		return res, err
	}
	s.invalidate(Mutation{Kind: Unsubscribe})
	return res, nil
}

// UnsubscribeVia picks the unsubscribe endpoint.
type UnsubscribeVia int

const (
	ViaAdmin UnsubscribeVia = iota
	ViaPublic
	ViaLink
)
