package newsletter

import (
	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/paging"
	"github.com/matheuskafuri/newsletter/internal/querycache"
)

// AnyLang is the language component of grouped listings that are not
// filtered by language.
const AnyLang api.Lang = ""

// Article keys. Every one starts with All, so deleting an article can reset
// the whole tree with a single prefix.
var All = querycache.K("newsletter")

func Lists(lang api.Lang) querycache.Key {
	return All.With("list", string(lang))
}

func List(lang api.Lang, q string) querycache.Key {
	return Lists(lang).With(paging.NormalizeQuery(q))
}

func ListsByGroup(lang api.Lang) querycache.Key {
	return All.With("listByGroup", string(lang))
}

func GroupsAll() querycache.Key {
	return All.With("groups")
}

// Groups is the prefix of every grouped listing in lang. AnyLang selects the
// unfiltered listing only, not every language.
func Groups(lang api.Lang) querycache.Key {
	return GroupsAll().With(string(lang))
}

func GroupsQuery(lang api.Lang, q string) querycache.Key {
	return Groups(lang).With(paging.NormalizeQuery(q))
}

func ByGroup(groupID string, lang api.Lang) querycache.Key {
	return All.With("byGroup", groupID, string(lang))
}

// Subscriber keys.
var SubscribeAll = querycache.K("subscribe")

func Subscribers() querycache.Key      { return SubscribeAll.With("list") }
func SubscriberCount() querycache.Key  { return SubscribeAll.With("count") }
func SubscriberEmails() querycache.Key { return SubscribeAll.With("emails") }

// Site configuration keys.
var SiteAll = querycache.K("site")

func BasicInfoAll() querycache.Key {
	return SiteAll.With("basic-info")
}

func BasicInfo(lang api.Lang) querycache.Key {
	return BasicInfoAll().With(string(lang))
}

func Logo() querycache.Key {
	return SiteAll.With("logo")
}

func About(lang api.Lang) querycache.Key {
	return SiteAll.With("about", string(lang))
}
