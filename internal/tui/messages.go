package tui

import (
	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/querycache"
	"github.com/matheuskafuri/newsletter/internal/search"
)

// pageLoadedMsg is the outcome of a fetch for key. It is dropped if key is
// no longer the list's current source.
type pageLoadedMsg struct {
	key  querycache.Key
	more bool
	err  error
}

type searchTickMsg struct {
	tick search.Tick
}

type loaderHideMsg struct {
	seq uint64
}

type siteLoadedMsg struct {
	lang api.Lang
	info *api.BasicInfo
}

type themeChangedMsg struct{}

type errMsg struct {
	err error
}
