package cmd

import (
	"github.com/spf13/cobra"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/prefs"
	"github.com/matheuskafuri/newsletter/internal/theme"
	"github.com/matheuskafuri/newsletter/internal/tui"
	"github.com/matheuskafuri/newsletter/internal/update"
)

var flagBrowseQuery string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the article browser",
	Long:  "Open the newsletter directly in browse mode, the two-pane article browser.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, true)
	},
}

func init() {
	browseCmd.Flags().StringVar(&flagBrowseQuery, "q", "", "start with this search")
}

func runApp(cmd *cobra.Command, browse bool) error {
	store, err := env.openPrefs()
	if err != nil {
		return err
	}
	defer store.Close()

	th := theme.New(store)
	th.Hydrate()

	lang := env.lang
	if flagLang == "" {
		lang = savedLang(store, lang)
	}

	// The browser works without admin rights; a secret only adds the badge.
	if env.secret() != "" {
		if err := env.requireAdmin(cmd.Context()); err != nil {
			env.printer.Warning("Admin login failed: %v", err)
		}
	}

	var latest string
	checker := update.NewChecker(update.WithThrottle(store, update.DefaultInterval))
	if res := checker.Auto(cmd.Context(), version); res != nil {
		latest = res.LatestVersion
	}

	return tui.Run(tui.RunOpts{
		Service:       env.svc,
		Theme:         th,
		Session:       env.session,
		Prefs:         store,
		Logger:        env.logger,
		Lang:          lang,
		Query:         flagBrowseQuery,
		SiteURL:       env.cfg.SiteURL,
		SearchDelay:   env.cfg.SearchDebounceDuration(),
		MinLoader:     env.cfg.MinLoaderDuration(),
		BrowseMode:    browse,
		UpdateVersion: latest,
	})
}

// savedLang returns the language last chosen in the browser, or fallback
// when none was saved or it is no longer supported.
func savedLang(store *prefs.Store, fallback api.Lang) api.Lang {
	v, ok, err := store.Get(prefs.KeyLanguage)
	if err != nil || !ok {
		return fallback
	}
	lang, err := api.ParseLang(v)
	if err != nil {
		return fallback
	}
	return lang
}
