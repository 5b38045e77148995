package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/newsletter/internal/config"
	"github.com/matheuskafuri/newsletter/internal/feed"
)

var (
	flagImportFeed   string
	flagImportNoSave bool
)

var articlesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Publish new items from RSS/Atom feeds",
	Long: `Create an article for every feed item that was not imported before.

Without --feed, every enabled feed in the config file is imported. Items are
created in the feed's language; --feed uses the --lang language.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		feeds := env.cfg.EnabledFeeds()
		if flagImportFeed != "" {
			feeds = []config.Feed{{Name: flagImportFeed, URL: flagImportFeed, Lang: string(env.lang), Enabled: true}}
		}
		if len(feeds) == 0 {
			return fmt.Errorf("no feeds to import: pass --feed or enable feeds in %s", configPath())
		}
		if err := env.requireAdmin(cmd.Context()); err != nil {
			return err
		}

		opts := []feed.Option{
			feed.WithInterval(env.cfg.ImportIntervalDuration()),
			feed.WithLogger(env.logger),
		}
		if !flagImportNoSave {
			store, err := env.openPrefs()
			if err != nil {
				return err
			}
			defer store.Close()
			opts = append(opts, feed.WithHistory(store))
		}

		p := env.printer
		p.Info("Importing %d feed(s)...", len(feeds))
		res := feed.NewImporter(env.svc, opts...).ImportAll(cmd.Context(), feeds)

		for _, a := range res.Created {
			p.Success("%s  %s", a.ID, a.Title)
		}
		for _, err := range res.Errors {
			p.Warning("%v", err)
		}
		p.Print("%d created, %d already imported, %d failed", len(res.Created), res.Skipped, len(res.Errors))
		if len(res.Created) == 0 && len(res.Errors) > 0 {
			return fmt.Errorf("import failed")
		}
		return nil
	},
}

func init() {
	articlesImportCmd.Flags().StringVar(&flagImportFeed, "feed", "", "feed URL to import instead of the configured feeds")
	articlesImportCmd.Flags().BoolVar(&flagImportNoSave, "no-history", false, "do not read or record import history")
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.DefaultConfigPath()
}
