package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/browser"
	"github.com/matheuskafuri/newsletter/internal/newsletter"
	"github.com/matheuskafuri/newsletter/internal/output"
)

var (
	flagArticlesQuery  string
	flagArticlesLimit  int
	flagArticlesAll    bool
	flagGroupsAnyLang  bool
	flagArticleTitle   string
	flagArticleExcerpt string
	flagArticleContent string
	flagArticleFile    string
	flagArticleAuthor  string
	flagArticleSlug    string
	flagArticleGroup   string
	flagArticleTags    []string
	flagArticleUpdated string
)

var articlesCmd = &cobra.Command{
	Use:     "articles",
	Aliases: []string{"a"},
	Short:   "Read and manage articles",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Search published articles in one language",
	Long: `List the articles of the selected language, newest first.

Examples:
  newsletter articles list               # First page
  newsletter articles list --q kafka     # Search
  newsletter articles list --all         # Every page`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, more, err := collect(cmd.Context(), env.svc.Articles(env.lang, flagArticlesQuery), flagArticlesLimit, flagArticlesAll)
		if err != nil {
			return err
		}
		return printArticles(env.printer, items, more)
	},
}

var articlesByGroupCmd = &cobra.Command{
	Use:   "by-group",
	Short: "List one article per group available in the language",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		items, more, err := collect(cmd.Context(), env.svc.ArticlesByGroup(env.lang), flagArticlesLimit, flagArticlesAll)
		if err != nil {
			return err
		}
		return printArticles(env.printer, items, more)
	},
}

var articlesGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List article groups with their available languages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := env.lang
		if flagGroupsAnyLang {
			lang = newsletter.AnyLang
		}
		groups, more, err := collect(cmd.Context(), env.svc.ArticleGroups(lang, flagArticlesQuery), flagArticlesLimit, flagArticlesAll)
		if err != nil {
			return err
		}

		p := env.printer
		if len(groups) == 0 {
			p.Print("No article groups found.")
			return nil
		}
		t := output.NewTable(p.Out(), "Group", "Langs", "Title", "Published")
		for _, g := range groups {
			langs := make([]string, len(g.Support))
			for i, l := range g.Support {
				langs[i] = string(l)
			}
			t.AddRow(g.GroupID, strings.Join(langs, ","), g.Title, formatDate(g.PublishedAt))
		}
		if err := t.Render(); err != nil {
			return err
		}
		printMore(p, more)
		return nil
	},
}

var articlesGetCmd = &cobra.Command{
	Use:   "get <groupId>",
	Short: "Show every language variant of an article group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupID := args[0]
		variants, err := env.svc.ArticleVariants(cmd.Context(), groupID)
		if err != nil {
			return err
		}
		if len(variants) == 0 {
			return fmt.Errorf("article group %q not found", groupID)
		}

		p := env.printer
		for _, lang := range api.Langs() {
			a, ok := variants[lang]
			if !ok {
				p.Print("%s", p.Dim(fmt.Sprintf("[%s] missing", lang)))
				continue
			}
			p.Header(fmt.Sprintf("[%s] %s", lang, a.Title))
			p.Print("id:        %s", a.ID)
			p.Print("author:    %s", a.Author)
			p.Print("published: %s", formatDate(a.PublishedAt))
			if len(a.Tags) > 0 {
				p.Print("tags:      %s", strings.Join(a.Tags, ", "))
			}
			if url, err := browser.ArticleURL(env.cfg.SiteURL, string(lang), groupID); err == nil {
				p.Print("url:       %s", url)
			}
			if a.Excerpt != "" {
				p.Print("")
				p.Print("%s", a.Excerpt)
			}
		}
		return nil
	},
}

var articlesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an article, or a new language variant with --group",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := articleContent()
		if err != nil {
			return err
		}
		if strings.TrimSpace(flagArticleTitle) == "" {
			return fmt.Errorf("--title is required")
		}
		if err := env.requireAdmin(cmd.Context()); err != nil {
			return err
		}

		a, err := env.svc.CreateArticle(cmd.Context(), api.CreateArticleInput{
			Lang:    env.lang,
			GroupID: flagArticleGroup,
			Slug:    flagArticleSlug,
			Author:  flagArticleAuthor,
			Tags:    flagArticleTags,
			Title:   flagArticleTitle,
			Excerpt: flagArticleExcerpt,
			Content: content,
		})
		if err != nil {
			return err
		}
		env.printer.Success("Created %s (group %s, %s)", a.ID, a.GroupID, a.Lang)
		return nil
	},
}

var articlesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an article variant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := updateInput(cmd)
		if err != nil {
			return err
		}
		if err := env.requireAdmin(cmd.Context()); err != nil {
			return err
		}
		a, err := env.svc.UpdateArticle(cmd.Context(), args[0], in)
		if err != nil {
			return err
		}
		env.printer.Success("Updated %s (group %s, %s)", a.ID, a.GroupID, a.Lang)
		return nil
	},
}

var articlesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one article variant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := env.requireAdmin(cmd.Context()); err != nil {
			return err
		}
		if err := env.svc.DeleteArticle(cmd.Context(), args[0]); err != nil {
			return err
		}
		env.printer.Success("Deleted article %s", args[0])
		return nil
	},
}

var articlesDeleteGroupCmd = &cobra.Command{
	Use:   "delete-group <groupId>",
	Short: "Delete every language variant of a group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := env.requireAdmin(cmd.Context()); err != nil {
			return err
		}
		if err := env.svc.DeleteArticleGroup(cmd.Context(), args[0]); err != nil {
			return err
		}
		env.printer.Success("Deleted group %s", args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{articlesListCmd, articlesByGroupCmd, articlesGroupsCmd} {
		c.Flags().IntVar(&flagArticlesLimit, "limit", 0, "load pages until at least this many rows are shown")
		c.Flags().BoolVar(&flagArticlesAll, "all", false, "load every page")
	}
	articlesListCmd.Flags().StringVar(&flagArticlesQuery, "q", "", "search term")
	articlesGroupsCmd.Flags().StringVar(&flagArticlesQuery, "q", "", "search term")
	articlesGroupsCmd.Flags().BoolVar(&flagGroupsAnyLang, "any-lang", false, "list groups in every language")

	for _, c := range []*cobra.Command{articlesCreateCmd, articlesUpdateCmd} {
		c.Flags().StringVar(&flagArticleTitle, "title", "", "title")
		c.Flags().StringVar(&flagArticleExcerpt, "excerpt", "", "short summary")
		c.Flags().StringVar(&flagArticleContent, "content", "", "body (HTML or Markdown)")
		c.Flags().StringVar(&flagArticleFile, "content-file", "", "read the body from a file")
		c.Flags().StringVar(&flagArticleAuthor, "author", "", "author name")
		c.Flags().StringVar(&flagArticleSlug, "slug", "", "URL slug")
		c.Flags().StringSliceVar(&flagArticleTags, "tags", nil, "comma-separated tags")
	}
	articlesCreateCmd.Flags().StringVar(&flagArticleGroup, "group", "", "add a language variant to an existing group")
	articlesUpdateCmd.Flags().StringVar(&flagArticleUpdated, "updated-at", "", "override the update time (RFC 3339)")

	articlesCmd.AddCommand(
		articlesListCmd,
		articlesByGroupCmd,
		articlesGroupsCmd,
		articlesGetCmd,
		articlesCreateCmd,
		articlesUpdateCmd,
		articlesDeleteCmd,
		articlesDeleteGroupCmd,
		articlesImportCmd,
	)
	rootCmd.AddCommand(articlesCmd)
}

func articleContent() (string, error) {
	if flagArticleFile == "" {
		return flagArticleContent, nil
	}
	b, err := os.ReadFile(flagArticleFile)
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return string(b), nil
}

// updateInput sends only the flags that were given.
func updateInput(cmd *cobra.Command) (api.UpdateArticleInput, error) {
	var in api.UpdateArticleInput
	changed := cmd.Flags().Changed
	str := func(name, v string) *string {
		if !changed(name) {
			return nil
		}
		return &v
	}
	in.Title = str("title", flagArticleTitle)
	in.Excerpt = str("excerpt", flagArticleExcerpt)
	in.Author = str("author", flagArticleAuthor)
	in.Slug = str("slug", flagArticleSlug)
	if changed("content") || changed("content-file") {
		content, err := articleContent()
		if err != nil {
			return in, err
		}
		in.Content = &content
	}
	if changed("tags") {
		// --tags "" clears them, so the slice must encode as [] not null.
		tags := append([]string{}, flagArticleTags...)
		in.Tags = &tags
	}
	if changed("updated-at") {
		t, err := time.Parse(time.RFC3339, flagArticleUpdated)
		if err != nil {
			return in, fmt.Errorf("invalid --updated-at: %w", err)
		}
		in.UpdatedAt = &t
	}
	if in == (api.UpdateArticleInput{}) {
		return in, fmt.Errorf("nothing to update: pass at least one field flag")
	}
	return in, nil
}

func printArticles(p *output.Printer, items []api.Article, more bool) error {
	if len(items) == 0 {
		p.Print("No articles found.")
		return nil
	}
	t := output.NewTable(p.Out(), "ID", "Group", "Title", "Author", "Published")
	for _, a := range items {
		t.AddRow(a.ID, a.GroupID, a.Title, a.Author, formatDate(a.PublishedAt))
	}
	if err := t.Render(); err != nil {
		return err
	}
	printMore(p, more)
	return nil
}

func printMore(p *output.Printer, more bool) {
	if more {
		p.Print("%s", p.Dim("More results available: use --all or --limit."))
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
