package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Show the public site configuration",
}

var siteInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the author card in the selected language",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := env.svc.BasicInfo(cmd.Context(), env.lang)
		p := env.printer
		if info == nil {
			p.Warning("No basic info configured for %s", env.lang)
			return nil
		}
		p.Header(info.Name)
		printField := func(label, v string) {
			if v != "" {
				p.Print("%-12s %s", label+":", v)
			}
		}
		printField("role", info.Role)
		if info.StartYear > 0 {
			printField("since", fmt.Sprint(info.StartYear))
		}
		printField("city", info.City)
		printField("country", info.Country)
		printField("github", info.GitHub)
		printField("linkedin", info.LinkedIn)
		if info.SubscriberCount != nil {
			printField("subscribers", fmt.Sprint(*info.SubscriberCount))
		}
		return nil
	},
}

var siteAboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show the about page in the selected language",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		about := env.svc.About(cmd.Context(), env.lang)
		p := env.printer
		if about == nil {
			p.Warning("No about page configured for %s", env.lang)
			return nil
		}
		p.Header(about.Title)
		if about.Subtitle != "" {
			p.Print("%s", p.Dim(about.Subtitle))
		}
		for _, s := range about.Sections {
			p.Header(s.Title)
			p.Print("%s", s.Content)
		}
		return nil
	},
}

var siteLogoCmd = &cobra.Command{
	Use:   "logo",
	Short: "Print the logo URL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logo := env.svc.Logo(cmd.Context())
		if logo == nil || logo.URL == "" {
			env.printer.Warning("No logo configured")
			return nil
		}
		env.printer.Print("%s", logo.URL)
		return nil
	},
}

func init() {
	siteCmd.AddCommand(siteInfoCmd, siteAboutCmd, siteLogoCmd)
	rootCmd.AddCommand(siteCmd)
}
