package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheuskafuri/newsletter/internal/api"
	"github.com/matheuskafuri/newsletter/internal/newsletter"
	"github.com/matheuskafuri/newsletter/internal/output"
)

var (
	flagUnsubPublic bool
	flagUnsubLink   bool
	flagSubsAll     bool
	flagSubsLimit   int
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe <email>",
	Short: "Subscribe an email address in the selected language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !api.ValidEmail(args[0]) {
			return fmt.Errorf("invalid email address %q", args[0])
		}
		res, err := env.svc.Subscribe(cmd.Context(), api.SubscribeInput{Email: args[0], Lang: env.lang})
		if err != nil {
			return err
		}
		msg := res.Message
		if msg == "" {
			msg = "Subscribed " + api.NormalizeEmail(args[0])
		}
		env.printer.Success("%s", msg)
		return nil
	},
}

var unsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <email>",
	Short: "Remove a subscriber",
	Long: `Remove a subscriber.

By default the admin endpoint is used and the admin secret is required.
--public and --link use the endpoints behind the site's unsubscribe form and
the link in newsletter emails, which need no secret.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		via := newsletter.ViaAdmin
		switch {
		case flagUnsubPublic:
			via = newsletter.ViaPublic
		case flagUnsubLink:
			via = newsletter.ViaLink
		default:
			if err := env.requireAdmin(cmd.Context()); err != nil {
				return err
			}
		}

		res, err := env.svc.Unsubscribe(cmd.Context(), args[0], via)
		if err != nil {
			return err
		}
		if !res.OK {
			env.printer.Warning("The server did not confirm the removal of %s", api.NormalizeEmail(args[0]))
			return nil
		}
		env.printer.Success("Unsubscribed %s", api.NormalizeEmail(args[0]))
		return nil
	},
}

var subscribersCmd = &cobra.Command{
	Use:   "subscribers",
	Short: "Inspect subscribers (admin)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd); err != nil {
			return err
		}
		return env.requireAdmin(cmd.Context())
	},
}

var subscribersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		subs, more, err := collect(cmd.Context(), env.svc.Subscribers(), flagSubsLimit, flagSubsAll)
		if err != nil {
			return err
		}
		p := env.printer
		if len(subs) == 0 {
			p.Print("No subscribers.")
			return nil
		}
		t := output.NewTable(p.Out(), "Email", "Lang", "Since")
		for _, s := range subs {
			t.AddRow(s.Email, string(s.Lang), formatDate(s.CreatedAt))
		}
		if err := t.Render(); err != nil {
			return err
		}
		printMore(p, more)
		return nil
	},
}

var subscribersCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of subscribers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := env.svc.SubscriberCount(cmd.Context())
		if err != nil {
			return err
		}
		env.printer.Print("%d", n)
		return nil
	},
}

var subscribersEmailsCmd = &cobra.Command{
	Use:   "emails",
	Short: "Print every subscriber email, one per line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		emails, err := env.svc.SubscriberEmails(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range emails {
			env.printer.Print("%s", e)
		}
		return nil
	},
}

func init() {
	unsubscribeCmd.Flags().BoolVar(&flagUnsubPublic, "public", false, "use the public unsubscribe endpoint")
	unsubscribeCmd.Flags().BoolVar(&flagUnsubLink, "link", false, "use the email-link unsubscribe endpoint")
	unsubscribeCmd.MarkFlagsMutuallyExclusive("public", "link")

	subscribersListCmd.Flags().BoolVar(&flagSubsAll, "all", false, "load every page")
	subscribersListCmd.Flags().IntVar(&flagSubsLimit, "limit", 0, "load pages until at least this many rows are shown")

	subscribersCmd.AddCommand(subscribersListCmd, subscribersCountCmd, subscribersEmailsCmd)
	rootCmd.AddCommand(subscribeCmd, unsubscribeCmd, subscribersCmd)
}
