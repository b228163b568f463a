package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/bartab-sso/internal/sso/app"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/service"
	"github.com/spf13/cobra"
)

// NewSessionsCmd creates the sessions command group.
func NewSessionsCmd(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and prune stored sessions",
	}

	cmd.AddCommand(newSessionsListCmd(flags))
	cmd.AddCommand(newSessionsPruneCmd(flags))

	return cmd
}

func newSessionsListCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live sessions, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, closeStore, err := openSessions(flags)
			if err != nil {
				return err
			}
			defer closeStore()

			active, err := sessions.ListActive(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USERNAME\tIP\tCREATED\tEXPIRES")
			for _, s := range active {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					s.Username,
					s.IP,
					s.CreatedAt.Format(time.RFC3339),
					s.ExpiresAt(sessions.Length).Format(time.RFC3339),
				)
			}
			return tw.Flush()
		},
	}
}

func newSessionsPruneCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions from the store",
		Long: `Delete expired sessions from the store. A running service keeps its own
copy of the session set, so prefer its housekeeping over this command while it is up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sessions, closeStore, err := openSessions(flags)
			if err != nil {
				return err
			}
			defer closeStore()

			removed, err := sessions.PruneExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired sessions\n", removed)
			return nil
		},
	}
}

// openSessions builds a SessionService using the session length from the
// settings document.
func openSessions(flags *storeFlags) (*service.SessionService, func(), error) {
	cfg, err := flags.config()
	if err != nil {
		return nil, nil, err
	}
	settings, err := app.LoadSettings(cfg.SettingsFile)
	if err != nil {
		return nil, nil, err
	}

	st, err := app.OpenStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	return service.NewSessionService(st, settings.SessionDuration(), nil), func() { _ = st.Close() }, nil
}
