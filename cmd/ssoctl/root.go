package main

import (
	"github.com/aussiebroadwan/bartab-sso/internal/sso/app"
	"github.com/aussiebroadwan/bartab-sso/internal/sso/store"
	"github.com/spf13/cobra"
)

// storeFlags override the store location taken from the environment.
type storeFlags struct {
	driver   string
	dataDir  string
	database string
	settings string
}

// NewRootCmd creates the root command for the ssoctl CLI.
func NewRootCmd() *cobra.Command {
	flags := &storeFlags{}

	cmd := &cobra.Command{
		Use:   "ssoctl",
		Short: "Manage bartab SSO credentials and sessions",
		Long: `ssoctl edits the credential and session store used by the SSO service.
Store location defaults to the service environment (SSO_STORE_DRIVER,
SSO_DATA_DIR, SSO_DATABASE_FILE, SSO_SETTINGS_FILE). The jsonfile driver is
read once by a running service, so restart it after changing users.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.driver, "driver", "", "store driver (jsonfile, sqlite)")
	cmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "jsonfile data directory")
	cmd.PersistentFlags().StringVar(&flags.database, "database", "", "sqlite database file")
	cmd.PersistentFlags().StringVar(&flags.settings, "settings", "", "settings document")

	cmd.AddCommand(NewUserCmd(flags))
	cmd.AddCommand(NewSessionsCmd(flags))
	cmd.AddCommand(NewHashCmd())
	cmd.AddCommand(NewSecretCmd())

	return cmd
}

// config merges the command line overrides into the environment config.
func (f *storeFlags) config() (app.Config, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return app.Config{}, err
	}
	if f.driver != "" {
		cfg.StoreDriver = f.driver
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.database != "" {
		cfg.DatabaseFile = f.database
	}
	if f.settings != "" {
		cfg.SettingsFile = f.settings
	}
	return cfg, cfg.Validate()
}

func (f *storeFlags) open() (app.Config, store.Store, error) {
	cfg, err := f.config()
	if err != nil {
		return app.Config{}, nil, err
	}
	st, err := app.OpenStore(cfg)
	if err != nil {
		return app.Config{}, nil, err
	}
	return cfg, st, nil
}
