package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const (
	flagOverwrite      = "overwrite"
	flagAllowedClients = "allowed-clients"
	flagDBBackend      = "db-backend"
	flagLogFormat      = "log-format"
)

// NewInitCmd returns the command writing the default configuration under home.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "initialize the lightclientd home directory",
		Long:  "write config/config.toml and create the data directory under --home",
		Args:  cobra.NoArgs,
		// init runs before a store exists
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := cmd.Flags().GetString(flagHome)
			if err != nil {
				return err
			}

			overwrite, err := cmd.Flags().GetBool(flagOverwrite)
			if err != nil {
				return err
			}
			if _, err := os.Stat(ConfigPath(home)); err == nil && !overwrite {
				return fmt.Errorf("config file %s already exists, use --%s to replace it", ConfigPath(home), flagOverwrite)
			}

			cfg := DefaultConfig()
			if cmd.Flags().Changed(flagAllowedClients) {
				if cfg.AllowedClients, err = cmd.Flags().GetStringSlice(flagAllowedClients); err != nil {
					return err
				}
			}
			if cfg.DBBackend, err = cmd.Flags().GetString(flagDBBackend); err != nil {
				return err
			}
			if cfg.LogFormat, err = cmd.Flags().GetString(flagLogFormat); err != nil {
				return err
			}

			if err := WriteConfig(home, cfg); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Join(home, dataDir), 0o755); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ConfigPath(home))
			return nil
		},
	}

	defaults := DefaultConfig()
	cmd.Flags().Bool(flagOverwrite, false, "overwrite an existing config file")
	cmd.Flags().StringSlice(flagAllowedClients, defaults.AllowedClients, "client types which may be created, * allows all")
	cmd.Flags().String(flagDBBackend, defaults.DBBackend, "database backend: goleveldb or memdb")
	cmd.Flags().String(flagLogFormat, defaults.LogFormat, "log format: plain or json")

	return cmd
}
