package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	dbm "github.com/cosmos/cosmos-db"

	"cosmossdk.io/log"
	"cosmossdk.io/store/dbadapter"

	"github.com/cosmos/ibc-lightclients/modules/core/02-client/client/cli"
	"github.com/cosmos/ibc-lightclients/modules/core/keeper"
	ibctypes "github.com/cosmos/ibc-lightclients/modules/core/types"
)

const (
	flagHome = "home"
	flagNow  = "now"

	dbName = "lightclient"
)

// DefaultNodeHome is the default home directory of lightclientd.
var DefaultNodeHome = os.ExpandEnv("$HOME/.lightclientd")

// appState is the keeper opened for the command being run.
type appState struct {
	db     dbm.DB
	keeper *keeper.Keeper
}

func (app *appState) close() error {
	if app.db == nil {
		return nil
	}

	err := app.db.Close()
	app.db, app.keeper = nil, nil
	return err
}

// NewRootCmd creates the lightclientd root command. Every command but init opens the
// store under --home before running and closes it afterwards.
func NewRootCmd() *cobra.Command {
	app := &appState{}

	rootCmd := &cobra.Command{
		Use:          "lightclientd",
		Short:        "light client verification host",
		Long:         "lightclientd creates, updates and queries light clients backed by a local database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			now, err := parseNow(cmd)
			if err != nil {
				return err
			}

			if err := app.open(cmd); err != nil {
				return err
			}

			cli.SetClientContext(cmd, cli.ClientContext{Keeper: app.keeper.ClientKeeper, Now: now})
			return nil
		},
	}

	rootCmd.PersistentFlags().String(flagHome, DefaultNodeHome, "directory for config and data")
	rootCmd.PersistentFlags().String(flagNow, "", "time handed to the light clients as the current time in RFC3339, defaults to the wall clock")

	commands := append(cli.GetTxCommands(), cli.GetQueryCommands()...)
	commands = append(commands, newSubmitAttestationCmd(app))
	for _, cmd := range commands {
		runE := cmd.RunE
		cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
			defer func() {
				if closeErr := app.close(); err == nil {
					err = closeErr
				}
			}()

			return runE(cmd, args)
		}
	}

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(commands...)

	return rootCmd
}

func (app *appState) open(cmd *cobra.Command) error {
	home, err := cmd.Flags().GetString(flagHome)
	if err != nil {
		return err
	}

	cfg, err := ReadConfig(home)
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)

	db, err := dbm.NewDB(dbName, dbm.BackendType(cfg.DBBackend), filepath.Join(home, dataDir))
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", cfg.DBBackend, err)
	}

	app.db = db
	app.keeper = keeper.NewKeeper(ibctypes.NewCodec(), &dbadapter.Store{DB: db}, cfg.Params(), logger)

	return nil
}

func newLogger(out io.Writer, cfg Config) log.Logger {
	opts := []log.Option{}

	// the level was checked by ReadConfig
	if filter, err := log.ParseLogLevel(cfg.LogLevel); err == nil {
		opts = append(opts, log.FilterOption(filter))
	}
	if cfg.LogFormat == logFormatJSON {
		opts = append(opts, log.OutputJSONOption())
	}

	return log.NewLogger(out, opts...)
}

func parseNow(cmd *cobra.Command) (time.Time, error) {
	nowStr, err := cmd.Flags().GetString(flagNow)
	if err != nil {
		return time.Time{}, err
	}
	if nowStr == "" {
		return time.Now().UTC(), nil
	}

	now, err := time.Parse(time.RFC3339, nowStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", flagNow, err)
	}

	return now.UTC(), nil
}
