package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	dbm "github.com/cosmos/cosmos-db"

	"cosmossdk.io/log"

	clienttypes "github.com/cosmos/ibc-lightclients/modules/core/02-client/types"
)

const (
	configDir  = "config"
	configFile = "config.toml"
	dataDir    = "data"

	// EnvPrefix prefixes the environment variables overriding config keys, e.g. LIGHTCLIENTD_LOG_LEVEL.
	EnvPrefix = "LIGHTCLIENTD"

	logFormatPlain = "plain"
	logFormatJSON  = "json"
)

// Config is the lightclientd configuration read from $HOME/config/config.toml.
type Config struct {
	LogLevel       string   `mapstructure:"log_level"`
	LogFormat      string   `mapstructure:"log_format"`
	DBBackend      string   `mapstructure:"db_backend"`
	AllowedClients []string `mapstructure:"allowed_clients"`
}

// DefaultConfig returns the configuration written by init.
func DefaultConfig() Config {
	return Config{
		LogLevel:       "info",
		LogFormat:      logFormatPlain,
		DBBackend:      string(dbm.GoLevelDBBackend),
		AllowedClients: clienttypes.DefaultAllowedClients,
	}
}

// Params returns the client params configured by AllowedClients.
func (c Config) Params() clienttypes.Params {
	return clienttypes.NewParams(c.AllowedClients...)
}

// ValidateBasic checks the configuration values.
func (c Config) ValidateBasic() error {
	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}

	switch c.LogFormat {
	case logFormatPlain, logFormatJSON:
	default:
		return fmt.Errorf("invalid log_format %q: expected %s or %s", c.LogFormat, logFormatPlain, logFormatJSON)
	}

	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db_backend %q: expected %s or %s", c.DBBackend, dbm.GoLevelDBBackend, dbm.MemDBBackend)
	}

	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("invalid allowed_clients: %w", err)
	}

	return nil
}

// ConfigPath returns the path of the config file under home.
func ConfigPath(home string) string {
	return filepath.Join(home, configDir, configFile)
}

// ReadConfig reads the config file under home. Keys missing from the file keep their
// default value and every key can be overridden through the environment.
func ReadConfig(home string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(ConfigPath(home))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("db_backend", defaults.DBBackend)
	v.SetDefault("allowed_clients", defaults.AllowedClients)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", ConfigPath(home), err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.ValidateBasic(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// WriteConfig writes cfg as the config file under home.
func WriteConfig(home string, cfg Config) error {
	if err := cfg.ValidateBasic(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(home, configDir), 0o755); err != nil {
		return err
	}

	v := viper.New()
	v.Set("log_level", cfg.LogLevel)
	v.Set("log_format", cfg.LogFormat)
	v.Set("db_backend", cfg.DBBackend)
	v.Set("allowed_clients", cfg.AllowedClients)

	return v.WriteConfigAs(ConfigPath(home))
}
