package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/wishlist/pkg/constants"
	"github.com/agentstation/wishlist/pkg/errors"
	"github.com/agentstation/wishlist/pkg/storage"
)

// envPrefix namespaces environment variables: storage.driver is read from
// WISHLIST_STORAGE_DRIVER.
const envPrefix = "WISHLIST"

// Config holds the application configuration loaded from config files,
// environment variables and .env files. Flags are applied on top by
// UpdateFromFlags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Storage
	StorageDriver storage.Driver
	StoragePath   string
	StorageKey    string

	// Catalog seed file; empty uses the embedded catalog
	CatalogPath string

	// HTTP server
	ServerHost string
	ServerPort int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables (WISHLIST_*)
//  3. .env and .env.local
//  4. Config file (configFile, or ~/.wishlist.yaml)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigFile)
		// a missing default config file is fine
		_ = v.ReadInConfig()
	}

	driver, err := storage.ParseDriver(v.GetString("storage.driver"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		StorageDriver: driver,
		StoragePath:   v.GetString("storage.path"),
		StorageKey:    v.GetString("storage.key"),

		CatalogPath: v.GetString("catalog.path"),

		ServerHost: v.GetString("server.host"),
		ServerPort: v.GetInt("server.port"),

		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogOutput: v.GetString("log.output"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", string(storage.DriverSQLite))
	v.SetDefault("storage.key", storage.DefaultKey)
	v.SetDefault("server.host", constants.DefaultHost)
	v.SetDefault("server.port", constants.DefaultPort)
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// ResolvedStoragePath returns the storage location with ~ expanded, or the
// driver's default location when none is configured.
func (c *Config) ResolvedStoragePath() (string, error) {
	path := c.StoragePath
	if path == "" {
		switch c.StorageDriver {
		case storage.DriverFiles:
			path = filepath.Join(constants.DefaultDataPath, constants.DefaultFilesDir)
		default:
			path = filepath.Join(constants.DefaultDataPath, constants.DefaultDatabaseFile)
		}
	}
	return expandHome(path)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.NewConfigError("storage", "cannot resolve home directory", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set in the environment win.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
