package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMemory    = "memory"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
	DriverDatastore = "datastore"
)

type Config struct {
	Port              string
	StoreDriver       string
	DatabaseURL       string
	SQLitePath        string
	DatastoreProject  string
	LogLevel          string
	GinMode           string
	CascadeBoatDelete bool
}

// Load reads an optional config.yaml and .env from the working directory.
// The process environment wins over .env, which wins over config.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("store_driver", DriverMemory)
	v.SetDefault("sqlite_path", "marina.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("boat_delete_cascade", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := readDotEnv(v, ".env"); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:              v.GetString("port"),
		StoreDriver:       v.GetString("store_driver"),
		DatabaseURL:       v.GetString("database_url"),
		SQLitePath:        v.GetString("sqlite_path"),
		DatastoreProject:  v.GetString("datastore_project_id"),
		LogLevel:          v.GetString("log_level"),
		GinMode:           v.GetString("gin_mode"),
		CascadeBoatDelete: v.GetBool("boat_delete_cascade"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readDotEnv(v *viper.Viper, path string) error {
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	for key, val := range vars {
		if _, ok := os.LookupEnv(key); ok {
			continue
		}
		v.Set(strings.ToLower(key), val)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverDatastore:
	case DriverSQLite:
		if c.SQLitePath == "" {
			return errors.New("must set $SQLITE_PATH")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("must set $DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown $STORE_DRIVER %q", c.StoreDriver)
	}

	if c.Port == "" {
		return errors.New("must set $PORT")
	}
	return nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}
