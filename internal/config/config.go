// Package config loads the service configuration from Viper with sane
// defaults. Precedence: config file, then ORDERFLOW_ environment variables,
// then defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is everything the serve command needs, resolved and ready to use.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Matcher MatcherConfig
	Poller  PollerConfig
	Storage StorageConfig
	Graph   GraphConfig
}

type ServerConfig struct {
	Addr string
}

type CatalogConfig struct {
	Path   string
	Cutoff float64
}

type MatcherConfig struct {
	Offset float64
}

type PollerConfig struct {
	Interval time.Duration
	PageSize int
}

type StorageConfig struct {
	DBPath       string
	MirrorPath   string
	BackupDir    string
	HistoryLimit int
}

type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	UserEmail    string
}

// SetDefaults registers every default value with Viper. Call once before
// reading the config.
func SetDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("catalog.path", "data/catalog.csv")
	viper.SetDefault("catalog.cutoff", 0.60)
	viper.SetDefault("matcher.offset", 0.15)
	viper.SetDefault("poller.interval", "30s")
	viper.SetDefault("poller.page_size", 10)
	viper.SetDefault("storage.db_path", "data/orderflow.db")
	viper.SetDefault("storage.mirror_path", "data/confirmed.json")
	viper.SetDefault("storage.backup_dir", "data/backups")
	viper.SetDefault("storage.history_limit", 1000)
}

// Load materializes the configuration from Viper's current state.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr: viper.GetString("server.addr"),
		},
		Catalog: CatalogConfig{
			Path:   ExpandPath(viper.GetString("catalog.path")),
			Cutoff: viper.GetFloat64("catalog.cutoff"),
		},
		Matcher: MatcherConfig{
			Offset: viper.GetFloat64("matcher.offset"),
		},
		Poller: PollerConfig{
			Interval: viper.GetDuration("poller.interval"),
			PageSize: viper.GetInt("poller.page_size"),
		},
		Storage: StorageConfig{
			DBPath:       ExpandPath(viper.GetString("storage.db_path")),
			MirrorPath:   ExpandPath(viper.GetString("storage.mirror_path")),
			BackupDir:    ExpandPath(viper.GetString("storage.backup_dir")),
			HistoryLimit: viper.GetInt("storage.history_limit"),
		},
		Graph: GraphConfig{
			TenantID:     viper.GetString("graph.tenant_id"),
			ClientID:     viper.GetString("graph.client_id"),
			ClientSecret: viper.GetString("graph.client_secret"),
			UserEmail:    viper.GetString("graph.user_email"),
		},
	}
}

// ExpandPath expands a leading ~ and any $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
