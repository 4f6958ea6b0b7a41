package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Version is the application version, overridden at build time via ldflags.
var Version = "dev"

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	RAWG       RAWGConfig       `mapstructure:"rawg"`
	IGDB       IGDBConfig       `mapstructure:"igdb"`
	YouTube    YouTubeConfig    `mapstructure:"youtube"`
	FreeToGame FreeToGameConfig `mapstructure:"freetogame"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// StaticDir is an optional directory of built frontend assets served
	// with an SPA fallback. Empty disables static serving.
	StaticDir string `mapstructure:"static_dir"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// RateLimitConfig holds the shared catalog-provider request quota.
type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowSeconds int `mapstructure:"window_seconds"`
	SweepSeconds  int `mapstructure:"sweep_seconds"`
}

// RAWGConfig holds the primary catalog provider configuration.
type RAWGConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	PageSize int    `mapstructure:"page_size"`
	Timeout  int    `mapstructure:"timeout"`
}

// IGDBConfig holds the metadata provider and identity endpoint configuration.
// ClientID and ClientSecret are only ever used server-side by the proxy.
type IGDBConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	AuthURL      string `mapstructure:"auth_url"`
	APIURL       string `mapstructure:"api_url"`
	// ProxyURL is where the aggregation-side client reaches the proxy's
	// /igdb endpoint, e.g. http://localhost:3001/igdb.
	ProxyURL string `mapstructure:"proxy_url"`
	Timeout  int    `mapstructure:"timeout"`
}

// YouTubeConfig holds the video-search provider configuration.
type YouTubeConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// FreeToGameConfig holds the free-games listing provider configuration.
type FreeToGameConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.gamedex")
	}

	v.SetEnvPrefix("GAMEDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.static_dir", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.compress", true)

	// Catalog provider quota: 40 requests per rolling minute
	v.SetDefault("ratelimit.max_requests", 40)
	v.SetDefault("ratelimit.window_seconds", 60)
	v.SetDefault("ratelimit.sweep_seconds", 30)

	v.SetDefault("rawg.api_key", "")
	v.SetDefault("rawg.base_url", "https://api.rawg.io/api")
	v.SetDefault("rawg.page_size", 20)
	v.SetDefault("rawg.timeout", 15)

	v.SetDefault("igdb.client_id", "")
	v.SetDefault("igdb.client_secret", "")
	v.SetDefault("igdb.auth_url", "https://id.twitch.tv/oauth2/token")
	v.SetDefault("igdb.api_url", "https://api.igdb.com/v4")
	v.SetDefault("igdb.proxy_url", "")
	v.SetDefault("igdb.timeout", 15)

	v.SetDefault("youtube.api_key", "")
	v.SetDefault("youtube.base_url", "https://www.googleapis.com/youtube/v3")
	v.SetDefault("youtube.timeout", 10)

	v.SetDefault("freetogame.base_url", "https://www.freetogame.com/api")
	v.SetDefault("freetogame.timeout", 15)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
