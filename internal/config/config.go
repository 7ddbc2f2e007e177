package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string   `mapstructure:"app_name"`
	Env            string   `mapstructure:"app_env"`
	LogLevel       string   `mapstructure:"log_level"`
	HTTPAddr       string   `mapstructure:"http_addr"`
	SiteURL        string   `mapstructure:"site_url"`
	PublishersFile string   `mapstructure:"publishers_file"`
	CORSOriginsRaw string   `mapstructure:"cors_origins"`
	CORSOrigins    []string `mapstructure:"-"`

	CMSURL            string        `mapstructure:"cms_url"`
	CMSToken          string        `mapstructure:"cms_token"`
	CMSMediaURL       string        `mapstructure:"cms_media_url"`
	CMSTimeoutSeconds int64         `mapstructure:"cms_timeout_seconds"`
	CMSTimeout        time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("app_name", "devcorner-blog")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":3000")
	v.SetDefault("site_url", "http://localhost:3000")
	v.SetDefault("cms_url", "http://localhost:1337/api")
	v.SetDefault("cms_token", "")
	v.SetDefault("cms_media_url", "")
	v.SetDefault("cms_timeout_seconds", 15)
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("cors_origins", "")
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/newsletter.db")
	v.SetDefault("storage_ttl_seconds", int64((365*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((24*time.Hour)/time.Second))

	v.AutomaticEnv()
	// Names used by the existing front-end deployment.
	_ = v.BindEnv("cms_url", "CMS_URL", "NEXT_PUBLIC_APP_CMS_URL")
	_ = v.BindEnv("cms_token", "CMS_TOKEN", "NEXT_PUBLIC_CMS_TOKEN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CMSURL = strings.TrimSpace(cfg.CMSURL)
	if cfg.CMSURL == "" {
		return nil, fmt.Errorf("cms_url is required")
	}
	cfg.CMSToken = strings.TrimSpace(cfg.CMSToken)
	if cfg.CMSToken == "" {
		return nil, fmt.Errorf("cms_token is required (set CMS_TOKEN or NEXT_PUBLIC_CMS_TOKEN)")
	}
	if cfg.CMSMediaURL == "" {
		cfg.CMSMediaURL = mediaBaseFromAPI(cfg.CMSURL)
	}

	if cfg.CMSTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid cms_timeout_seconds (must be positive seconds)")
	}
	cfg.CMSTimeout = time.Duration(cfg.CMSTimeoutSeconds) * time.Second

	if cfg.StorageTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	cfg.CORSOrigins = parseCSV(cfg.CORSOriginsRaw)
	cfg.SiteURL = strings.TrimRight(strings.TrimSpace(cfg.SiteURL), "/")

	return &cfg, nil
}

// mediaBaseFromAPI strips a trailing /api segment so relative upload paths
// resolve against the CMS host.
func mediaBaseFromAPI(apiURL string) string {
	base := strings.TrimRight(apiURL, "/")
	return strings.TrimSuffix(base, "/api")
}

func parseCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
