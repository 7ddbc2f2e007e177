package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("CMS_TOKEN", "secret")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppName != "devcorner-blog" || cfg.HTTPAddr != ":3000" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.CMSTimeout != 15*time.Second {
		t.Fatalf("timeout = %v", cfg.CMSTimeout)
	}
	if cfg.CMSMediaURL != "http://localhost:1337" {
		t.Fatalf("media url = %q", cfg.CMSMediaURL)
	}
	if cfg.StorageTTL <= 0 || cfg.StorageCleanupInterval <= 0 {
		t.Fatalf("storage durations not derived: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected no cors origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadAcceptsFrontendEnvNames(t *testing.T) {
	t.Setenv("CMS_TOKEN", "")
	t.Setenv("CMS_URL", "")
	t.Setenv("NEXT_PUBLIC_CMS_TOKEN", "front-token")
	t.Setenv("NEXT_PUBLIC_APP_CMS_URL", "https://cms.devcorner.dev/api/")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CMSToken != "front-token" {
		t.Fatalf("token = %q", cfg.CMSToken)
	}
	if cfg.CMSURL != "https://cms.devcorner.dev/api/" {
		t.Fatalf("cms url = %q", cfg.CMSURL)
	}
	if cfg.CMSMediaURL != "https://cms.devcorner.dev" {
		t.Fatalf("media url = %q", cfg.CMSMediaURL)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("CMS_TOKEN", "")
	t.Setenv("NEXT_PUBLIC_CMS_TOKEN", "")
	if _, err := load(viper.New()); err == nil {
		t.Fatal("expected error when no token is configured")
	}
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("CMS_TOKEN", "secret")
	t.Setenv("CMS_TIMEOUT_SECONDS", "0")
	if _, err := load(viper.New()); err == nil {
		t.Fatal("expected error for zero timeout")
	}
}

func TestLoadParsesCORSOrigins(t *testing.T) {
	t.Setenv("CMS_TOKEN", "secret")
	t.Setenv("CORS_ORIGINS", " https://a.dev, ,https://b.dev ")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://a.dev" || cfg.CORSOrigins[1] != "https://b.dev" {
		t.Fatalf("origins = %v", cfg.CORSOrigins)
	}
}
