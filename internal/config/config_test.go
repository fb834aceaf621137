package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullYAML = `
server:
  port: 8080

database:
  host: 10.0.0.5
  port: 3307
  user: stargate
  password: hunter2
  name: stargate_prod

notify:
  platform: slack
  channel: C012ABC
  slack_token: xoxb-test
  digest_cron: "30 8 * * 1-5"

dedup:
  ttl_seconds: 30
`

func TestParse_FullConfig(t *testing.T) {
	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "10.0.0.5" {
		t.Errorf("Database.Host = %q, want 10.0.0.5", cfg.Database.Host)
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want 3307", cfg.Database.Port)
	}
	if cfg.Database.Name != "stargate_prod" {
		t.Errorf("Database.Name = %q, want stargate_prod", cfg.Database.Name)
	}
	if cfg.Notify.Platform != "slack" {
		t.Errorf("Notify.Platform = %q, want slack", cfg.Notify.Platform)
	}
	if cfg.Notify.DigestCron != "30 8 * * 1-5" {
		t.Errorf("Notify.DigestCron = %q, want 30 8 * * 1-5", cfg.Notify.DigestCron)
	}
	if cfg.Dedup.TTLSeconds != 30 {
		t.Errorf("Dedup.TTLSeconds = %d, want 30", cfg.Dedup.TTLSeconds)
	}
}

func TestParse_EmptyConfig_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3001 {
		t.Errorf("Server.Port = %d, want 3001 (default)", cfg.Server.Port)
	}
	if cfg.Database.Host != "127.0.0.1" {
		t.Errorf("Database.Host = %q, want 127.0.0.1 (default)", cfg.Database.Host)
	}
	if cfg.Database.Port != 3306 {
		t.Errorf("Database.Port = %d, want 3306 (default)", cfg.Database.Port)
	}
	if cfg.Database.User != "root" {
		t.Errorf("Database.User = %q, want root (default)", cfg.Database.User)
	}
	if cfg.Database.Name != "stargate" {
		t.Errorf("Database.Name = %q, want stargate (default)", cfg.Database.Name)
	}
	if cfg.Notify.Platform != "" {
		t.Errorf("Notify.Platform = %q, want empty (disabled)", cfg.Notify.Platform)
	}
	if cfg.Notify.DigestCron != "0 9 * * *" {
		t.Errorf("Notify.DigestCron = %q, want 0 9 * * * (default)", cfg.Notify.DigestCron)
	}
	if cfg.Dedup.TTLSeconds != 10 {
		t.Errorf("Dedup.TTLSeconds = %d, want 10 (default)", cfg.Dedup.TTLSeconds)
	}
}

func TestParse_EnvOverridesFile(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("PORT", "9090")

	cfg, err := Parse([]byte(fullYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want db.internal (env)", cfg.Database.Host)
	}
	if cfg.Database.Password != "from-env" {
		t.Errorf("Database.Password = %q, want from-env (env)", cfg.Database.Password)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env)", cfg.Server.Port)
	}
}

func TestParse_SlackWithoutToken(t *testing.T) {
	yaml := `
notify:
  platform: slack
  channel: C012ABC
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error for slack platform without token")
	}
	if !strings.Contains(err.Error(), "notify.slack_token is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "notify.slack_token is required")
	}
}

func TestParse_PlatformWithoutChannel(t *testing.T) {
	yaml := `
notify:
  platform: discord
  discord_token: tok
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error for platform without channel")
	}
	if !strings.Contains(err.Error(), "notify.channel is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "notify.channel is required")
	}
}

func TestParse_UnknownPlatform(t *testing.T) {
	yaml := `
notify:
  platform: teams
  channel: general
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("expected error for unsupported platform")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "not supported")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte(":::invalid"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "config: parse:") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: parse:")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Name != "stargate_prod" {
		t.Errorf("Database.Name = %q, want stargate_prod", cfg.Database.Name)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "config: read") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "config: read")
	}
}
