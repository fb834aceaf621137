// Package config provides YAML-based configuration loading for StarGate.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level StarGate configuration, loaded from config.yaml
// with environment overrides for credentials.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Notify   NotifyConfig   `yaml:"notify"`
	Dedup    DedupConfig    `yaml:"dedup"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds connection settings for the MySQL server.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// NotifyConfig holds chat notification settings. Platform selects the
// adapter; an empty platform disables notifications entirely.
type NotifyConfig struct {
	Platform     string `yaml:"platform"` // "slack", "discord", or ""
	Channel      string `yaml:"channel"`
	SlackToken   string `yaml:"slack_token"`
	DiscordToken string `yaml:"discord_token"`
	DigestCron   string `yaml:"digest_cron"` // 5-field cron for the on-hold digest
}

// DedupConfig controls the duplicate-request guard on form submissions.
type DedupConfig struct {
	TTLSeconds int `yaml:"ttl_seconds"`
}

// Load reads a YAML config file from path and returns a validated Config.
// A .env file in the working directory, if present, is loaded first so
// credentials can stay out of the YAML.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config. Environment
// variables override the file for credentials and connection settings.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overlays environment variables onto the parsed file.
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		c.Notify.SlackToken = v
	}
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		c.Notify.DiscordToken = v
	}
}

// applyDefaults fills in default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Database.Host == "" {
		c.Database.Host = "127.0.0.1"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 3306
	}
	if c.Database.User == "" {
		c.Database.User = "root"
	}
	if c.Database.Name == "" {
		c.Database.Name = "stargate"
	}
	if c.Notify.DigestCron == "" {
		c.Notify.DigestCron = "0 9 * * *"
	}
	if c.Dedup.TTLSeconds == 0 {
		c.Dedup.TTLSeconds = 10
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Dedup.TTLSeconds < 0 {
		errs = append(errs, "dedup.ttl_seconds must not be negative")
	}
	switch c.Notify.Platform {
	case "", "slack", "discord":
	default:
		errs = append(errs, fmt.Sprintf("notify.platform %q is not supported (want slack or discord)", c.Notify.Platform))
	}
	if c.Notify.Platform == "slack" && c.Notify.SlackToken == "" {
		errs = append(errs, "notify.slack_token is required when platform is slack")
	}
	if c.Notify.Platform == "discord" && c.Notify.DiscordToken == "" {
		errs = append(errs, "notify.discord_token is required when platform is discord")
	}
	if c.Notify.Platform != "" && c.Notify.Channel == "" {
		errs = append(errs, "notify.channel is required when a platform is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
