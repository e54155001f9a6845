package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level banksync.yaml configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Ledger LedgerConfig `yaml:"ledger"`
	Sync   SyncConfig   `yaml:"sync"`
}

// SourceConfig identifies the banking API. Credentials are normally supplied
// via environment variables rather than the file.
type SourceConfig struct {
	AuthURL      string `yaml:"auth_url"`
	BaseURL      string `yaml:"base_url"`
	ClientID     string `yaml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty"`
	CustomerID   string `yaml:"customer_id,omitempty"`
}

// LedgerConfig identifies the personal-finance ledger API.
type LedgerConfig struct {
	BaseURL     string `yaml:"base_url"`
	AccessToken string `yaml:"access_token,omitempty"`
}

// SyncConfig controls the sync window and local state.
type SyncConfig struct {
	// DelayDays guards against the bank's own reporting lag: the sync never
	// covers the most recent days.
	DelayDays int `yaml:"delay_days"`
	// FirstYear bounds the initial backfill when no checkpoint exists.
	FirstYear      int    `yaml:"first_year"`
	PageSize       int    `yaml:"page_size"`
	CheckpointPath string `yaml:"checkpoint_path"`
	LogDir         string `yaml:"log_dir"`
}

// Environment variable overrides. Secrets should come in this way so the
// config file can be committed.
const (
	envClientID     = "BANKSYNC_SOURCE_CLIENT_ID"
	envClientSecret = "BANKSYNC_SOURCE_CLIENT_SECRET"
	envCustomerID   = "BANKSYNC_SOURCE_CUSTOMER_ID"
	envAccessToken  = "BANKSYNC_LEDGER_ACCESS_TOKEN"
)

// Default returns a Config with the stock sync settings filled in.
func Default() *Config {
	return &Config{
		Sync: SyncConfig{
			DelayDays:      10,
			FirstYear:      2019,
			PageSize:       1000,
			CheckpointPath: "last_sync",
			LogDir:         "logs",
		},
	}
}

// Load reads a banksync.yaml file, applies environment overrides, and fills
// defaults for unset sync settings.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyEnv()
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envClientID); v != "" {
		c.Source.ClientID = v
	}
	if v := os.Getenv(envClientSecret); v != "" {
		c.Source.ClientSecret = v
	}
	if v := os.Getenv(envCustomerID); v != "" {
		c.Source.CustomerID = v
	}
	if v := os.Getenv(envAccessToken); v != "" {
		c.Ledger.AccessToken = v
	}
}

// fillDefaults backfills sync settings whose zero value is meaningless.
// DelayDays is not among them: an explicit delay_days: 0 disables the
// reporting-lag guard, and absent keys already inherit the default from the
// struct Load unmarshals into.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Sync.FirstYear == 0 {
		c.Sync.FirstYear = def.Sync.FirstYear
	}
	if c.Sync.PageSize == 0 {
		c.Sync.PageSize = def.Sync.PageSize
	}
	if c.Sync.CheckpointPath == "" {
		c.Sync.CheckpointPath = def.Sync.CheckpointPath
	}
	if c.Sync.LogDir == "" {
		c.Sync.LogDir = def.Sync.LogDir
	}
}

// Validate reports missing required settings.
func (c *Config) Validate() error {
	var missing []string
	if c.Source.AuthURL == "" {
		missing = append(missing, "source.auth_url")
	}
	if c.Source.BaseURL == "" {
		missing = append(missing, "source.base_url")
	}
	if c.Source.ClientID == "" {
		missing = append(missing, "source.client_id ("+envClientID+")")
	}
	if c.Source.ClientSecret == "" {
		missing = append(missing, "source.client_secret ("+envClientSecret+")")
	}
	if c.Source.CustomerID == "" {
		missing = append(missing, "source.customer_id ("+envCustomerID+")")
	}
	if c.Ledger.BaseURL == "" {
		missing = append(missing, "ledger.base_url")
	}
	if c.Ledger.AccessToken == "" {
		missing = append(missing, "ledger.access_token ("+envAccessToken+")")
	}
	if len(missing) > 0 {
		return errors.New("missing config: " + strings.Join(missing, ", "))
	}
	return nil
}
