package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// PipelineConfig holds the user's cleaning preferences: which steps run,
// in what order, and the domain knowledge the domain-aware steps use.
type PipelineConfig struct {
	// Steps is the ordered list of enabled step names. Order is the
	// execution order; unknown names are ignored by the pipeline.
	Steps []string `mapstructure:"steps" yaml:"steps"`

	// InternalDomains is the priority-ordered list of domains that
	// count as internal. Earlier entries outrank later ones when the
	// prioritize step reorders recipients.
	InternalDomains []string `mapstructure:"internal_domains" yaml:"internal_domains"`

	// OrgDomain is the single organization domain used by the external
	// flagging step. May be empty.
	OrgDomain string `mapstructure:"org_domain" yaml:"org_domain"`

	// Alphabetical additionally alphabetizes same-priority groups when
	// prioritizing.
	Alphabetical bool `mapstructure:"alphabetical" yaml:"alphabetical"`

	// AbortOnInvalid refuses to run any step when an invalid address is
	// present, instead of letting the validate step drop it.
	AbortOnInvalid bool `mapstructure:"abort_on_invalid" yaml:"abort_on_invalid"`
}

// AccountConfig holds the IMAP account used to read and rewrite draft
// messages. The password is stored in the system keyring, never here.
type AccountConfig struct {
	IMAPHost string `mapstructure:"imap_host" yaml:"imap_host"`
	IMAPPort string `mapstructure:"imap_port" yaml:"imap_port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`

	// DraftsFolder overrides the drafts mailbox name. When empty, the
	// client probes common names.
	DraftsFolder string `mapstructure:"drafts_folder" yaml:"drafts_folder"`
}

// HistoryConfig controls the local run-history database.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	DBPath  string `mapstructure:"db_path" yaml:"db_path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Account  AccountConfig  `mapstructure:"account" yaml:"account"`
	History  HistoryConfig  `mapstructure:"history" yaml:"history"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailgroom/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "mailgroom", "config.yaml")
}

// DefaultHistoryPath returns the default path for the run-history
// database, next to the config file.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "history.db")
	}
	return filepath.Join(home, ".config", "mailgroom", "history.db")
}

// defaultAppConfig returns a sensible default configuration: the
// non-destructive steps enabled in their conventional order, no domain
// knowledge, history on.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Pipeline: PipelineConfig{
			Steps: []string{"dedupe", "validate", "sort"},
		},
		Account: AccountConfig{
			IMAPPort: "993",
			TLS:      true,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  DefaultHistoryPath(),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("pipeline.steps", []string{"dedupe", "validate", "sort"})
	v.SetDefault("account.imap_port", "993")
	v.SetDefault("account.tls", true)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.db_path", DefaultHistoryPath())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("pipeline", cfg.Pipeline)
	v.Set("account", cfg.Account)
	v.Set("history", cfg.History)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
