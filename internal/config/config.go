package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// GetVersionInfo returns a formatted version string
func GetVersionInfo() string {
	return fmt.Sprintf("genie-chat version %s, commit %s, built at %s", version, commit, date)
}

// DefaultScope requests a Databricks token plus the Graph permission used for
// the profile lookup.
const DefaultScope = "2ff814a6-3304-4ab8-85cb-cd0e6f879c1d/.default https://graph.microsoft.com/User.Read"

type Config struct {
	Azure   AzureConfig   `mapstructure:"azure"`
	Genie   GenieConfig   `mapstructure:"genie"`
	Chat    ChatConfig    `mapstructure:"chat"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AzureConfig holds the identity-provider settings for the device-code flow.
// Authority and GraphURL are overridable so tests can point the flow at a
// local server.
type AzureConfig struct {
	TenantID  string `mapstructure:"tenant_id"`
	ClientID  string `mapstructure:"client_id"`
	Scope     string `mapstructure:"scope"`
	Authority string `mapstructure:"authority"`
	GraphURL  string `mapstructure:"graph_url"`
}

// GenieConfig holds the Databricks Genie workspace settings. Timeout bounds a
// whole question pipeline; PollInterval paces the message status polls inside it.
type GenieConfig struct {
	Host         string        `mapstructure:"host"`
	SpaceID      string        `mapstructure:"space_id"`
	Timeout      time.Duration `mapstructure:"timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type ChatConfig struct {
	MaxDisplayRows  int      `mapstructure:"max_display_rows"`
	QuestionsFile   string   `mapstructure:"questions_file"`
	SampleQuestions []string `mapstructure:"sample_questions"`
}

type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	DisableStacktrace bool   `mapstructure:"disable_stacktrace"`
	OutputPath        string `mapstructure:"output_path"`
	AppendToFile      bool   `mapstructure:"append_to_file"`
	DisableConsole    bool   `mapstructure:"disable_console"`
}

// InitFlags initializes command line flags (without parsing)
func InitFlags() {
	pflag.String("space-id", "", "Databricks Genie space ID")
	pflag.String("questions-file", "", "Path to the sample questions YAML file")
	// Note: no pflag.Parse() here as it's called in main.go
}

// legacyEnvKeys maps config keys to the bare environment variable names the
// original deployment used, so existing .env files keep working.
var legacyEnvKeys = map[string]string{
	"azure.tenant_id": "TENANT_ID",
	"azure.client_id": "CLIENT_ID",
	"azure.scope":     "SCOPE",
	"genie.host":      "DATABRICKS_HOST",
	"genie.space_id":  "GENIE_SPACE_ID",
}

func Load() (*Config, error) {
	viper.Reset() // Ensure clean state

	viper.SetEnvPrefix("GENIE_CHAT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(pflag.CommandLine); err != nil {
		return nil, err
	}

	for key, legacy := range legacyEnvKeys {
		prefixed := "GENIE_CHAT_" + strings.ToUpper(strings.NewReplacer(".", "_").Replace(key))
		if err := viper.BindEnv(key, prefixed, legacy); err != nil {
			return nil, err
		}
	}

	setDefaults()

	// Config file is optional; env vars alone are a valid setup
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/genie-chat")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Set space id from flag or environment
	if spaceID := viper.GetString("space-id"); spaceID != "" {
		config.Genie.SpaceID = spaceID
	}

	// Set questions file from flag or environment
	if questionsFile := viper.GetString("questions-file"); questionsFile != "" {
		config.Chat.QuestionsFile = questionsFile
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	if len(config.Chat.SampleQuestions) == 0 {
		questions, err := LoadQuestions(config.Chat.QuestionsFile)
		if err != nil {
			return nil, err
		}
		config.Chat.SampleQuestions = questions
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("azure.scope", DefaultScope)
	viper.SetDefault("azure.authority", "https://login.microsoftonline.com")
	viper.SetDefault("azure.graph_url", "https://graph.microsoft.com")
	viper.SetDefault("genie.timeout", "60s")
	viper.SetDefault("genie.poll_interval", "2s")
	viper.SetDefault("chat.max_display_rows", 20)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	// The TUI owns the terminal, so logs default to a file
	viper.SetDefault("logging.output_path", "genie-chat.log")
	viper.SetDefault("logging.append_to_file", true)
	viper.SetDefault("logging.disable_console", true)
}

// validate reports every missing required key at once so a fresh setup fails
// with one actionable error.
func (c *Config) validate() error {
	var missing []string
	if c.Azure.TenantID == "" {
		missing = append(missing, "azure.tenant_id (TENANT_ID)")
	}
	if c.Azure.ClientID == "" {
		missing = append(missing, "azure.client_id (CLIENT_ID)")
	}
	if c.Genie.Host == "" {
		missing = append(missing, "genie.host (DATABRICKS_HOST)")
	}
	if c.Genie.SpaceID == "" {
		missing = append(missing, "genie.space_id (GENIE_SPACE_ID)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.Genie.Timeout <= 0 {
		return fmt.Errorf("genie.timeout must be positive, got %s", c.Genie.Timeout)
	}
	if c.Chat.MaxDisplayRows <= 0 {
		return fmt.Errorf("chat.max_display_rows must be positive, got %d", c.Chat.MaxDisplayRows)
	}
	return nil
}
