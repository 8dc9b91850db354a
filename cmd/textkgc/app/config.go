package app

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/truncation"
)

// Config holds the application configuration loaded from flags, the
// environment, .env files and the config file.
type Config struct {
	// Global flags
	Verbose  bool
	Quiet    bool
	NoColor  bool
	Format   string
	LogLevel string

	// Config file
	ConfigFile string

	// Processing defaults
	DataDir          string
	OutputDir        string
	Placeholder      string
	WordLimit        int
	JSONIndent       int
	TokenBatchSize   int
	TokenConcurrency int

	// Tokenizer
	TokenizerModel      string
	GoogleCloudProject  string
	GoogleCloudLocation string

	// Truncation holds extra datasets to register in the policy, keyed by name.
	Truncation map[string]truncation.Limits

	// Logging configuration
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (configFile, or ~/.textkgc.yaml / ./.textkgc.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.GetViper()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)
	bindCredentials(v)

	if configFile == "" {
		configFile = v.GetString("config")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.DefaultConfigName)
		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		DataDir:          v.GetString("data_dir"),
		OutputDir:        v.GetString("output_dir"),
		Placeholder:      v.GetString("placeholder"),
		WordLimit:        v.GetInt("word_limit"),
		JSONIndent:       v.GetInt("json_indent"),
		TokenBatchSize:   v.GetInt("token_batch_size"),
		TokenConcurrency: v.GetInt("token_concurrency"),

		TokenizerModel:      v.GetString("tokenizer_model"),
		GoogleCloudProject:  v.GetString("google_cloud_project"),
		GoogleCloudLocation: v.GetString("google_cloud_location"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if err := v.UnmarshalKey("truncation", &config.Truncation); err != nil {
		return nil, errors.NewConfigError("config", "invalid truncation table", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings no command could run with.
func (c *Config) Validate() error {
	checks := []struct {
		key   string
		value int
		min   int
	}{
		{"word_limit", c.WordLimit, 1},
		{"json_indent", c.JSONIndent, 0},
		{"token_batch_size", c.TokenBatchSize, 1},
		{"token_concurrency", c.TokenConcurrency, 1},
	}
	for _, check := range checks {
		if check.value < check.min {
			return &errors.ConfigError{
				Component: "config",
				Message:   check.key + " is out of range",
			}
		}
	}

	for _, name := range c.TruncationDatasets() {
		limits := c.Truncation[name]
		if limits.Entity <= 0 || limits.Relation <= 0 {
			return &errors.ConfigError{
				Component: "config",
				Message:   "truncation limits for " + name + " must be positive",
			}
		}
	}
	return nil
}

// TruncationDatasets returns the configured dataset names, sorted.
func (c *Config) TruncationDatasets() []string {
	names := make([]string, 0, len(c.Truncation))
	for name := range c.Truncation {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Settings converts the config to the processing defaults commands see.
func (c *Config) Settings() application.Settings {
	return application.Settings{
		DataDir:          c.DataDir,
		OutputDir:        c.OutputDir,
		Placeholder:      c.Placeholder,
		WordLimit:        c.WordLimit,
		JSONIndent:       c.JSONIndent,
		TokenBatchSize:   c.TokenBatchSize,
		TokenConcurrency: c.TokenConcurrency,
		TokenizerModel:   c.TokenizerModel,
	}
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so flag values take
// precedence over the config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func setDefaults(v *viper.Viper) {
	defaults := application.DefaultSettings()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("placeholder", defaults.Placeholder)
	v.SetDefault("word_limit", defaults.WordLimit)
	v.SetDefault("json_indent", defaults.JSONIndent)
	v.SetDefault("token_batch_size", defaults.TokenBatchSize)
	v.SetDefault("token_concurrency", defaults.TokenConcurrency)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// bindCredentials binds the Google Cloud variables the tokenizer reads.
func bindCredentials(v *viper.Viper) {
	_ = v.BindEnv("google_cloud_project", "GOOGLE_CLOUD_PROJECT", "GOOGLE_VERTEX_PROJECT")
	_ = v.BindEnv("google_cloud_location", "GOOGLE_CLOUD_LOCATION", "GOOGLE_VERTEX_LOCATION")
	for _, key := range []string{"GOOGLE_API_KEY", "GOOGLE_VERTEX_API_KEY"} {
		_ = v.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
