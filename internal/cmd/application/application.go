// Package application provides the interface commands use to reach the
// running textkgc app.
//
// Commands accept Application instead of the concrete app type so they can
// be tested with Mock:
//
//	mock := &application.Mock{
//	    SettingsFunc: func() application.Settings {
//	        return application.Settings{Placeholder: "-"}
//	    },
//	}
//	cmd := fill.NewCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/truncation"
)

// Settings are the resolved processing defaults. Flags on individual
// commands override them.
type Settings struct {
	DataDir          string
	OutputDir        string
	Placeholder      string
	WordLimit        int
	JSONIndent       int
	TokenBatchSize   int
	TokenConcurrency int
	TokenizerModel   string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		DataDir:          constants.DefaultDataDir,
		OutputDir:        constants.DefaultOutputDir,
		Placeholder:      constants.DefaultPlaceholder,
		WordLimit:        constants.DefaultWordLimit,
		JSONIndent:       constants.DefaultJSONIndent,
		TokenBatchSize:   constants.DefaultTokenBatchSize,
		TokenConcurrency: constants.DefaultTokenConcurrency,
	}
}

// Application provides what commands need from the app.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Policy returns the process-wide truncation policy, including datasets
	// registered from configuration.
	Policy() (*truncation.Policy, error)

	// Settings returns the configured processing defaults.
	Settings() Settings

	// Tokenizer builds a tokenizer for model.
	Tokenizer(ctx context.Context, model string) (truncation.Tokenizer, error)

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
