// Package app wires configuration, logging and the shared truncation policy
// for the textkgc CLI and hands them to commands.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/internal/cmd/output"
	"github.com/agentstation/textkgc/internal/tokenizer"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/logging"
	"github.com/agentstation/textkgc/pkg/truncation"
)

// App represents the textkgc application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazily built, shared by all commands.
	mu         sync.RWMutex
	policy     *truncation.Policy
	tokenizers map[string]truncation.Tokenizer
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version:    version,
		commit:     commit,
		date:       date,
		builtBy:    builtBy,
		tokenizers: make(map[string]truncation.Tokenizer),
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = config
	}

	if app.logger == nil {
		app.useLogger(NewLogger(app.config))
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format value, or the format detected for stdout.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Settings returns the configured processing defaults.
func (a *App) Settings() application.Settings {
	return a.config.Settings()
}

// Policy returns the truncation policy, creating it on first use with the
// built-in datasets plus every dataset in the config's truncation table.
func (a *App) Policy() (*truncation.Policy, error) {
	a.mu.RLock()
	if a.policy != nil {
		p := a.policy
		a.mu.RUnlock()
		return p, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.policy != nil {
		return a.policy, nil
	}

	p := truncation.New()
	for _, name := range a.config.TruncationDatasets() {
		limits := a.config.Truncation[name]
		if err := p.Register(name, limits.Entity, limits.Relation); err != nil {
			return nil, err
		}
		a.logger.Debug().
			Str("dataset", name).
			Int("entity", limits.Entity).
			Int("relation", limits.Relation).
			Msg("Registered truncation limits")
	}

	a.policy = p
	return p, nil
}

// Tokenizer returns a Vertex AI tokenizer for model, reusing one already
// built for the same model.
func (a *App) Tokenizer(ctx context.Context, model string) (truncation.Tokenizer, error) {
	if model == "" {
		model = a.config.TokenizerModel
	}

	a.mu.RLock()
	tok, ok := a.tokenizers[model]
	a.mu.RUnlock()
	if ok {
		return tok, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if tok, ok := a.tokenizers[model]; ok {
		return tok, nil
	}

	v, err := tokenizer.New(ctx, tokenizer.Config{
		Model:    model,
		Project:  a.config.GoogleCloudProject,
		Location: a.config.GoogleCloudLocation,
	})
	if err != nil {
		return nil, err
	}
	a.tokenizers[model] = v
	return v, nil
}

// useLogger installs logger as the app logger and the package default, so
// code that logs through a context sees the same configuration.
func (a *App) useLogger(logger zerolog.Logger) {
	a.logger = &logger
	logging.SetDefault(logger)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if err := config.Validate(); err != nil {
			return err
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithTokenizer registers a tokenizer for model (useful for testing).
func WithTokenizer(model string, tok truncation.Tokenizer) Option {
	return func(a *App) error {
		a.tokenizers[model] = tok
		return nil
	}
}

var _ application.Application = (*App)(nil)
