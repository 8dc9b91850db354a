package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/truncation"
)

// Mock provides a mock implementation of Application for testing.
// If a function field is nil, the method returns a default value.
type Mock struct {
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	PolicyFunc       func() (*truncation.Policy, error)
	SettingsFunc     func() Settings
	TokenizerFunc    func(ctx context.Context, model string) (truncation.Tokenizer, error)
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Policy returns the mock policy or a fresh built-in one.
func (m *Mock) Policy() (*truncation.Policy, error) {
	if m.PolicyFunc != nil {
		return m.PolicyFunc()
	}
	return truncation.New(), nil
}

// Settings returns the mock settings or the package defaults.
func (m *Mock) Settings() Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return DefaultSettings()
}

// Tokenizer returns the mock tokenizer or a configuration error.
func (m *Mock) Tokenizer(ctx context.Context, model string) (truncation.Tokenizer, error) {
	if m.TokenizerFunc != nil {
		return m.TokenizerFunc(ctx, model)
	}
	return nil, &errors.ConfigError{Component: "tokenizer", Message: "no tokenizer configured"}
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
