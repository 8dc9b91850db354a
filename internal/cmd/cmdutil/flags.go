// Package cmdutil provides flag groups and helpers shared by textkgc commands.
package cmdutil

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/reconcile"
	"github.com/agentstation/textkgc/pkg/truncation"
)

// FillFlags selects how missing entity entries are filled.
type FillFlags struct {
	Mode        string
	Placeholder string
}

// AddFillFlags adds --fill-mode and --placeholder to a command.
func AddFillFlags(cmd *cobra.Command, settings application.Settings) *FillFlags {
	flags := &FillFlags{}

	cmd.Flags().StringVar(&flags.Mode, "fill-mode", string(reconcile.StrategyTypePlaceholder),
		"How to fill missing entries: placeholder or empty")
	cmd.Flags().StringVar(&flags.Placeholder, "placeholder", settings.Placeholder,
		"Text used for missing entries in placeholder mode")

	return flags
}

// Strategy builds the reconcile strategy the flags describe.
func (f *FillFlags) Strategy() (reconcile.Strategy, error) {
	strategy, ok := reconcile.ParseStrategy(f.Mode, f.Placeholder)
	if !ok {
		return nil, errors.NewValidationError("fill-mode", f.Mode, "must be placeholder or empty")
	}
	return strategy, nil
}

// TokenFlags configures model-token truncation.
type TokenFlags struct {
	Model       string
	MaxTokens   int
	BatchSize   int
	Concurrency int
}

// AddTokenFlags adds the tokenizer flags to a command.
func AddTokenFlags(cmd *cobra.Command, settings application.Settings) *TokenFlags {
	flags := &TokenFlags{}

	cmd.Flags().StringVar(&flags.Model, "tokenizer-model", "",
		"Truncate descriptions by tokens of this Vertex AI model")
	cmd.Flags().IntVar(&flags.MaxTokens, "max-tokens", settings.WordLimit,
		"Token budget per value when --tokenizer-model is set")
	cmd.Flags().IntVar(&flags.BatchSize, "batch-size", settings.TokenBatchSize,
		"Values handed to the tokenizer per chunk")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", settings.TokenConcurrency,
		"Tokenizer requests in flight at once")

	return flags
}

// Enabled reports whether token truncation was requested.
func (f *TokenFlags) Enabled() bool {
	return f.Model != ""
}

// Options converts the flags to truncation token options.
func (f *TokenFlags) Options() []truncation.TokenOption {
	return []truncation.TokenOption{
		truncation.WithMaxTokens(f.MaxTokens),
		truncation.WithBatchSize(f.BatchSize),
		truncation.WithConcurrency(f.Concurrency),
		truncation.WithTokenizerName(f.Model),
	}
}

// Tokenizer builds the tokenizer for the selected model through app.
func (f *TokenFlags) Tokenizer(ctx context.Context, app application.Application) (truncation.Tokenizer, error) {
	if !f.Enabled() {
		return nil, errors.NewValidationError("tokenizer-model", f.Model, "is required for token truncation")
	}
	if f.MaxTokens < 0 {
		return nil, errors.NewValidationError("max-tokens", f.MaxTokens, "must not be negative")
	}
	return app.Tokenizer(ctx, f.Model)
}
