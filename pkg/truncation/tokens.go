package truncation

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
)

// Tokenizer shortens text to at most maxTokens subword tokens and decodes
// the result back to a string.
type Tokenizer interface {
	EncodeTruncated(ctx context.Context, text string, maxTokens int) (string, error)
}

// TokenizerFunc adapts a function to the Tokenizer interface.
type TokenizerFunc func(ctx context.Context, text string, maxTokens int) (string, error)

// EncodeTruncated calls f.
func (f TokenizerFunc) EncodeTruncated(ctx context.Context, text string, maxTokens int) (string, error) {
	return f(ctx, text, maxTokens)
}

type tokenOptions struct {
	maxTokens   int
	batchSize   int
	concurrency int
	name        string
	progress    func(done, total int)
}

func defaultTokenOptions() *tokenOptions {
	return &tokenOptions{
		maxTokens:   constants.DefaultTokenLimit,
		batchSize:   constants.DefaultTokenBatchSize,
		concurrency: constants.DefaultTokenConcurrency,
		name:        "tokenizer",
	}
}

// TokenOption configures Tokens.
type TokenOption func(*tokenOptions) error

func (o *tokenOptions) apply(opts ...TokenOption) (*tokenOptions, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithMaxTokens sets the token limit per value.
func WithMaxTokens(n int) TokenOption {
	return func(o *tokenOptions) error {
		if n < 0 {
			return &errors.ValidationError{Field: "maxTokens", Value: n, Message: "must not be negative"}
		}
		o.maxTokens = n
		return nil
	}
}

// WithBatchSize sets how many values are handed to the tokenizer per chunk.
func WithBatchSize(n int) TokenOption {
	return func(o *tokenOptions) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "batchSize", Value: n, Message: "must be positive"}
		}
		o.batchSize = n
		return nil
	}
}

// WithConcurrency sets how many tokenizer calls may run at once within a chunk.
func WithConcurrency(n int) TokenOption {
	return func(o *tokenOptions) error {
		if n <= 0 {
			return &errors.ValidationError{Field: "concurrency", Value: n, Message: "must be positive"}
		}
		o.concurrency = n
		return nil
	}
}

// WithTokenizerName sets the name reported in TokenizerError.
func WithTokenizerName(name string) TokenOption {
	return func(o *tokenOptions) error {
		if name != "" {
			o.name = name
		}
		return nil
	}
}

// WithProgress registers a callback invoked after each chunk.
func WithProgress(fn func(done, total int)) TokenOption {
	return func(o *tokenOptions) error {
		o.progress = fn
		return nil
	}
}

// Tokens truncates every value of m with tok. IDs are processed in sorted
// order in chunks of the batch size; each value is encoded on its own, so
// the batch size never changes the result. The first tokenizer failure
// aborts the run and is returned as a TokenizerError.
func Tokens(ctx context.Context, m kg.Mapping, tok Tokenizer, opts ...TokenOption) (kg.Mapping, error) {
	if tok == nil {
		return nil, &errors.ValidationError{Field: "tokenizer", Message: "cannot be nil"}
	}
	o, err := defaultTokenOptions().apply(opts...)
	if err != nil {
		return nil, err
	}

	ids := m.IDs()
	out := make(kg.Mapping, len(ids))
	var mu sync.Mutex

	for start := 0; start < len(ids); start += o.batchSize {
		end := min(start+o.batchSize, len(ids))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.concurrency)
		for _, id := range ids[start:end] {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				text, err := encode(gctx, tok, m[id], o.maxTokens)
				if err != nil {
					return &errors.TokenizerError{Tokenizer: o.name, ID: id, Err: err}
				}
				mu.Lock()
				out[id] = text
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			if ctx.Err() != nil {
				return nil, errors.NewResourceError("truncate", "mapping", "", errors.ErrCanceled)
			}
			return nil, err
		}

		if o.progress != nil {
			o.progress(end, len(ids))
		}
	}
	return out, nil
}

// encode skips the tokenizer for inputs whose result is fixed.
func encode(ctx context.Context, tok Tokenizer, text string, maxTokens int) (string, error) {
	if maxTokens == 0 || Words(text, 1) == "" {
		return "", nil
	}
	return tok.EncodeTruncated(ctx, text, maxTokens)
}
