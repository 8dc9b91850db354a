package errors_test

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/agentstation/textkgc/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "mapping",
			ID:       "entity_id2name",
		}
		assert.Equal(t, "mapping with ID entity_id2name not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
		assert.False(t, pkgerrors.IsUnknownDataset(err))
	})

	t.Run("dataset resource matches unknown dataset", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("dataset", "custom_kg")
		assert.True(t, pkgerrors.IsUnknownDataset(err))
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("dataset", "test")
		wrapped := fmt.Errorf("lookup: %w", base)
		assert.True(t, pkgerrors.IsUnknownDataset(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "max_words",
			Message: "must not be negative",
		}
		assert.Equal(t, "validation failed for field max_words: must not be negative", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{Message: "strategy is required"}
		assert.Equal(t, "validation failed: strategy is required", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestConfigError(t *testing.T) {
	base := errors.New("entity limit must be positive")
	err := pkgerrors.NewConfigError("truncation", "dataset custom_kg", base)

	assert.Equal(t, "configuration error in truncation: dataset custom_kg", err.Error())
	assert.True(t, pkgerrors.IsInvalidConfiguration(err))
	assert.ErrorIs(t, err, base)

	noComponent := &pkgerrors.ConfigError{Message: "bad"}
	assert.Equal(t, "configuration error: bad", noComponent.Error())
}

func TestMissingFileError(t *testing.T) {
	err := pkgerrors.NewMissingFileError("definitions file", "/data/wordnet-mlj12-definitions.txt")
	assert.Equal(t, "definitions file not found: /data/wordnet-mlj12-definitions.txt", err.Error())
	assert.True(t, pkgerrors.IsMissingFile(err))
	assert.True(t, pkgerrors.IsNotFound(err))

	anon := &pkgerrors.MissingFileError{Path: "x.txt"}
	assert.Equal(t, "file not found: x.txt", anon.Error())
}

func TestMalformedLineError(t *testing.T) {
	err := &pkgerrors.MalformedLineError{File: "text.txt", Line: 7, Want: 2, Got: 1}
	assert.Equal(t, "malformed line text.txt:7: expected at least 2 columns, got 1", err.Error())
	assert.True(t, pkgerrors.IsMalformedLine(fmt.Errorf("read: %w", err)))
}

func TestTokenizerError(t *testing.T) {
	base := errors.New("model not found")
	err := &pkgerrors.TokenizerError{Tokenizer: "vertex", ID: "Q42", Err: base}

	assert.Equal(t, "tokenizer vertex failed on Q42: model not found", err.Error())
	assert.True(t, pkgerrors.IsTokenizerError(err))
	assert.ErrorIs(t, err, base)

	var target *pkgerrors.TokenizerError
	require.True(t, errors.As(fmt.Errorf("truncate: %w", err), &target))
	assert.Equal(t, "Q42", target.ID)
}

func TestAPIError(t *testing.T) {
	err := &pkgerrors.APIError{
		Endpoint:   "https://example.com/train.txt",
		StatusCode: 404,
		Message:    "404 Not Found",
	}
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "train.txt")

	base := errors.New("connection reset")
	wrapped := &pkgerrors.APIError{Endpoint: "https://example.com", Message: "download failed", Err: base}
	assert.Equal(t, "request to https://example.com failed: download failed: connection reset", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)

	withStatus := &pkgerrors.APIError{Endpoint: "computeTokens", StatusCode: 403, Message: "forbidden", Err: errors.New("permission denied")}
	assert.Equal(t, "request to computeTokens failed (status 403): forbidden: permission denied", withStatus.Error())
}

func TestParseError(t *testing.T) {
	tests := []struct {
		name string
		err  *pkgerrors.ParseError
		want string
	}{
		{
			name: "file and line",
			err:  &pkgerrors.ParseError{Format: "tsv", File: "a.txt", Line: 3, Message: "bad"},
			want: "parse error in tsv at a.txt:3: bad",
		},
		{
			name: "file only",
			err:  &pkgerrors.ParseError{Format: "json", File: "a.json", Message: "bad"},
			want: "parse error in json file a.json: bad",
		},
		{
			name: "no file",
			err:  &pkgerrors.ParseError{Format: "yaml", Message: "bad"},
			want: "yaml parse error: bad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapHelpers(t *testing.T) {
	assert.NoError(t, pkgerrors.WrapIO("read", "x", nil))
	assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	assert.NoError(t, pkgerrors.WrapResource("load", "config", "", nil))

	base := errors.New("boom")

	ioErr := pkgerrors.WrapIO("write", "/tmp/out.json", base)
	assert.Equal(t, "IO error during write of /tmp/out.json: boom", ioErr.Error())
	assert.ErrorIs(t, ioErr, base)

	parseErr := pkgerrors.WrapParse("json", "names.json", base)
	assert.ErrorIs(t, parseErr, base)

	resErr := pkgerrors.WrapResource("create", "tokenizer", "gemini", base)
	assert.Equal(t, "failed to create tokenizer gemini: boom", resErr.Error())
}

func TestProcessError(t *testing.T) {
	base := errors.New("exit status 128")
	err := &pkgerrors.ProcessError{Operation: "clone repository", Command: "git clone", Output: "fatal: repository not found", Err: base}
	assert.Contains(t, err.Error(), "clone repository")
	assert.Contains(t, err.Error(), "fatal: repository not found")
	assert.ErrorIs(t, err, base)
}
