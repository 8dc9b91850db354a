// Package tokenizer implements truncation.Tokenizer on top of the Vertex AI
// ComputeTokens API, so descriptions can be cut to a model's token budget.
package tokenizer

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"cloud.google.com/go/auth"
	"cloud.google.com/go/auth/credentials"
	"google.golang.org/genai"

	"github.com/agentstation/textkgc/internal/config"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
)

// DefaultLocation is used when no region is configured anywhere.
const DefaultLocation = "us-central1"

// Config selects the model and the Google Cloud project.
// Empty fields are resolved from the environment and gcloud.
type Config struct {
	Model    string
	Project  string
	Location string
	APIKey   string
	Timeout  time.Duration
}

type tokenComputer interface {
	ComputeTokens(ctx context.Context, model string, contents []*genai.Content, config *genai.ComputeTokensConfig) (*genai.ComputeTokensResponse, error)
}

// Vertex truncates text using the tokenizer of a Vertex AI model.
type Vertex struct {
	model   string
	timeout time.Duration
	models  tokenComputer
}

// New builds a Vertex tokenizer. Credentials come from the API key when
// set and from Application Default Credentials otherwise.
func New(ctx context.Context, cfg Config) (*Vertex, error) {
	if cfg.Model == "" {
		return nil, &errors.ValidationError{Field: "model", Message: "tokenizer model is required"}
	}
	if cfg.Project == "" {
		cfg.Project = projectID()
	}
	if cfg.Project == "" {
		return nil, &errors.ConfigError{
			Component: "tokenizer",
			Message:   "project ID not configured - set GOOGLE_CLOUD_PROJECT or run 'gcloud config set project YOUR_PROJECT'",
		}
	}
	if cfg.Location == "" {
		cfg.Location = location()
	}
	if cfg.APIKey == "" {
		cfg.APIKey = config.FirstString("GOOGLE_VERTEX_API_KEY", "GOOGLE_API_KEY")
	}

	cc := &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  cfg.Project,
		Location: cfg.Location,
	}
	if cfg.APIKey != "" {
		cc.APIKey = cfg.APIKey
	} else {
		creds, err := detectCredentials(ctx)
		if err != nil {
			return nil, err
		}
		cc.Credentials = creds
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.NewConfigError("tokenizer", "failed to create Vertex AI client", err)
	}
	return newVertex(cfg.Model, cfg.Timeout, client.Models), nil
}

func newVertex(model string, timeout time.Duration, models tokenComputer) *Vertex {
	if timeout <= 0 {
		timeout = constants.DefaultTokenizerTimeout
	}
	return &Vertex{model: model, timeout: timeout, models: models}
}

// Name returns the model name.
func (v *Vertex) Name() string {
	return v.model
}

// EncodeTruncated returns the first maxTokens tokens of text, decoded
// back to a string. Text within the budget is returned whitespace-trimmed.
func (v *Vertex) EncodeTruncated(ctx context.Context, text string, maxTokens int) (string, error) {
	if maxTokens <= 0 || strings.TrimSpace(text) == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	resp, err := v.models.ComputeTokens(ctx, v.model, genai.Text(text), nil)
	if err != nil {
		return "", &errors.APIError{
			Endpoint: "computeTokens",
			Message:  "failed to compute tokens for " + v.model,
			Err:      err,
		}
	}

	var pieces [][]byte
	for _, info := range resp.TokensInfo {
		if info == nil {
			continue
		}
		pieces = append(pieces, info.Tokens...)
	}
	if len(pieces) <= maxTokens {
		return strings.TrimSpace(text), nil
	}

	var b strings.Builder
	for _, piece := range pieces[:maxTokens] {
		b.Write(piece)
	}
	return strings.TrimSpace(strings.ReplaceAll(b.String(), "▁", " ")), nil
}

// detectCredentials looks up Application Default Credentials with a short
// deadline; DetectDefault does not take a context.
func detectCredentials(ctx context.Context) (*auth.Credentials, error) {
	type result struct {
		creds *auth.Credentials
		err   error
	}

	resultChan := make(chan result, 1)
	go func() {
		creds, err := credentials.DetectDefault(&credentials.DetectOptions{
			Scopes: []string{"https://www.googleapis.com/auth/cloud-platform"},
		})
		resultChan <- result{creds: creds, err: err}
	}()

	select {
	case res := <-resultChan:
		if res.err != nil {
			return nil, errors.NewConfigError("tokenizer",
				"no valid credentials found - configure Application Default Credentials or set GOOGLE_API_KEY", res.err)
		}
		return res.creds, nil
	case <-time.After(2 * time.Second):
		return nil, &errors.ConfigError{
			Component: "tokenizer",
			Message:   "credential detection timed out (2s) - likely not configured or network issue",
		}
	case <-ctx.Done():
		return nil, errors.NewConfigError("tokenizer", "credential detection cancelled", ctx.Err())
	}
}

func projectID() string {
	if p := config.FirstString("GOOGLE_CLOUD_PROJECT", "GOOGLE_VERTEX_PROJECT", "google_cloud_project"); p != "" {
		return p
	}
	return gcloudConfig("project")
}

func location() string {
	if l := config.FirstString("GOOGLE_CLOUD_LOCATION", "GOOGLE_VERTEX_LOCATION", "google_cloud_location"); l != "" {
		return l
	}
	if region := gcloudConfig("compute/region"); region != "" {
		return region
	}
	if zone := gcloudConfig("compute/zone"); zone != "" {
		// us-central1-a -> us-central1
		if idx := strings.LastIndex(zone, "-"); idx > 0 {
			return zone[:idx]
		}
	}
	return DefaultLocation
}

// gcloudConfig reads a property from the gcloud CLI, or "" when gcloud is
// missing or the property is unset.
func gcloudConfig(property string) string {
	output, err := exec.Command("gcloud", "config", "get-value", property).Output()
	if err != nil {
		return ""
	}
	value := strings.TrimSpace(string(output))
	if value == "(unset)" {
		return ""
	}
	return value
}
