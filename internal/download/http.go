package download

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/logging"
)

// HTTPClient fetches raw dataset files over HTTP.
type HTTPClient struct {
	Client *http.Client
	// Force re-downloads files that already exist.
	Force bool
}

// NewHTTPClient creates a client with the default timeout.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{
		Client: &http.Client{Timeout: constants.DefaultHTTPTimeout},
	}
}

// Fetch downloads url to dest. An existing dest is kept unless Force is
// set. The body is written to a temp file in the same directory and
// renamed into place, so dest is never partially written.
// It reports whether a download happened.
func (c *HTTPClient) Fetch(ctx context.Context, url, dest string) (bool, error) {
	logger := logging.FromContext(ctx).With().Str("file", filepath.Base(dest)).Logger()

	if !c.Force {
		if _, err := os.Stat(dest); err == nil {
			logger.Info().Msg("File already exists, skipping download")
			return false, nil
		}
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return false, errors.WrapIO("create", dir, err)
	}

	logger.Info().Str("url", url).Msg("Downloading")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, errors.WrapResource("create", "request", url, err)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return false, &errors.APIError{
			Endpoint: url,
			Message:  "download failed",
			Err:      err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, &errors.APIError{
			Endpoint:   url,
			StatusCode: resp.StatusCode,
			Message:    resp.Status,
		}
	}

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return false, errors.WrapIO("create", "temp file", err)
	}
	tempPath := tempFile.Name()

	n, err := io.Copy(tempFile, resp.Body)
	if cerr := tempFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tempPath)
		return false, errors.WrapIO("write", dest, err)
	}

	if err := os.Rename(tempPath, dest); err != nil {
		_ = os.Remove(tempPath)
		return false, errors.WrapIO("move", dest, err)
	}

	logger.Info().Int64("bytes", n).Msg("Downloaded")
	return true, nil
}
