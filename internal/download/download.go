// Package download fetches raw dataset files, either file by file over
// HTTP or by cloning the repository that hosts them.
package download

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/textkgc/internal/datasets"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/logging"
)

// Method selects how a dataset is fetched.
type Method string

// Download methods.
const (
	MethodHTTP Method = "http"
	MethodGit  Method = "git"
)

// ParseMethod validates a method name. Empty means HTTP.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "", MethodHTTP:
		return MethodHTTP, nil
	case MethodGit:
		return MethodGit, nil
	}
	return "", errors.NewValidationError("method", s, "must be http or git")
}

// Options configures Dataset.
type Options struct {
	Method      Method
	Concurrency int
	Force       bool
	HTTP        *HTTPClient
	Git         *GitClient
}

// Summary counts what a download did.
type Summary struct {
	Dataset    string `json:"dataset" yaml:"dataset"`
	Dir        string `json:"dir" yaml:"dir"`
	Method     Method `json:"method" yaml:"method"`
	Downloaded int    `json:"downloaded" yaml:"downloaded"`
	Skipped    int    `json:"skipped" yaml:"skipped"`
}

// Dataset fetches the raw files of d into dir.
func Dataset(ctx context.Context, d datasets.Dataset, dir string, opts Options) (*Summary, error) {
	ctx = logging.WithOperation(logging.WithDataset(ctx, d.Name()), "download")
	if opts.Method == "" {
		opts.Method = MethodHTTP
	}

	switch opts.Method {
	case MethodGit:
		return viaGit(ctx, d, dir, opts)
	case MethodHTTP:
		return viaHTTP(ctx, d, dir, opts)
	}
	return nil, errors.NewValidationError("method", opts.Method, "must be http or git")
}

func viaHTTP(ctx context.Context, d datasets.Dataset, dir string, opts Options) (*Summary, error) {
	client := NewHTTPClient()
	if opts.HTTP != nil {
		c := *opts.HTTP
		client = &c
	}
	client.Force = client.Force || opts.Force

	limit := opts.Concurrency
	if limit <= 0 {
		limit = constants.MaxConcurrentDownloads
	}

	var downloaded, skipped atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, f := range d.Files() {
		g.Go(func() error {
			dest := filepath.Join(dir, f.Name)
			fetched, err := client.Fetch(gctx, f.URL, dest)
			if err != nil {
				return err
			}
			if fetched {
				downloaded.Add(1)
			} else {
				skipped.Add(1)
			}
			if f.Extract {
				return Extract(gctx, dest, dir)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		Dataset:    d.Name(),
		Dir:        dir,
		Method:     MethodHTTP,
		Downloaded: int(downloaded.Load()),
		Skipped:    int(skipped.Load()),
	}, nil
}

func viaGit(ctx context.Context, d datasets.Dataset, dir string, opts Options) (*Summary, error) {
	src, ok := d.(datasets.Repository)
	if !ok {
		return nil, errors.NewValidationError("method", MethodGit, d.Name()+" is not available from a git repository")
	}
	repo, subdir := src.Repository()

	client := opts.Git
	if client == nil {
		client = NewGitClient()
	}

	tmp, err := os.MkdirTemp("", "textkgc-clone-*")
	if err != nil {
		return nil, errors.WrapIO("create", "temp directory", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	clone := filepath.Join(tmp, "repo")
	if err := client.Clone(ctx, repo, DefaultBranch, clone); err != nil {
		return nil, err
	}

	source := filepath.Join(clone, filepath.FromSlash(subdir))
	if _, err := os.Stat(source); err != nil {
		return nil, errors.NewMissingFileError("dataset directory", source)
	}

	copied, err := CopyDir(source, dir)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().Int("files", copied).Str("dir", dir).Msg("Copied dataset from repository")

	return &Summary{Dataset: d.Name(), Dir: dir, Method: MethodGit, Downloaded: copied}, nil
}
