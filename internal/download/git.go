package download

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/logging"
)

// DefaultBranch is the branch cloned when none is given.
const DefaultBranch = "main"

// GitClient clones dataset repositories with the git binary.
type GitClient struct {
	// Git is the executable to run. Empty means "git" on PATH.
	Git string
}

// NewGitClient creates a client that uses git from PATH.
func NewGitClient() *GitClient {
	return &GitClient{Git: "git"}
}

// Clone makes a shallow single-branch clone of repo into dest.
func (c *GitClient) Clone(ctx context.Context, repo, branch, dest string) error {
	if branch == "" {
		branch = DefaultBranch
	}
	git := c.Git
	if git == "" {
		git = "git"
	}
	if err := os.MkdirAll(filepath.Dir(dest), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(dest), err)
	}

	logging.FromContext(ctx).Info().Str("repo", repo).Str("branch", branch).Msg("Cloning repository")

	cmd := exec.CommandContext(ctx, git, "clone", "--branch", branch, "--depth", "1", repo, dest) //nolint:gosec // fixed argv
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &errors.ProcessError{
			Operation: "clone repository",
			Command:   git + " clone --branch " + branch + " --depth 1 " + repo,
			Output:    string(output),
			Err:       err,
		}
	}
	return nil
}

// CopyDir copies the regular files under src into dst, keeping existing
// files in dst.
func CopyDir(src, dst string) (int, error) {
	copied := 0
	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, constants.DirPermissions)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if _, err := os.Stat(target); err == nil {
			return nil
		}

		f, err := os.Open(path) //nolint:gosec // walking a directory we cloned
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if err := writeAtomic(target, f, constants.FilePermissions); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, errors.WrapIO("copy", src, err)
	}
	return copied, nil
}
