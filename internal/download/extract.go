package download

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/logging"
)

// Extract unpacks a .tar.gz/.tgz archive into dir, or decompresses a plain
// .gz file next to itself. The archive is kept. Other files are ignored.
func Extract(ctx context.Context, archive, dir string) error {
	name := strings.ToLower(archive)
	switch {
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return ExtractTarGz(ctx, archive, dir)
	case strings.HasSuffix(name, ".gz"):
		_, err := Gunzip(ctx, archive)
		return err
	}
	return nil
}

// Gunzip writes archive without its .gz suffix and returns that path.
// An existing output is kept.
func Gunzip(ctx context.Context, archive string) (string, error) {
	dest := strings.TrimSuffix(archive, filepath.Ext(archive))
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	in, err := os.Open(archive) //nolint:gosec // archive path is built by the downloader
	if err != nil {
		return "", errors.WrapIO("open", archive, err)
	}
	defer func() { _ = in.Close() }()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return "", errors.WrapParse("gzip", archive, err)
	}
	defer func() { _ = zr.Close() }()

	logging.FromContext(ctx).Info().Str("file", filepath.Base(archive)).Msg("Decompressing")
	if err := writeAtomic(dest, zr, constants.FilePermissions); err != nil {
		return "", err
	}
	return dest, nil
}

// ExtractTarGz unpacks regular files and directories of a gzipped tarball
// into dir. Entries that would land outside dir are rejected.
func ExtractTarGz(ctx context.Context, archive, dir string) error {
	in, err := os.Open(archive) //nolint:gosec // archive path is built by the downloader
	if err != nil {
		return errors.WrapIO("open", archive, err)
	}
	defer func() { _ = in.Close() }()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return errors.WrapParse("gzip", archive, err)
	}
	defer func() { _ = zr.Close() }()

	logging.FromContext(ctx).Info().Str("file", filepath.Base(archive)).Msg("Extracting")

	root := filepath.Clean(dir)
	tr := tar.NewReader(zr)
	for {
		if err := ctx.Err(); err != nil {
			return errors.NewResourceError("extract", "archive", archive, errors.ErrCanceled)
		}

		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.WrapParse("tar", archive, err)
		}

		target := filepath.Join(root, filepath.Clean(hdr.Name)) //nolint:gosec // checked below
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return &errors.ValidationError{
				Field:   "entry",
				Value:   hdr.Name,
				Message: "archive entry escapes the extraction directory",
			}
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, constants.DirPermissions); err != nil {
				return errors.WrapIO("create", target, err)
			}
		case tar.TypeReg:
			if err := writeAtomic(target, tr, constants.FilePermissions); err != nil {
				return err
			}
		}
	}
}

func writeAtomic(dest string, r io.Reader, perm os.FileMode) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return errors.WrapIO("create", "temp file", err)
	}
	tmpPath := tmp.Name()

	_, err = io.Copy(tmp, r) //nolint:gosec // dataset archives are trusted and large by nature
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmpPath, perm)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", dest, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("move", dest, err)
	}
	return nil
}
