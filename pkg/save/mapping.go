// Package save reads and writes ID-to-text mappings and entity ID lists.
package save

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
)

// Mapping encodes m to the configured writer or path.
// JSON keeps non-ASCII text literal and does not escape HTML characters.
func Mapping(m kg.Mapping, opts ...Option) error {
	o := Defaults().Apply(opts...)
	if !o.format.IsValid() {
		return errors.NewValidationError("format", o.format, "unsupported save format")
	}
	if m == nil {
		m = kg.Mapping{}
	}

	data, err := encode(m, o)
	if err != nil {
		return errors.WrapParse(o.format.String(), o.path, err)
	}

	if o.writer != nil {
		_, err := o.writer.Write(data)
		return errors.WrapIO("write", o.path, err)
	}
	if o.path == "" {
		return errors.NewValidationError("path", "", "either a path or a writer is required")
	}
	return writeFile(o.path, data)
}

func encode(m kg.Mapping, o Options) ([]byte, error) {
	if o.format == FormatYAML {
		return yaml.MarshalWithOptions(map[string]string(m), yaml.Indent(2))
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if o.indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", o.indent))
	}
	if err := enc.Encode(map[string]string(m)); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// LoadMapping reads a JSON or YAML mapping file, chosen by extension.
func LoadMapping(path string) (kg.Mapping, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError("mapping file", path)
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return DecodeMapping(data, FormatFromPath(path), path)
}

// DecodeMapping parses data in the given format. name is used for error context.
func DecodeMapping(data []byte, format Format, name string) (kg.Mapping, error) {
	m := kg.Mapping{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, errors.WrapParse(format.String(), name, err)
	}
	return m, nil
}

// IDs writes ids one per line with no trailing newline.
func IDs(ids []string, path string) error {
	return writeFile(path, []byte(strings.Join(ids, "\n")))
}

// LoadIDs reads a newline-separated ID list, ignoring blank lines.
func LoadIDs(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied input path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError("entity ID list", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()
	return readIDs(f, path)
}

func readIDs(r io.Reader, path string) ([]string, error) {
	var ids []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ids = append(ids, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ids, nil
}

// writeFile writes via a temp file and rename so readers never see partial output.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
