package datasets

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/textkgc/internal/tsv"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/logging"
)

// SplitResult describes one processed split.
type SplitResult struct {
	Split   string `json:"split" yaml:"split"`
	Input   string `json:"input" yaml:"input"`
	Output  string `json:"output" yaml:"output"`
	Rows    int    `json:"rows" yaml:"rows"`
	Skipped int    `json:"skipped" yaml:"skipped"`
}

// ProcessSplits writes <split>_processed.txt into outDir for every split
// whose triplet file exists. Each output row is
// head, relation, tail, head text, relation text, tail text, tab separated.
// Unknown IDs get empty text. Missing split files are logged and skipped.
func ProcessSplits(ctx context.Context, d Dataset, rawDir, outDir string, entities, relations kg.Mapping) ([]SplitResult, error) {
	logger := logging.FromContext(ctx)
	if err := os.MkdirAll(outDir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", outDir, err)
	}

	var results []SplitResult
	for _, split := range constants.Splits {
		input := d.SplitFile(rawDir, split)
		if _, err := os.Stat(input); os.IsNotExist(err) {
			logger.Warn().Str("split", split).Str("file", input).Msg("Split file not found, skipping")
			continue
		}

		output := filepath.Join(outDir, split+constants.ProcessedSplitSuffix)
		result, err := processSplit(ctx, input, output, entities, relations)
		if err != nil {
			return results, err
		}
		result.Split = split
		results = append(results, result)

		logger.Info().
			Str("split", split).
			Int("rows", result.Rows).
			Int("skipped", result.Skipped).
			Msg("Processed split")
	}
	return results, nil
}

func processSplit(ctx context.Context, input, output string, entities, relations kg.Mapping) (SplitResult, error) {
	result := SplitResult{Input: input, Output: output}

	f, err := os.Create(output) //nolint:gosec // output path is built from the caller's directory
	if err != nil {
		return result, errors.WrapIO("create", output, err)
	}
	w := bufio.NewWriter(f)

	var b strings.Builder
	stats, err := tsv.Read(ctx, input, 3, func(r tsv.Row) error {
		head, rel, tail := r.Fields[0], r.Fields[1], r.Fields[2]
		b.Reset()
		for i, col := range []string{head, rel, tail, entities[head], relations[rel], entities[tail]} {
			if i > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(col)
		}
		b.WriteByte('\n')
		if _, err := w.WriteString(b.String()); err != nil {
			return errors.WrapIO("write", output, err)
		}
		return nil
	}, tsv.WithRole("triplet file"))
	result.Rows, result.Skipped = stats.Rows, stats.Skipped

	if err == nil {
		err = errors.WrapIO("write", output, w.Flush())
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = errors.WrapIO("close", output, cerr)
	}
	if err != nil {
		_ = os.Remove(output)
		return result, err
	}
	return result, nil
}
