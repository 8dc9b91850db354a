// Package truncate implements the truncate command for a single mapping file.
package truncate

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/internal/cmd/cmdutil"
	"github.com/agentstation/textkgc/internal/cmd/output"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/save"
	"github.com/agentstation/textkgc/pkg/truncation"
)

// Result describes one truncation run.
type Result struct {
	Input   string `json:"input" yaml:"input"`
	Output  string `json:"output" yaml:"output"`
	Entries int    `json:"entries" yaml:"entries"`
	Mode    string `json:"mode" yaml:"mode"`
	Limit   int    `json:"limit" yaml:"limit"`
}

// NewCommand creates the truncate command.
func NewCommand(app application.Application) *cobra.Command {
	settings := app.Settings()
	var (
		dataset    string
		kind       string
		maxWords   int
		indent     int
		tokenFlags *cmdutil.TokenFlags
	)

	cmd := &cobra.Command{
		Use:     "truncate <mapping.json> <out-dir>",
		GroupID: "processing",
		Short:   "Truncate every value of a mapping file",
		Long: `Truncate writes truncated_<name> into the output directory.

Values are cut to the first N whitespace-separated words, where N is the
dataset's policy limit for --kind, or --max-words when the dataset has no
entry. With --tokenizer-model the values are cut to --max-tokens model
tokens instead.`,
		Example: `  textkgc truncate entity_id2description.json out/ --dataset wn18rr
  textkgc truncate relation_id2name.json out/ --dataset fb15k237 --kind relation
  textkgc truncate entity_id2description.json out/ --tokenizer-model gemini-2.0-flash-001 --max-tokens 64`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := truncation.ParseKind(kind); !ok {
				return errors.NewValidationError("kind", kind, "must be entity or relation")
			}

			m, err := save.LoadMapping(args[0])
			if err != nil {
				return err
			}

			result := Result{
				Input:   args[0],
				Output:  filepath.Join(args[1], constants.TruncatedPrefix+filepath.Base(args[0])),
				Entries: len(m),
			}

			var truncated kg.Mapping
			if tokenFlags.Enabled() {
				tok, err := tokenFlags.Tokenizer(cmd.Context(), app)
				if err != nil {
					return err
				}
				if truncated, err = truncation.Tokens(cmd.Context(), m, tok, tokenFlags.Options()...); err != nil {
					return err
				}
				result.Mode, result.Limit = "tokens", tokenFlags.MaxTokens
			} else {
				policy, err := app.Policy()
				if err != nil {
					return err
				}
				if truncated, err = policy.Mapping(m, maxWords, dataset, kind); err != nil {
					return err
				}
				result.Mode, result.Limit = "words", policy.LimitFor(dataset, kind, maxWords)
			}

			if err := os.MkdirAll(args[1], constants.DirPermissions); err != nil {
				return errors.WrapIO("create", args[1], err)
			}
			if err := save.Mapping(truncated,
				save.WithPath(result.Output),
				save.WithFormat(save.FormatFromPath(result.Output)),
				save.WithIndent(indent),
			); err != nil {
				return err
			}

			app.Logger().Info().
				Str("output", result.Output).
				Str("mode", result.Mode).
				Int("limit", result.Limit).
				Int("entries", result.Entries).
				Msg("Truncated mapping")

			return cmdutil.Render(cmd, app, result, output.Data{
				Headers: []string{"Input", "Output", "Entries", "Mode", "Limit"},
				Rows: [][]string{{
					result.Input,
					result.Output,
					strconv.Itoa(result.Entries),
					result.Mode,
					strconv.Itoa(result.Limit),
				}},
			})
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset whose policy limit applies")
	cmd.Flags().StringVar(&kind, "kind", string(truncation.KindEntity), "Content kind: entity or relation")
	cmd.Flags().IntVar(&maxWords, "max-words", settings.WordLimit, "Word limit when the dataset has no policy entry")
	cmd.Flags().IntVar(&indent, "indent", settings.JSONIndent, "JSON indentation width")
	tokenFlags = cmdutil.AddTokenFlags(cmd, settings)

	return cmd
}
