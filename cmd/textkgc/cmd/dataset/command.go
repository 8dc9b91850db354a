// Package dataset builds the per-dataset command (textkgc wn18rr ...,
// textkgc fb15k237 ..., textkgc wikidata5m ...) with its download,
// extraction and processing subcommands.
package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/internal/cmd/cmdutil"
	"github.com/agentstation/textkgc/internal/cmd/output"
	"github.com/agentstation/textkgc/internal/datasets"
	"github.com/agentstation/textkgc/internal/download"
	"github.com/agentstation/textkgc/internal/pipeline"
	"github.com/agentstation/textkgc/internal/tsv"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/save"
)

// NewCommand creates the command group for d.
func NewCommand(app application.Application, d datasets.Dataset) *cobra.Command {
	cmd := &cobra.Command{
		Use:     d.Name(),
		GroupID: "datasets",
		Short:   d.Description(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newDownloadCommand(app, d))
	if loader, ok := d.(datasets.FileLoader); ok {
		cmd.AddCommand(newEntitiesCommand(app, d, loader))
		cmd.AddCommand(newRelationsCommand(app, d, loader))
	}
	cmd.AddCommand(newProcessCommand(app, d))
	return cmd
}

func newDownloadCommand(app application.Application, d datasets.Dataset) *cobra.Command {
	var (
		method      string
		force       bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "download [dir]",
		Short: "Download the raw " + d.Name() + " files",
		Args:  cobra.MaximumNArgs(1),
		Example: "  textkgc " + d.Name() + " download\n" +
			"  textkgc " + d.Name() + " download ./raw/" + d.Name() + " --method git",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := filepath.Join(app.Settings().DataDir, d.Name())
			if len(args) == 1 {
				dir = args[0]
			}

			m, err := download.ParseMethod(method)
			if err != nil {
				return err
			}

			summary, err := download.Dataset(cmd.Context(), d, dir, download.Options{
				Method:      m,
				Concurrency: concurrency,
				Force:       force,
			})
			if err != nil {
				return err
			}

			app.Logger().Info().
				Str("dir", summary.Dir).
				Int("downloaded", summary.Downloaded).
				Int("skipped", summary.Skipped).
				Msg("Download complete")

			return cmdutil.Render(cmd, app, summary, output.Data{
				Headers: []string{"Dataset", "Directory", "Method", "Downloaded", "Skipped"},
				Rows: [][]string{{
					summary.Dataset,
					summary.Dir,
					string(summary.Method),
					strconv.Itoa(summary.Downloaded),
					strconv.Itoa(summary.Skipped),
				}},
			})
		},
	}

	cmd.Flags().StringVar(&method, "method", string(download.MethodHTTP), "Download method: http or git")
	cmd.Flags().BoolVar(&force, "force", false, "Download files that already exist")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.MaxConcurrentDownloads, "Files fetched at once")

	return cmd
}

func newEntitiesCommand(app application.Application, d datasets.Dataset, loader datasets.FileLoader) *cobra.Command {
	var (
		indent int
		nfc    bool
	)
	files := loader.EntityFiles()

	cmd := &cobra.Command{
		Use:   "entities <" + strings.Join(files, "> <") + "> <out-dir>",
		Short: "Extract entity names and descriptions from raw files",
		Long: `Extract entity names and descriptions from the raw ` + d.Name() + ` files and
write entity_id2name.json, entity_id2description.json and entity_ids.txt.`,
		Args: cobra.ExactArgs(len(files) + 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, descs, err := loader.LoadEntities(readContext(cmd, nfc), args[:len(files)]...)
			if err != nil {
				return err
			}

			out := args[len(files)]
			if err := os.MkdirAll(out, constants.DirPermissions); err != nil {
				return errors.WrapIO("create", out, err)
			}
			if err := writeMapping(names, out, constants.EntityID2NameFile, indent); err != nil {
				return err
			}
			if err := writeMapping(descs, out, constants.EntityID2DescriptionFile, indent); err != nil {
				return err
			}
			ids := datasets.EntityIDs(names, descs)
			if err := save.IDs(ids, filepath.Join(out, constants.EntityIDsFile)); err != nil {
				return err
			}

			app.Logger().Info().
				Str("dataset", d.Name()).
				Int("names", len(names)).
				Int("descriptions", len(descs)).
				Int("entities", len(ids)).
				Msg("Wrote entity mappings")
			return nil
		},
	}

	cmd.Flags().IntVar(&indent, "indent", app.Settings().JSONIndent, "JSON indentation width")
	cmd.Flags().BoolVar(&nfc, "nfc", false, "Normalize raw text to Unicode NFC")
	return cmd
}

func newRelationsCommand(app application.Application, d datasets.Dataset, loader datasets.FileLoader) *cobra.Command {
	var (
		indent int
		nfc    bool
	)

	cmd := &cobra.Command{
		Use:   "relations <file> <out-dir>",
		Short: "Extract relation names from a raw relations file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			relations, err := loader.LoadRelations(readContext(cmd, nfc), args[0])
			if err != nil {
				return err
			}

			if err := os.MkdirAll(args[1], constants.DirPermissions); err != nil {
				return errors.WrapIO("create", args[1], err)
			}
			if err := writeMapping(relations, args[1], constants.RelationID2NameFile, indent); err != nil {
				return err
			}

			app.Logger().Info().
				Str("dataset", d.Name()).
				Int("relations", len(relations)).
				Msg("Wrote relation mapping")
			return nil
		},
	}

	cmd.Flags().IntVar(&indent, "indent", app.Settings().JSONIndent, "JSON indentation width")
	cmd.Flags().BoolVar(&nfc, "nfc", false, "Normalize raw text to Unicode NFC")
	return cmd
}

func newProcessCommand(app application.Application, d datasets.Dataset) *cobra.Command {
	settings := app.Settings()
	var (
		fill       bool
		noFill     bool
		truncate   bool
		indent     int
		skipSplits bool
		nfc        bool
		variant    string
		fillFlags  *cmdutil.FillFlags
		tokenFlags *cmdutil.TokenFlags
	)

	cmd := &cobra.Command{
		Use:   "process [raw-dir] [out-dir]",
		Short: "Run the full " + d.Name() + " pipeline",
		Long: `Load the raw files, fill missing entity entries, optionally truncate
descriptions and relation names, validate, and write the standard
mapping files, processed triplet splits and a run manifest.`,
		Args: cobra.MaximumNArgs(2),
		Example: "  textkgc " + d.Name() + " process\n" +
			"  textkgc " + d.Name() + " process raw/ out/ --truncate\n" +
			"  textkgc " + d.Name() + " process raw/ out/ --tokenizer-model gemini-2.0-flash-001 --max-tokens 64",
		RunE: func(cmd *cobra.Command, args []string) error {
			rawDir := filepath.Join(settings.DataDir, d.Name())
			outDir := filepath.Join(settings.OutputDir, d.Name())
			if len(args) > 0 {
				rawDir = args[0]
			}
			if len(args) > 1 {
				outDir = args[1]
			}

			policy, err := app.Policy()
			if err != nil {
				return err
			}

			ds := d
			if v, ok := d.(datasets.Variants); ok {
				if ds, err = v.WithVariant(variant); err != nil {
					return err
				}
			}

			opts := pipeline.Options{
				Dataset:    ds,
				RawDir:     rawDir,
				OutDir:     outDir,
				Policy:     policy,
				Truncate:   truncate,
				Indent:     indent,
				SkipSplits: skipSplits,
				NFC:        nfc,
			}

			if fill && !noFill {
				if opts.Strategy, err = fillFlags.Strategy(); err != nil {
					return err
				}
			}

			if tokenFlags.Enabled() {
				if opts.Tokenizer, err = tokenFlags.Tokenizer(cmd.Context(), app); err != nil {
					return err
				}
				opts.TokenOptions = tokenFlags.Options()
				opts.MaxTokens = tokenFlags.MaxTokens
			}

			result, err := pipeline.Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return cmdutil.Render(cmd, app, result.Manifest, output.ManifestTable(result.Manifest))
		},
	}

	cmd.Flags().BoolVar(&fill, "fill", true, "Fill entities missing a name or description")
	cmd.Flags().BoolVar(&noFill, "no-fill", false, "Leave missing entries as loaded")
	cmd.Flags().BoolVar(&truncate, "truncate", false, "Word-truncate descriptions and relation names by the policy")
	cmd.Flags().IntVar(&indent, "indent", settings.JSONIndent, "JSON indentation width")
	cmd.Flags().BoolVar(&skipSplits, "skip-splits", false, "Do not write processed triplet splits")
	cmd.Flags().BoolVar(&nfc, "nfc", false, "Normalize raw text to Unicode NFC")
	if v, ok := d.(datasets.Variants); ok {
		cmd.Flags().StringVar(&variant, "variant", v.Variant(),
			"Split layout: "+strings.Join(v.Variants(), " or "))
	}
	fillFlags = cmdutil.AddFillFlags(cmd, settings)
	tokenFlags = cmdutil.AddTokenFlags(cmd, settings)

	return cmd
}

// readContext carries the raw-file read options selected by flags.
func readContext(cmd *cobra.Command, nfc bool) context.Context {
	if nfc {
		return tsv.ContextWithOptions(cmd.Context(), tsv.WithNFC())
	}
	return cmd.Context()
}

func writeMapping(m kg.Mapping, dir, name string, indent int) error {
	return save.Mapping(m, save.WithPath(filepath.Join(dir, name)), save.WithIndent(indent))
}
