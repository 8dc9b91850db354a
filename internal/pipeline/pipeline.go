// Package pipeline turns a raw dataset directory into the standardized
// textual KG folder: mapping files, the entity ID list, processed splits
// and a run manifest.
package pipeline

import (
	"context"
	"os"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/agentstation/textkgc/internal/datasets"
	"github.com/agentstation/textkgc/internal/tsv"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/logging"
	"github.com/agentstation/textkgc/pkg/reconcile"
	"github.com/agentstation/textkgc/pkg/truncation"
)

// Truncation modes recorded in the manifest.
const (
	TruncateNone   = "none"
	TruncateWords  = "words"
	TruncateTokens = "tokens"
)

// Options configures a run.
type Options struct {
	// Dataset provides the raw loader. Required.
	Dataset datasets.Dataset
	// RawDir holds the raw files. Required.
	RawDir string
	// OutDir receives the outputs. Required.
	OutDir string

	// Policy supplies word limits. Nil uses truncation.New().
	Policy *truncation.Policy

	// Strategy fills IDs missing from one of the entity mappings.
	// Nil leaves the mappings as loaded.
	Strategy reconcile.Strategy

	// Truncate word-truncates entity descriptions and relation names in
	// the mapping files by the policy limits.
	Truncate bool

	// Tokenizer switches description truncation to tokens. Relation
	// names still follow Truncate.
	Tokenizer    truncation.Tokenizer
	TokenOptions []truncation.TokenOption
	MaxTokens    int

	// Indent is the JSON indentation width. Zero uses the default.
	Indent int

	// SkipSplits disables writing <split>_processed.txt.
	SkipSplits bool

	// NFC normalizes raw text fields to Unicode NFC while loading.
	NFC bool
}

func (o *Options) validate() error {
	switch {
	case o.Dataset == nil:
		return &errors.ValidationError{Field: "dataset", Message: "cannot be nil"}
	case o.RawDir == "":
		return &errors.ValidationError{Field: "raw_dir", Message: "cannot be empty"}
	case o.OutDir == "":
		return &errors.ValidationError{Field: "out_dir", Message: "cannot be empty"}
	case o.MaxTokens < 0:
		return &errors.ValidationError{Field: "max_tokens", Value: o.MaxTokens, Message: "must not be negative"}
	}
	return nil
}

// Result is what Run produced.
type Result struct {
	Graph    *kg.TextualKG
	Report   reconcile.Report
	Manifest *Manifest
}

// Run loads, reconciles, truncates and writes one dataset.
//
// Processed splits always use word truncation by the policy, with each
// entity's description or, failing that, its name. No output is written
// when loading fails.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	policy := opts.Policy
	if policy == nil {
		policy = truncation.New()
	}
	name := opts.Dataset.Name()

	manifest := &Manifest{
		RunID:      uuid.NewString(),
		Dataset:    name,
		RawDir:     opts.RawDir,
		OutDir:     opts.OutDir,
		StartedAt:  utc.Now(),
		Fill:       "none",
		Truncation: TruncateNone,
		Limits: truncation.Limits{
			Entity:   policy.Limit(name, string(truncation.KindEntity)),
			Relation: policy.Limit(name, string(truncation.KindRelation)),
		},
	}

	if v, ok := opts.Dataset.(datasets.Variants); ok {
		manifest.Variant = v.Variant()
	}
	if opts.NFC {
		ctx = tsv.ContextWithOptions(ctx, tsv.WithNFC())
	}

	ctx = logging.WithRunID(logging.WithDataset(ctx, name), manifest.RunID)
	logger := logging.FromContext(ctx)
	logger.Info().Str("raw_dir", opts.RawDir).Str("out_dir", opts.OutDir).Msg("Starting pipeline")

	g, err := opts.Dataset.Load(ctx, opts.RawDir)
	if err != nil {
		return nil, err
	}

	if opts.Strategy != nil {
		manifest.Fill = opts.Strategy.Type().String()
		if g.EntityNames, g.EntityDescriptions, err = reconcile.Reconcile(g.EntityNames, g.EntityDescriptions, opts.Strategy); err != nil {
			return nil, err
		}
		logger.Info().Str("strategy", manifest.Fill).Msg("Filled missing entity entries")
	}

	if err := truncate(ctx, g, policy, name, &opts, manifest); err != nil {
		return nil, err
	}
	g.EntityIDs = datasets.EntityIDs(g.EntityNames, g.EntityDescriptions)

	report := reconcile.Inspect(g.EntityNames, g.EntityDescriptions)
	manifest.Issues = report.Issues()
	for _, issue := range manifest.Issues {
		logger.Warn().Msg(issue)
	}

	if err := os.MkdirAll(opts.OutDir, constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", opts.OutDir, err)
	}
	if err := SaveFolder(g, opts.OutDir, opts.Indent); err != nil {
		return nil, err
	}

	if !opts.SkipSplits {
		entities, err := policy.Mapping(datasets.Combine(g.EntityNames, g.EntityDescriptions),
			constants.DefaultWordLimit, name, string(truncation.KindEntity))
		if err != nil {
			return nil, err
		}
		relations, err := policy.Mapping(g.RelationNames,
			constants.DefaultWordLimit, name, string(truncation.KindRelation))
		if err != nil {
			return nil, err
		}
		if manifest.Splits, err = datasets.ProcessSplits(ctx, opts.Dataset, opts.RawDir, opts.OutDir, entities, relations); err != nil {
			return nil, err
		}
	}

	manifest.Entities = len(g.EntityIDs)
	manifest.Relations = len(g.RelationNames)
	manifest.FinishedAt = utc.Now()
	if err := manifest.Write(opts.OutDir); err != nil {
		return nil, err
	}

	logger.Info().
		Int("entities", manifest.Entities).
		Int("relations", manifest.Relations).
		Int("issues", len(manifest.Issues)).
		Msg("Pipeline complete")

	return &Result{Graph: g, Report: report, Manifest: manifest}, nil
}

func truncate(ctx context.Context, g *kg.TextualKG, policy *truncation.Policy, name string, opts *Options, manifest *Manifest) error {
	var err error
	switch {
	case opts.Tokenizer != nil:
		manifest.Truncation = TruncateTokens
		maxTokens := opts.MaxTokens
		if maxTokens == 0 {
			maxTokens = constants.DefaultTokenLimit
		}
		manifest.MaxTokens = maxTokens
		logger := logging.FromContext(ctx)
		tokOpts := []truncation.TokenOption{
			truncation.WithMaxTokens(maxTokens),
			truncation.WithProgress(func(done, total int) {
				logger.Info().Int("done", done).Int("total", total).Msg("Token truncation progress")
			}),
		}
		tokOpts = append(tokOpts, opts.TokenOptions...)
		if g.EntityDescriptions, err = truncation.Tokens(ctx, g.EntityDescriptions, opts.Tokenizer, tokOpts...); err != nil {
			return err
		}
	case opts.Truncate:
		manifest.Truncation = TruncateWords
		if g.EntityDescriptions, err = policy.Mapping(g.EntityDescriptions,
			constants.DefaultWordLimit, name, string(truncation.KindEntity)); err != nil {
			return err
		}
	default:
		return nil
	}

	if opts.Truncate {
		g.RelationNames, err = policy.Mapping(g.RelationNames,
			constants.DefaultWordLimit, name, string(truncation.KindRelation))
	}
	logging.FromContext(ctx).Info().Str("mode", manifest.Truncation).Msg("Truncated descriptions")
	return err
}
