// Package constants provides shared constants used throughout the textkgc codebase.
// This includes truncation defaults, file names, permissions, timeouts and the
// upstream locations of the raw datasets.
package constants

import "time"

// Truncation and reconciliation defaults
const (
	// DefaultWordLimit is the fallback word budget when no dataset policy applies
	DefaultWordLimit = 50

	// DefaultTokenLimit is the token budget used by the tokenizer path
	DefaultTokenLimit = 50

	// DefaultTokenBatchSize is the number of values handed to a tokenizer per chunk
	DefaultTokenBatchSize = 50000

	// DefaultTokenConcurrency is the number of tokenizer calls in flight per chunk
	DefaultTokenConcurrency = 1

	// DefaultPlaceholder fills a missing name or description
	DefaultPlaceholder = "-"

	// DefaultJSONIndent is the indentation width of written mapping files
	DefaultJSONIndent = 2
)

// Timeout constants
const (
	// DefaultHTTPTimeout is the timeout for a single dataset file download
	DefaultHTTPTimeout = 10 * time.Minute

	// DefaultTokenizerTimeout is the timeout for one tokenizer request
	DefaultTokenizerTimeout = 30 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants
const (
	// MaxConcurrentDownloads is the maximum number of files fetched at once
	MaxConcurrentDownloads = 4

	// MaxLineSize is the largest raw TSV line accepted (Wikidata5M text rows are long)
	MaxLineSize = 16 * 1024 * 1024

	// InitialLineBuffer is the starting scanner buffer size
	InitialLineBuffer = 64 * 1024
)

// Standardised output file names
const (
	EntityID2NameFile        = "entity_id2name.json"
	EntityID2DescriptionFile = "entity_id2description.json"
	RelationID2NameFile      = "relation_id2name.json"
	EntityIDsFile            = "entity_ids.txt"
	ManifestFile             = "manifest.yaml"

	FilledPrefix    = "filled_"
	TruncatedPrefix = "truncated_"

	// ProcessedSplitSuffix is appended to split names for triplet outputs
	ProcessedSplitSuffix = "_processed.txt"
)

// Splits lists the triplet splits processed by the pipeline, in order.
var Splits = []string{"train", "valid", "test"}

// Upstream dataset locations
const (
	// SimKGCRepoURL is the git repository holding WN18RR and FB15k-237 raw data
	SimKGCRepoURL = "https://github.com/intfloat/SimKGC.git"

	// SimKGCRawURL is the raw file base for the SimKGC data directory
	SimKGCRawURL = "https://raw.githubusercontent.com/intfloat/SimKGC/main/data"

	// Wikidata5MURL is the Hugging Face base for Wikidata5M archives
	Wikidata5MURL = "https://huggingface.co/datasets/intfloat/wikidata5m/resolve/main"
)

// Path constants
const (
	// DefaultConfigName is the config file name searched in $HOME and the working dir
	DefaultConfigName = ".textkgc"

	// DefaultDataDir is where raw datasets are downloaded
	DefaultDataDir = "data"

	// DefaultOutputDir is where standardised artifacts are written
	DefaultOutputDir = "output"
)
