package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/textkgc/pkg/logging"
)

// rootFlags holds the persistent flags before they are merged into Config.
type rootFlags struct {
	config   string
	verbose  bool
	quiet    bool
	noColor  bool
	format   string
	logLevel string
}

// Execute runs the textkgc CLI with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "textkgc",
		Short:   "Prepare textual knowledge graph datasets",
		Version: a.version,
		Long: `textkgc turns raw knowledge graph dumps (WN18RR, FB15k-237, Wikidata5M)
into standardised entity and relation text mappings for text-based
knowledge graph completion.

It fills entities that lack a name or a description, truncates text by
word or model-token limits, validates mapping pairs, and writes processed
triplet splits with their text attached.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupCommand(cmd, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "datasets",
		Title: "Dataset Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "processing",
		Title: "Processing Commands:",
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "config file (default is $HOME/.textkgc.yaml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")
	pf.StringVarP(&flags.format, "format", "o", "", "output format: table, json, yaml")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("textkgc {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand runs before every command: it reloads the config when
// --config names another file, applies the global flags and rebuilds the
// logger.
func (a *App) setupCommand(cmd *cobra.Command, flags *rootFlags) error {
	if flags.config != "" && flags.config != a.config.ConfigFile {
		config, err := LoadConfig(flags.config)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.config = config
		a.policy = nil
		a.mu.Unlock()
	}

	a.config.UpdateFromFlags(flags.verbose, flags.quiet, flags.noColor, flags.format, flags.logLevel)
	a.useLogger(NewLogger(a.config))

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// ExitOnError prints err and exits with status 1.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
