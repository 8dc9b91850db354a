package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/textkgc/cmd/textkgc/cmd/dataset"
	datasetscmd "github.com/agentstation/textkgc/cmd/textkgc/cmd/datasets"
	"github.com/agentstation/textkgc/cmd/textkgc/cmd/fill"
	"github.com/agentstation/textkgc/cmd/textkgc/cmd/truncate"
	"github.com/agentstation/textkgc/cmd/textkgc/cmd/validate"
	"github.com/agentstation/textkgc/internal/datasets"
	_ "github.com/agentstation/textkgc/internal/datasets/all" // register loaders
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Dataset commands
	rootCmd.AddCommand(datasetscmd.NewCommand(a))
	for _, name := range datasets.Names() {
		d, err := datasets.Get(name)
		if err != nil {
			continue
		}
		rootCmd.AddCommand(dataset.NewCommand(a, d))
	}

	// Processing commands
	rootCmd.AddCommand(fill.NewCommand(a))
	rootCmd.AddCommand(truncate.NewCommand(a))
	rootCmd.AddCommand(validate.NewCommand(a))

	rootCmd.AddCommand(a.NewVersionCommand())
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "textkgc %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(w, "  commit:     %s\n", a.commit)
				fmt.Fprintf(w, "  built:      %s\n", a.date)
				fmt.Fprintf(w, "  built by:   %s\n", a.builtBy)
				fmt.Fprintf(w, "  go version: %s\n", runtime.Version())
				fmt.Fprintf(w, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
