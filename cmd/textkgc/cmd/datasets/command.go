// Package datasets implements the datasets command, which lists the
// truncation policy and the available loaders.
package datasets

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/internal/cmd/cmdutil"
	"github.com/agentstation/textkgc/internal/cmd/output"
	"github.com/agentstation/textkgc/internal/datasets"
	"github.com/agentstation/textkgc/pkg/truncation"
)

// NewCommand creates the datasets command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "datasets",
		GroupID: "datasets",
		Short:   "Show known datasets and their truncation limits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newShowCommand(app))
	return cmd
}

func newListCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List datasets in the truncation policy",
		Args:    cobra.NoArgs,
		Example: `  textkgc datasets list
  textkgc datasets list -o yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy, err := app.Policy()
			if err != nil {
				return err
			}

			names := policy.Datasets()
			for _, name := range datasets.Names() {
				if _, err := policy.Config(name); err != nil {
					names = append(names, name)
				}
			}
			sort.Strings(names)

			rows := make([]output.DatasetRow, 0, len(names))
			for _, name := range names {
				rows = append(rows, row(policy, name))
			}

			app.Logger().Debug().Int("datasets", len(rows)).Msg("Listing datasets")
			return cmdutil.Render(cmd, app, rows, output.DatasetsTable(rows))
		},
	}
}

func newShowCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "show <dataset>",
		Short: "Show the truncation limits of one dataset",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			policy, err := app.Policy()
			if err != nil || len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return policy.Datasets(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := app.Policy()
			if err != nil {
				return err
			}
			if _, err := policy.Config(args[0]); err != nil {
				return err
			}

			r := row(policy, args[0])
			return cmdutil.Render(cmd, app, r, output.DatasetsTable([]output.DatasetRow{r}))
		},
	}
}

// row describes name using the policy limits, or the default limit when
// only a loader exists.
func row(policy *truncation.Policy, name string) output.DatasetRow {
	r := output.DatasetRow{
		Name:          name,
		EntityLimit:   policy.Limit(name, string(truncation.KindEntity)),
		RelationLimit: policy.Limit(name, string(truncation.KindRelation)),
	}
	if d, err := datasets.Get(name); err == nil {
		r.Loader = true
		r.Description = d.Description()
	}
	return r
}
