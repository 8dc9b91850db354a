// Package fill implements the fill command, which makes a name mapping and
// a description mapping cover the same entity IDs.
package fill

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/internal/cmd/cmdutil"
	"github.com/agentstation/textkgc/internal/cmd/output"
	"github.com/agentstation/textkgc/pkg/constants"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/kg"
	"github.com/agentstation/textkgc/pkg/reconcile"
	"github.com/agentstation/textkgc/pkg/save"
)

// NewCommand creates the fill command.
func NewCommand(app application.Application) *cobra.Command {
	settings := app.Settings()
	var (
		indent    int
		fillFlags *cmdutil.FillFlags
	)

	cmd := &cobra.Command{
		Use:     "fill <names.json> <descriptions.json> <out-dir>",
		GroupID: "processing",
		Short:   "Fill entities missing a name or a description",
		Long: `Fill writes filled_entity_id2name.json and filled_entity_id2description.json.
Every ID in either input appears in both outputs; IDs missing from one side
get the placeholder (or an empty string with --fill-mode empty). Existing
values are kept as they are.`,
		Example: `  textkgc fill names.json descriptions.json out/
  textkgc fill names.json descriptions.json out/ --placeholder "[unknown]"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := fillFlags.Strategy()
			if err != nil {
				return err
			}

			names, err := save.LoadMapping(args[0])
			if err != nil {
				return err
			}
			descs, err := save.LoadMapping(args[1])
			if err != nil {
				return err
			}

			filledNames, filledDescs, err := reconcile.Reconcile(names, descs, strategy)
			if err != nil {
				return err
			}

			out := args[2]
			if err := os.MkdirAll(out, constants.DirPermissions); err != nil {
				return errors.WrapIO("create", out, err)
			}
			outputs := []struct {
				file string
				m    kg.Mapping
			}{
				{constants.FilledPrefix + constants.EntityID2NameFile, filledNames},
				{constants.FilledPrefix + constants.EntityID2DescriptionFile, filledDescs},
			}
			for _, o := range outputs {
				if err := save.Mapping(o.m, save.WithPath(filepath.Join(out, o.file)), save.WithIndent(indent)); err != nil {
					return err
				}
			}

			app.Logger().Info().
				Str("strategy", strategy.Description()).
				Int("added_names", len(filledNames)-len(names)).
				Int("added_descriptions", len(filledDescs)-len(descs)).
				Msg("Filled missing entries")

			report := reconcile.Inspect(filledNames, filledDescs)
			return cmdutil.Render(cmd, app, report, output.ReportTable(report))
		},
	}

	cmd.Flags().IntVar(&indent, "indent", settings.JSONIndent, "JSON indentation width")
	fillFlags = cmdutil.AddFillFlags(cmd, settings)

	return cmd
}
