// Package validate implements the validate command for a name and a
// description mapping.
package validate

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/internal/cmd/cmdutil"
	"github.com/agentstation/textkgc/internal/cmd/output"
	"github.com/agentstation/textkgc/pkg/errors"
	"github.com/agentstation/textkgc/pkg/reconcile"
	"github.com/agentstation/textkgc/pkg/save"
)

// NewCommand creates the validate command.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "validate <names.json> <descriptions.json>",
		GroupID: "processing",
		Short:   "Check that names and descriptions cover the same entities",
		Long: `Validate reports blank names, blank descriptions, and IDs present in only
one of the two mappings. It exits with an error when any issue is found.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := save.LoadMapping(args[0])
			if err != nil {
				return err
			}
			descs, err := save.LoadMapping(args[1])
			if err != nil {
				return err
			}

			report := reconcile.Inspect(names, descs)
			if err := cmdutil.Render(cmd, app, report, output.ReportTable(report)); err != nil {
				return err
			}

			issues := report.Issues()
			if len(issues) == 0 {
				app.Logger().Info().Int("entities", len(names)).Msg("Mappings are consistent")
				return nil
			}
			for _, issue := range issues {
				app.Logger().Warn().Msg(issue)
			}
			return &errors.ValidationError{
				Field:   "mappings",
				Message: strings.Join(issues, "; "),
			}
		},
	}
}
