package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/textkgc/internal/cmd/application"
	"github.com/agentstation/textkgc/internal/cmd/output"
)

// Render writes data to the command's output in the app's format. Table
// output uses table instead of data.
func Render(cmd *cobra.Command, app application.Application, data any, table output.Data) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	var outputData any = data
	if format == output.FormatTable || format == "" {
		outputData = table
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), outputData)
}
