package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (a *app) versionCommand() *cobra.Command {
	var (
		asJSON bool
		deps   bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := a.buildInfo()
			if !deps {
				info.Dependencies = nil
			}

			if asJSON {
				out, err := json.Marshal(info)
				if err != nil {
					return fmt.Errorf("error encoding build info: %w", err)
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendRows([]table.Row{
				{"Version", info.Version},
				{"Commit", info.GitCommit},
				{"Built", info.BuildTime},
				{"Go", info.GoVersion},
			})

			if deps {
				t.AppendSeparator()

				for _, path := range info.SortedDependencies() {
					t.AppendRow(table.Row{path, info.Dependencies[path]})
				}
			}

			t.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build information as JSON")
	cmd.Flags().BoolVar(&deps, "deps", false, "Include dependency versions")

	return cmd
}
