package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lapse/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check availability of the external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.Snapshot(cfg)
			if asJSON {
				return writeJSON(cmd, statuses)
			}

			rows := make([][]string, 0, len(statuses))
			for _, st := range statuses {
				available := "yes"
				if !st.Available {
					available = "no"
				}
				rows = append(rows, []string{st.Name, st.Command, available, st.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(),
				renderTable([]string{"Capability", "Command", "Available", "Detail"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit capability statuses as JSON")
	return cmd
}
