package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/catalog"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios [scenario-id]",
	Short: "List usage scenarios, or the needs and methods of one scenario",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			fmt.Fprintf(out, "%-12s  %s\n", "ID", "Name")
			fmt.Fprintln(out, strings.Repeat("─", 30))
			for _, s := range catalog.Scenarios() {
				fmt.Fprintf(out, "%-12s  %s\n", s.ID, s.Name)
			}
			return nil
		}

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		id := args[0]
		ms, err := svc.catalog.ByScenario(ctx, id)
		if err != nil {
			return err
		}
		needs, err := svc.catalog.NeedsFor(ctx, id)
		if err != nil {
			return err
		}
		if len(ms) == 0 && len(needs) == 0 {
			return fmt.Errorf("unknown scenario %q", id)
		}

		for _, n := range needs {
			keys := make([]string, len(n.Methods))
			for i, k := range n.Methods {
				keys[i] = string(k)
			}
			fmt.Fprintf(out, "%s\n    %s\n", n.Name, strings.Join(keys, ", "))
		}
		if len(needs) > 0 {
			fmt.Fprintln(out)
		}
		printMethodologies(out, ms)
		return nil
	},
}
