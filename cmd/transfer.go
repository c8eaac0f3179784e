package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/methodo/internal/practice"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all practice records to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("output")

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		data, err := svc.practice.ExportAll(cmd.Context())
		if err != nil {
			return err
		}
		if path == "-" {
			fmt.Fprintln(cmd.OutOrStdout(), data)
			return nil
		}
		if path == "" {
			path = practice.ExportFilename(time.Now())
		}
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge practice records from an exported JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read import: %w", err)
		}

		svc, err := openServices(cmd, false)
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := svc.practice.ImportAll(cmd.Context(), string(data)); err != nil {
			return err
		}
		all, err := svc.practice.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported; history now has %d records.\n", len(all))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file (default methodology-practice-<date>.json, - for stdout)")
}
