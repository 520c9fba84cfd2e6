package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/output"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <audit-id>",
	Short: "Export an audit as a Markdown coaching document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() // nolint:errcheck // best-effort cleanup

		found, err := st.GetAudit(ctx, args[0])
		if err != nil {
			return err
		}
		if found == nil {
			return fmt.Errorf("audit not found: %s", args[0])
		}

		rendered := output.FormatAuditMarkdown(found)

		if exportOut != "" {
			// #nosec G306 -- exported documents are meant to be readable
			if err := os.WriteFile(exportOut, []byte(rendered), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", exportOut)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to file instead of stdout (default audit-<id>.md naming applies to the server export)")
}
