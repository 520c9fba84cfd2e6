package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/output"
)

var auditsFormat string

var auditsCmd = &cobra.Command{
	Use:   "audits",
	Short: "List recent audits",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		format, err := output.ParseFormat(auditsFormat)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() // nolint:errcheck // best-effort cleanup

		summaries, err := st.ListAudits(ctx, 0)
		if err != nil {
			return err
		}

		switch format {
		case output.FormatJSON:
			rendered, err := output.FormatJSONIndent(summaries)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
		default:
			fmt.Fprintln(cmd.OutOrStdout(), output.FormatAuditTable(summaries))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditsCmd)

	auditsCmd.Flags().StringVarP(&auditsFormat, "format", "f", "table", "output format (table, json)")
}
