package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/output"
)

var auditFormat string

var auditCmd = &cobra.Command{
	Use:   "audit <url>",
	Short: "Audit a business homepage for local-SEO clarity",
	Long: `Fetch the target homepage, analyze it along the who/what/where dimensions,
and persist the audit with its recommendations and extracted entities.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		format, err := output.ParseFormat(auditFormat)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() // nolint:errcheck // best-effort cleanup

		comps, err := buildComponents(cfg)
		if err != nil {
			return err
		}

		composed, err := comps.Pipeline(st).Run(ctx, args[0])
		if err != nil {
			return err
		}

		switch format {
		case output.FormatMarkdown:
			fmt.Fprintln(cmd.OutOrStdout(), output.FormatAuditMarkdown(composed))
		default:
			rendered, err := output.FormatJSONIndent(composed)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&auditFormat, "format", "f", "json", "output format (json, markdown)")
}
