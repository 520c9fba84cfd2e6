package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geolens/geolens/internal/output"
)

var (
	visibilityProvider string
	visibilityJSON     bool
)

var visibilityCmd = &cobra.Command{
	Use:   "visibility <business name>",
	Short: "Check how a business surfaces in AI-powered search",
	Long: `Generate five search queries for the business and fan them out to the
configured search provider. Each query settles independently; one failed
query never hides its siblings' results.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		comps, err := buildComponents(cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		term := strings.Join(args, " ")

		generated, err := comps.Generator.Generate(ctx, term)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()

		switch visibilityProvider {
		case "perplexity":
			results, err := comps.Perplexity.SearchMany(ctx, generated)
			if err != nil {
				return err
			}
			if visibilityJSON {
				rendered, err := output.FormatJSONIndent(results)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, rendered)
				return nil
			}
			for i, outcome := range results {
				fmt.Fprintf(out, "## %s\n", generated[i])
				if outcome.Err != "" {
					fmt.Fprintf(out, "error: %s\n\n", outcome.Err)
					continue
				}
				fmt.Fprintf(out, "%s\n\n", outcome.Answer.Answer)
			}
			return nil

		case "serp":
			results := comps.Serp.SearchAll(ctx, generated)
			if visibilityJSON {
				rendered, err := output.FormatJSONIndent(results)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, rendered)
				return nil
			}

			indexes := make([]int, 0, len(results))
			for i := range results {
				indexes = append(indexes, i)
			}
			sort.Ints(indexes)

			for _, i := range indexes {
				outcome := results[i]
				fmt.Fprintf(out, "## %s\n", generated[i])
				switch {
				case outcome.Err != "":
					fmt.Fprintf(out, "error: %s\n\n", outcome.Err)
				case outcome.Result != nil && outcome.Result.AIOverview != nil:
					for _, block := range outcome.Result.AIOverview.TextBlocks {
						if block.Snippet != "" {
							fmt.Fprintln(out, block.Snippet)
						}
					}
					fmt.Fprintln(out)
				case outcome.Result != nil && outcome.Result.AnswerBox != nil:
					fmt.Fprintf(out, "%s\n\n", outcome.Result.AnswerBox.Result)
				default:
					fmt.Fprint(out, "no AI answer surfaced\n\n")
				}
			}
			return nil

		default:
			return fmt.Errorf("unsupported provider: %s (use serp or perplexity)", visibilityProvider)
		}
	},
}

func init() {
	rootCmd.AddCommand(visibilityCmd)

	visibilityCmd.Flags().StringVar(&visibilityProvider, "provider", "serp", "search provider (serp, perplexity)")
	visibilityCmd.Flags().BoolVar(&visibilityJSON, "json", false, "emit raw JSON results")
}
