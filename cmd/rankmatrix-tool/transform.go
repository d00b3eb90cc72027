package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wptable/rankmatrix/internal/transform"
)

func transformCmd() *cobra.Command {
	var mappings, input, output string

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Rewrite a name-keyed rankings file to team identifiers",
		Long: `Resolve every team name in a rankings file against the team mappings CSV
and write the identifier-keyed file the server loads. Names that cannot be
resolved are kept as names and listed after the statistics.

Examples:
  rankmatrix-tool transform
  rankmatrix-tool transform --input raw.json --output data/rankings.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := transform.Files(mappings, input, output)
			if err != nil {
				return err
			}
			transform.Report(cmd.OutOrStdout(), stats)
			fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&mappings, "mappings", "data/WP_team_name_mappings.csv", "team_name,team_id CSV")
	cmd.Flags().StringVar(&input, "input", "data/mens_waterpolo_rankings.json", "name-keyed rankings JSON")
	cmd.Flags().StringVar(&output, "output", "data/mens_waterpolo_rankings_with_ids.json", "identifier-keyed rankings JSON to write")
	return cmd
}
