package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the active business taxonomy",
	Long:  "Shows the classification axes in precedence order, with each axis's match kind and value filter.",
	RunE: func(cmd *cobra.Command, args []string) error {
		tax, err := loadTaxonomy()
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Rank", "Axis", "Display", "Match", "Values"})
		table.SetBorder(false)
		table.SetAutoWrapText(false)

		for i, rule := range tax.Rules() {
			table.Append([]string{
				strconv.Itoa(i + 1),
				rule.Key,
				rule.Display,
				string(rule.Match),
				strings.Join(rule.Values, ", "),
			})
		}
		table.Render()
		return nil
	},
}

func init() { rootCmd.AddCommand(taxonomyCmd) }
