package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/promille/internal/alcohol"
)

var tablesFormat string

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the alcohol and bottle reference tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(tablesFormat, "md", "csv", "json"); err != nil {
			return err
		}
		return renderTables(cmd.OutOrStdout(), tablesFormat)
	},
}

func init() {
	tablesCmd.Flags().StringVar(&tablesFormat, "format", "md", "Output format: md, csv, json")
}

type alcoholRow struct {
	Name              string   `json:"name"`
	DefaultPercentage float64  `json:"default_percentage"`
	Bottles           []string `json:"bottles"`
}

type bottleRow struct {
	Name    string    `json:"name"`
	SizesML []float64 `json:"sizes_ml"`
}

func tableRows() ([]alcoholRow, []bottleRow) {
	var alcohols []alcoholRow
	for _, t := range alcohol.Types() {
		row := alcoholRow{Name: string(t), DefaultPercentage: alcohol.DefaultStrength(t)}
		for _, b := range alcohol.Bottles(t) {
			row.Bottles = append(row.Bottles, string(b))
		}
		alcohols = append(alcohols, row)
	}

	var bottles []bottleRow
	for _, b := range alcohol.BottleTypes() {
		bottles = append(bottles, bottleRow{Name: string(b), SizesML: alcohol.Sizes(b)})
	}
	return alcohols, bottles
}

func renderTables(w io.Writer, format string) error {
	alcohols, bottles := tableRows()

	switch format {
	case "json":
		data, err := json.MarshalIndent(struct {
			Alcohol []alcoholRow `json:"alcohol"`
			Bottles []bottleRow  `json:"bottles"`
		}{alcohols, bottles}, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "csv":
		fmt.Fprintln(w, "alcohol,default_percentage,bottles")
		for _, a := range alcohols {
			fmt.Fprintf(w, "%s,%s,%s\n",
				csvEscape(a.Name),
				strconv.FormatFloat(a.DefaultPercentage, 'f', -1, 64),
				csvEscape(strings.Join(a.Bottles, ";")))
		}
		return nil
	}

	fmt.Fprintln(w, titleStyle.Render("Alcohol"))
	fmt.Fprintln(w, ruleStyle.Render(rule))
	for _, a := range alcohols {
		fmt.Fprintf(w, "%-12s%5.1f %%   %s\n", a.Name, a.DefaultPercentage, strings.Join(a.Bottles, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Bottles"))
	fmt.Fprintln(w, ruleStyle.Render(rule))
	for _, b := range bottles {
		sizes := make([]string, len(b.SizesML))
		for i, s := range b.SizesML {
			sizes[i] = strconv.FormatFloat(s, 'f', -1, 64)
		}
		fmt.Fprintf(w, "%-12s%s ml\n", b.Name, strings.Join(sizes, ", "))
	}
	fmt.Fprintln(w, mutedStyle.Render("The first bottle and size of each row is the default."))
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
