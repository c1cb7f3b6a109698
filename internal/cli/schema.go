package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bridgegad/bridgegad/pkg/errors"
	"github.com/bridgegad/bridgegad/pkg/params"
)

// schemaCommand creates the schema command.
func (c *CLI) schemaCommand() *cobra.Command {
	var category string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "List the parameters, their ranges and defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cats := params.Categories()
			if category != "" {
				cat, err := parseCategory(category)
				if err != nil {
					return err
				}
				cats = []params.Category{cat}
			}
			if asJSON {
				return printSchemaJSON(cats)
			}
			for _, cat := range cats {
				fmt.Println(styleHeading.Render(strings.ToUpper(string(cat))))
				fmt.Println(schemaTable(params.ByCategory(cat)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show one category")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}

func parseCategory(s string) (params.Category, error) {
	var names []string
	for _, cat := range params.Categories() {
		if strings.EqualFold(string(cat), s) {
			return cat, nil
		}
		names = append(names, string(cat))
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown category %q (want one of: %s)", s, strings.Join(names, ", "))
}

func printSchemaJSON(cats []params.Category) error {
	type entry struct {
		Key         string  `json:"key"`
		Kind        string  `json:"kind"`
		Min         float64 `json:"min"`
		Max         float64 `json:"max"`
		Default     float64 `json:"default"`
		Unit        string  `json:"unit,omitempty"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
	}
	var out []entry
	for _, cat := range cats {
		for _, r := range params.ByCategory(cat) {
			out = append(out, entry{r.Key, string(r.Kind), r.Min, r.Max, r.Default, r.Unit, string(r.Category), r.Description})
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
