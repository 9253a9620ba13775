package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"labtools/internal/registry"
)

var biomarkersCmd = &cobra.Command{
	Use:   "biomarkers",
	Short: "List the biomarker catalogue and normal ranges",
	Args:  cobra.NoArgs,
	RunE:  runBiomarkers,
}

// catalogueEntry is the JSON form of a registry definition
type catalogueEntry struct {
	Key     string   `json:"key"`
	Unit    string   `json:"unit"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Aliases []string `json:"aliases"`
}

func init() {
	rootCmd.AddCommand(biomarkersCmd)

	biomarkersCmd.Flags().Bool("json", false, "Output as JSON")
}

func runBiomarkers(cmd *cobra.Command, _ []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	defs := registry.Default().Definitions()

	if jsonOutput {
		entries := make([]catalogueEntry, len(defs))
		for i, d := range defs {
			entries[i] = catalogueEntry{Key: d.Key, Unit: d.Unit, Min: d.Min, Max: d.Max, Aliases: d.Aliases}
		}
		return writeJSON(os.Stdout, entries, true)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tUNIT\tRANGE\tALIASES")
	for _, d := range defs {
		fmt.Fprintf(tw, "%s\t%s\t%g-%g\t%s\n", d.Key, d.Unit, d.Min, d.Max, strings.Join(d.Aliases, ", "))
	}
	return tw.Flush()
}
