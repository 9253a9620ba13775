package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"labtools/internal/logger"
)

var version = "1.0.0"

// exitCode is set by commands whose output is a result object rather than an error
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "labtools",
	Short: "labtools - biomarker extraction and risk assessment for lab reports",
	Long: `labtools reads medical lab reports (PDF, scanned image, or CSV export),
finds values for a fixed catalogue of biomarkers, and classifies the overall
risk by how many values fall outside their normal ranges.

Text is extracted locally (PDF text layer, pdftotext, tesseract) or with
Google Cloud Vision / Document AI. When GOOGLE_API_KEY or GENAI_API_KEY is set,
a language model reads the values first and pattern matching is the fallback.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Debug().
			Str("version", version).
			Msg("labtools executed without subcommand")

		_ = cmd.Help()
	},
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		return 1
	}
	return exitCode
}
