package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"labtools/internal/config"
	"labtools/internal/logger"
	"labtools/internal/textract"
	"labtools/pkg/models"
)

const usageMessage = "Usage: labtools analyze <file_path>"

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Extract biomarkers from a report and assess risk",
	Long: `Analyze one medical report and print the result as JSON on stdout.

Supported file types: .pdf, .jpg, .jpeg, .png, .csv

On success the output is
  {"success": true, "biomarkers": [...], "risk_assessment": {"risk": ..., "score": ...}}
otherwise
  {"error": "..."}

A backend that is not installed fails only the file types that need it, with
  {"error": "Missing dependency: ...", "biomarkers": []}

The exit code is 0 for a success result and 1 for an error result.

Optional environment variables:
  GOOGLE_API_KEY or GENAI_API_KEY - enables LLM-assisted extraction
  LLM_PROVIDER - gemini (default), openai, or none
  PDF_PROVIDER - native (default), pdftotext, vision, documentai
  OCR_PROVIDER - auto (default), tesseract, vision, documentai`,
	Example: `  # Analyze a PDF report
  labtools analyze report.pdf

  # Pretty-print and skip the language model
  labtools analyze scan.png --pretty --no-llm

  # Show which extraction strategy was used
  labtools analyze export.csv --strategy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Bool("pretty", false, "Indent the JSON output")
	analyzeCmd.Flags().Bool("no-llm", false, "Use pattern extraction only")
	analyzeCmd.Flags().Bool("strategy", false, "Print the extraction strategy to stderr")
	analyzeCmd.Flags().Int("timeout", 0, "Processing timeout in seconds (0 = no timeout)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("analyze")

	pretty, _ := cmd.Flags().GetBool("pretty")
	noLLM, _ := cmd.Flags().GetBool("no-llm")
	showStrategy, _ := cmd.Flags().GetBool("strategy")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	emit := func(result *models.Result) error {
		if result.IsError() {
			exitCode = 1
		}
		return writeJSON(cmd.OutOrStdout(), result, pretty)
	}

	if len(args) == 0 {
		return emit(models.ErrorResult(usageMessage))
	}
	path := args[0]

	// Unsupported files never need a backend
	if !textract.Supported(path) {
		return emit(models.ErrorResult(fmt.Sprintf("Unsupported file type: %s", textract.Ext(path))))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return emit(models.ErrorResult(err.Error()))
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	a, router := buildAnalyzer(ctx, cfg, noLLM, log)
	defer router.Close() //nolint:errcheck

	analysis := a.AnalyzeWithDetails(ctx, path)
	if showStrategy && analysis.Strategy != "" {
		cmd.PrintErrf("strategy: %s\n", analysis.Strategy)
	}

	return emit(analysis.Result)
}
