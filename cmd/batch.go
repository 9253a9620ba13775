package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"labtools/internal/config"
	"labtools/internal/logger"
	"labtools/internal/textract"
	"labtools/pkg/models"
	"labtools/pkg/services"
)

var batchCmd = &cobra.Command{
	Use:   "batch [folder-path]",
	Short: "Analyze every supported report in a folder",
	Long: `Analyze all supported reports (.pdf, .jpg, .jpeg, .png, .csv) in a folder
with a bounded pool of workers.

One JSON line is printed per file, in file name order, followed by a summary line.
Files with other extensions are skipped.

Optional environment variables:
  BATCH_WORKERS - Number of parallel workers (default: 4)
  LLM_REQUESTS_PER_MINUTE - Throttle model calls across workers (default: unlimited)`,
	Example: `  # Analyze a folder of reports
  labtools batch ./reports

  # Use 8 workers and skip the language model
  labtools batch ./reports --workers 8 --no-llm`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// BatchLine is the per-file output of the batch command
type BatchLine struct {
	File     string         `json:"file"`
	Strategy string         `json:"strategy,omitempty"`
	Result   *models.Result `json:"result"`
}

// BatchSummary aggregates a batch run
type BatchSummary struct {
	Total    int            `json:"total"`
	Success  int            `json:"success"`
	Errors   int            `json:"errors"`
	Risk     map[string]int `json:"risk"`
	Strategy map[string]int `json:"strategy"`
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("workers", 0, "Number of parallel workers (default: BATCH_WORKERS)")
	batchCmd.Flags().Bool("no-llm", false, "Use pattern extraction only")
	batchCmd.Flags().Int("timeout", 0, "Overall timeout in seconds (0 = no timeout)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("batch")

	folderPath := args[0]
	workers, _ := cmd.Flags().GetInt("workers")
	noLLM, _ := cmd.Flags().GetBool("no-llm")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	folderInfo, err := os.Stat(folderPath)
	if err != nil {
		return fmt.Errorf("folder not found: %s", folderPath)
	}
	if !folderInfo.IsDir() {
		return fmt.Errorf("path is not a directory: %s", folderPath)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}

	files, err := findReportFiles(folderPath)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	a, router := buildAnalyzer(ctx, cfg, noLLM, log)
	defer router.Close() //nolint:errcheck

	log.Info().
		Str("folder", folderPath).
		Int("files", len(files)).
		Int("workers", workers).
		Msg("Starting batch analysis")

	analyses := analyzeInParallel(ctx, a, files, workers)

	summary := BatchSummary{
		Total:    len(analyses),
		Risk:     map[string]int{},
		Strategy: map[string]int{},
	}
	for i, analysis := range analyses {
		line := BatchLine{
			File:     filepath.Base(files[i]),
			Strategy: analysis.Strategy,
			Result:   analysis.Result,
		}
		if err := writeJSON(os.Stdout, line, false); err != nil {
			return err
		}

		if analysis.Result.IsError() {
			summary.Errors++
			continue
		}
		summary.Success++
		summary.Risk[analysis.Result.RiskAssessment.Risk]++
		summary.Strategy[analysis.Strategy]++
	}

	log.Info().
		Int("total", summary.Total).
		Int("success", summary.Success).
		Int("errors", summary.Errors).
		Msg("Batch analysis completed")

	return writeJSON(os.Stdout, map[string]BatchSummary{"summary": summary}, false)
}

// analyzeInParallel runs at most workers analyses at a time and keeps input order.
func analyzeInParallel(ctx context.Context, svc services.ReportService, files []string, workers int) []*services.Analysis {
	results := make([]*services.Analysis, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			results[i] = svc.AnalyzeWithDetails(gctx, file)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in each result

	return results
}

// findReportFiles lists supported files directly inside folderPath, sorted by name.
func findReportFiles(folderPath string) ([]string, error) {
	entries, err := os.ReadDir(folderPath)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if textract.Supported(entry.Name()) {
			files = append(files, filepath.Join(folderPath, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
