package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labtools/pkg/models"
	"labtools/pkg/services"
)

type slowService struct {
	inFlight, peak atomic.Int32
}

func (s *slowService) Analyze(ctx context.Context, path string) *models.Result {
	return s.AnalyzeWithDetails(ctx, path).Result
}

func (s *slowService) AnalyzeWithDetails(_ context.Context, path string) *services.Analysis {
	n := s.inFlight.Add(1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	s.inFlight.Add(-1)
	return &services.Analysis{Path: path, Result: models.ErrorResult(path)}
}

func TestAnalyzeInParallelKeepsOrder(t *testing.T) {
	files := []string{"a.pdf", "b.png", "c.csv", "d.jpg", "e.pdf", "f.pdf"}
	svc := &slowService{}

	results := analyzeInParallel(context.Background(), svc, files, 2)

	require.Len(t, results, len(files))
	for i, r := range results {
		assert.Equal(t, files[i], r.Path)
	}
	assert.LessOrEqual(t, svc.peak.Load(), int32(2))
}

func TestFindReportFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.PNG", "notes.txt", "c.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0755))

	files, err := findReportFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.PNG"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.csv"),
	}, files)
}

// withoutExternalTools runs the test in an empty directory with default
// configuration and a PATH holding no executables.
func withoutExternalTools(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	t.Setenv("HOME", dir)
	t.Setenv("PATH", t.TempDir())

	for _, key := range []string{
		"GOOGLE_API_KEY", "GENAI_API_KEY", "GOOGLE_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS",
		"LLM_PROVIDER", "PDF_PROVIDER", "OCR_PROVIDER", "PDFTOTEXT_PATH", "TESSERACT_PATH",
	} {
		t.Setenv(key, "")
	}

	prev := exitCode
	t.Cleanup(func() { exitCode = prev })
}

func runAnalyzeOn(t *testing.T, path string) string {
	t.Helper()
	exitCode = 0
	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)
	require.NoError(t, runAnalyze(c, []string{path}))
	return out.String()
}

func TestRunAnalyzeWithoutTesseract(t *testing.T) {
	withoutExternalTools(t)

	t.Run("unsupported type", func(t *testing.T) {
		assert.Equal(t, `{"error":"Unsupported file type: .txt"}`+"\n", runAnalyzeOn(t, "report.txt"))
		assert.Equal(t, 1, exitCode)
	})

	t.Run("csv needs no OCR binary", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "r.csv")
		require.NoError(t, os.WriteFile(path, []byte("name,value\nTSH,2.5\n"), 0644))

		assert.JSONEq(t,
			`{"success":true,"biomarkers":[{"name":"TSH","value":2.5}],"risk_assessment":{"risk":"low","score":10}}`,
			runAnalyzeOn(t, path))
		assert.Equal(t, 0, exitCode)
	})

	t.Run("image reports the missing binary", func(t *testing.T) {
		out := runAnalyzeOn(t, filepath.Join(t.TempDir(), "scan.png"))

		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Contains(t, result["error"], "Missing dependency: tesseract")
		assert.Equal(t, []any{}, result["biomarkers"])
		assert.Equal(t, 1, exitCode)
	})
}

func TestWriteJSONUsage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, models.ErrorResult(usageMessage), false))
	assert.Equal(t, `{"error":"Usage: labtools analyze <file_path>"}`+"\n", buf.String())
}
