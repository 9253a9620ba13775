package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labtools/internal/config"
	"labtools/internal/extract"
	"labtools/internal/logger"
	"labtools/internal/registry"
	"labtools/internal/risk"
	"labtools/internal/textract"
	"labtools/pkg/models"
)

type countingExtractor struct {
	mu    sync.Mutex
	calls int
	text  string
	err   error
	panic bool
}

func (c *countingExtractor) ExtractText(context.Context, string) (string, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.panic {
		panic("decoder exploded")
	}
	return c.text, c.err
}

func newAnalyzer(router *textract.Router) *Analyzer {
	reg := registry.Default()
	orch := extract.NewOrchestrator(extract.NewPatternExtractor(reg), nil, logger.Nop())
	return New(router, orch, risk.NewScorer(reg), logger.Nop())
}

func toJSON(t *testing.T, r *models.Result) string {
	t.Helper()
	b, err := json.Marshal(r)
	require.NoError(t, err)
	return string(b)
}

func TestAnalyzeUnsupportedType(t *testing.T) {
	pdf, image, csv := &countingExtractor{}, &countingExtractor{}, &countingExtractor{}
	a := newAnalyzer(&textract.Router{PDF: pdf, Image: image, CSV: csv})

	assert.Equal(t, `{"error":"Unsupported file type: .txt"}`, toJSON(t, a.Analyze(context.Background(), "notes.txt")))
	assert.Equal(t, `{"error":"Unsupported file type: "}`, toJSON(t, a.Analyze(context.Background(), "README")))
	assert.Zero(t, pdf.calls+image.calls+csv.calls, "no collaborator may be invoked")
}

func TestAnalyzeDispatch(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{path: "report.PDF", want: "pdf"},
		{path: "scan.jpg", want: "image"},
		{path: "scan.jpeg", want: "image"},
		{path: "scan.png", want: "image"},
		{path: "export.csv", want: "csv"},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			exts := map[string]*countingExtractor{"pdf": {}, "image": {}, "csv": {}}
			a := newAnalyzer(&textract.Router{PDF: exts["pdf"], Image: exts["image"], CSV: exts["csv"]})

			result := a.Analyze(context.Background(), tc.path)
			assert.False(t, result.IsError())
			for name, ext := range exts {
				if name == tc.want {
					assert.Equal(t, 1, ext.calls, name)
				} else {
					assert.Zero(t, ext.calls, name)
				}
			}
		})
	}
}

func TestAnalyzeExtractionFailure(t *testing.T) {
	a := newAnalyzer(&textract.Router{PDF: &countingExtractor{err: errors.New("corrupt xref")}})

	assert.Equal(t, `{"error":"Failed to extract text from file"}`, toJSON(t, a.Analyze(context.Background(), "report.pdf")))
}

func TestAnalyzeMissingExtractor(t *testing.T) {
	a := newAnalyzer(&textract.Router{})

	assert.Equal(t, "Failed to extract text from file", a.Analyze(context.Background(), "scan.png").Error)
}

func TestAnalyzeMissingBackendOnlyFailsItsKind(t *testing.T) {
	router := textract.NewRouter(context.Background(), &config.Config{
		PDFProvider:   config.ProviderNative,
		OCRProvider:   config.ProviderTesseract,
		TesseractPath: "/nonexistent/tesseract",
	})
	defer router.Close() //nolint:errcheck
	a := newAnalyzer(router)

	image := a.Analyze(context.Background(), "scan.png")
	assert.True(t, image.IsError())
	assert.Contains(t, image.Error, "Missing dependency: tesseract")
	assert.Contains(t, toJSON(t, image), `"biomarkers":[]`)

	assert.Equal(t, `{"error":"Unsupported file type: .txt"}`, toJSON(t, a.Analyze(context.Background(), "notes.txt")))

	path := filepath.Join(t.TempDir(), "r.csv")
	require.NoError(t, os.WriteFile(path, []byte("test,result\nTSH,9.1\n"), 0644))
	assert.JSONEq(t,
		`{"success":true,"biomarkers":[{"name":"TSH","value":9.1}],"risk_assessment":{"risk":"moderate","score":45}}`,
		toJSON(t, a.Analyze(context.Background(), path)))
}

func TestAnalyzeRecoversPanic(t *testing.T) {
	a := newAnalyzer(&textract.Router{Image: &countingExtractor{panic: true}})

	var result *models.Result
	require.NotPanics(t, func() {
		result = a.Analyze(context.Background(), "scan.png")
	})
	assert.True(t, result.IsError())
}

func TestAnalyzeEmptyText(t *testing.T) {
	a := newAnalyzer(&textract.Router{PDF: &countingExtractor{text: ""}})

	assert.JSONEq(t,
		`{"success":true,"biomarkers":[],"risk_assessment":{"risk":"low","score":0}}`,
		toJSON(t, a.Analyze(context.Background(), "scan.pdf")))
}

func TestAnalyzeCSVScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.csv")
	csv := "test,result,unit\nThyroxine level,0.5,ng/dL\nFolate,1.0,ng/dL\nB12,950,pg/dL\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))

	a := newAnalyzer(&textract.Router{CSV: textract.NewCSVText()})
	analysis := a.AnalyzeWithDetails(context.Background(), path)

	assert.Equal(t, string(extract.StrategyPattern), analysis.Strategy)
	assert.Equal(t, 3, analysis.Abnormal)
	assert.NotEmpty(t, analysis.RequestID)
	assert.JSONEq(t, `{
		"success": true,
		"biomarkers": [
			{"name": "T4", "value": 0.5},
			{"name": "B12", "value": 950},
			{"name": "Folate", "value": 1}
		],
		"risk_assessment": {"risk": "moderate", "score": 55}
	}`, toJSON(t, analysis.Result))
}

func TestAnalyzeConcurrent(t *testing.T) {
	a := newAnalyzer(&textract.Router{PDF: &countingExtractor{text: "TSH 9.1 mg/dL"}})

	var wg sync.WaitGroup
	results := make([]*models.Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = a.Analyze(context.Background(), "report.pdf")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, models.RiskAssessment{Risk: models.RiskModerate, Score: 45}, r.RiskAssessment)
	}
}
