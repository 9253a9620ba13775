package models

import (
	"bytes"
	"encoding/json"
)

// Risk levels
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
)

// Biomarker is one value extracted from a report.
type Biomarker struct {
	Name  string  `json:"name"`           // Registry key, or the raw label when the LLM path could not resolve it
	Value float64 `json:"value"`          // Always '.'-decimal
	Unit  string  `json:"unit,omitempty"` // Only set by the LLM path
}

// RiskAssessment summarises how many values fall outside their normal ranges.
type RiskAssessment struct {
	Risk  string `json:"risk"`  // low, moderate or high
	Score int    `json:"score"` // 0-100
}

// Result is the outcome of analysing one report file.
// Exactly one of the success or error shapes is serialised.
type Result struct {
	Success        bool
	Biomarkers     []Biomarker
	RiskAssessment RiskAssessment
	Error          string

	// dependency marks errors raised before any file was read
	dependency bool
}

// SuccessResult builds a success result. A nil list is reported as [].
func SuccessResult(biomarkers []Biomarker, risk RiskAssessment) *Result {
	if biomarkers == nil {
		biomarkers = []Biomarker{}
	}
	return &Result{Success: true, Biomarkers: biomarkers, RiskAssessment: risk}
}

// ErrorResult builds a terminal error result.
func ErrorResult(msg string) *Result {
	return &Result{Error: msg}
}

// DependencyErrorResult builds the error result used when a required backend
// cannot be constructed. It also carries an empty biomarker list.
func DependencyErrorResult(msg string) *Result {
	return &Result{Error: msg, dependency: true}
}

// IsError reports whether r is an error result.
func (r *Result) IsError() bool {
	return r.Error != ""
}

type successJSON struct {
	Success        bool           `json:"success"`
	Biomarkers     []Biomarker    `json:"biomarkers"`
	RiskAssessment RiskAssessment `json:"risk_assessment"`
}

type errorJSON struct {
	Error string `json:"error"`
}

type dependencyErrorJSON struct {
	Error      string      `json:"error"`
	Biomarkers []Biomarker `json:"biomarkers"`
}

// MarshalJSON implements json.Marshaler.
func (r Result) MarshalJSON() ([]byte, error) {
	switch {
	case r.Error != "" && r.dependency:
		return marshal(dependencyErrorJSON{Error: r.Error, Biomarkers: []Biomarker{}})
	case r.Error != "":
		return marshal(errorJSON{Error: r.Error})
	}

	biomarkers := r.Biomarkers
	if biomarkers == nil {
		biomarkers = []Biomarker{}
	}
	return marshal(successJSON{
		Success:        r.Success,
		Biomarkers:     biomarkers,
		RiskAssessment: r.RiskAssessment,
	})
}

// marshal leaves '<' and '>' unescaped; error messages quote "<file_path>".
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
