// Package risk classifies a set of biomarker values by how many fall outside
// their normal ranges.
package risk

import (
	"labtools/internal/registry"
	"labtools/pkg/models"
)

// Scorer assesses extracted biomarkers against a registry. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	reg *registry.Registry
}

// NewScorer creates a Scorer over reg.
func NewScorer(reg *registry.Registry) *Scorer {
	return &Scorer{reg: reg}
}

// AbnormalCount counts values outside their range. Names that are not exact
// registry keys are ignored.
func (s *Scorer) AbnormalCount(biomarkers []models.Biomarker) int {
	count := 0
	for _, b := range biomarkers {
		def, ok := s.reg.Get(b.Name)
		if !ok {
			continue
		}
		if !def.InRange(b.Value) {
			count++
		}
	}
	return count
}

// Assess maps the abnormal count to a risk level and score.
func (s *Scorer) Assess(biomarkers []models.Biomarker) models.RiskAssessment {
	if len(biomarkers) == 0 {
		return models.RiskAssessment{Risk: models.RiskLow, Score: 0}
	}

	switch n := s.AbnormalCount(biomarkers); {
	case n == 0:
		return models.RiskAssessment{Risk: models.RiskLow, Score: 10}
	case n == 1:
		return models.RiskAssessment{Risk: models.RiskModerate, Score: 45}
	case n <= 3:
		return models.RiskAssessment{Risk: models.RiskModerate, Score: 55}
	default:
		return models.RiskAssessment{Risk: models.RiskHigh, Score: 75}
	}
}
