package extract_test

import (
	"context"
	"fmt"

	"labtools/internal/extract"
	"labtools/internal/logger"
	"labtools/internal/registry"
)

// Example shows pattern-only extraction, used when no LLM credential is configured.
func Example() {
	reg := registry.Default()
	orch := extract.NewOrchestrator(extract.NewPatternExtractor(reg), nil, logger.Nop())

	found, strategy := orch.ExtractWithStrategy(context.Background(), "TSH 2.5 mg/dL, T3: 3,1 pg/ml, NFL <50")

	fmt.Println("strategy:", strategy)
	for _, b := range found {
		fmt.Printf("%s=%g\n", b.Name, b.Value)
	}
	// Output:
	// strategy: pattern
	// TSH=2.5
	// T3=3.1
	// NFL=50
}

// ExamplePatternExtractor_Extract demonstrates the number-before-name form.
func ExamplePatternExtractor_Extract() {
	p := extract.NewPatternExtractor(registry.Default())

	for _, b := range p.Extract("Result: 35 ng/ml Vitamin D") {
		fmt.Printf("%s=%g\n", b.Name, b.Value)
	}
	// Output:
	// Vitamin D=35
}
