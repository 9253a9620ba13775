package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"labtools/internal/analyzer"
	"labtools/internal/config"
	"labtools/internal/extract"
	"labtools/internal/llm"
	"labtools/internal/logger"
	"labtools/internal/registry"
	"labtools/internal/risk"
	"labtools/internal/textract"
)

// buildAnalyzer resolves every collaborator once. The returned router must be
// closed by the caller. Missing text backends surface per file as dependency
// error results.
func buildAnalyzer(ctx context.Context, cfg *config.Config, noLLM bool, log zerolog.Logger) (*analyzer.Analyzer, *textract.Router) {
	router := textract.NewRouter(ctx, cfg)

	reg := registry.Default()

	var llmExtractor *extract.LLMExtractor
	if noLLM {
		log.Debug().Msg("LLM extraction disabled by flag")
	} else if client, err := llm.NewClient(ctx, cfg); err != nil {
		// Missing credentials silently select the pattern path
		log.Debug().Err(err).Msg("LLM extraction unavailable")
	} else {
		var opts extract.LLMOptions
		if cfg.LLMRequestsPerMinute > 0 {
			opts.Limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.LLMRequestsPerMinute)), 1)
		}
		llmExtractor = extract.NewLLMExtractor(reg, client, opts)
		log.Debug().Str("provider", cfg.LLMProvider).Str("model", client.Model()).Msg("LLM extraction enabled")
	}

	orch := extract.NewOrchestrator(extract.NewPatternExtractor(reg), llmExtractor, logger.WithComponent("orchestrator"))
	a := analyzer.New(router, orch, risk.NewScorer(reg), logger.WithComponent("analyzer"))
	return a, router
}

// writeJSON prints v as one line, or indented when pretty is set.
// HTML escaping is off so messages like "<file_path>" print verbatim.
func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	return nil
}

// createContextWithTimeout creates a context with an optional timeout and signal handling.
// A timeout of zero means no deadline.
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	var ctx context.Context
	var cancel context.CancelFunc
	if timeoutSecs > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
			// Context completed normally
		}
	}()

	return ctx, cancel
}
