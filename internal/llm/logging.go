package llm

import (
	"context"
	"time"

	"github.com/abhisek/methodo/internal/logging"
)

// LoggingProvider is a decorator that logs every request with its purpose,
// latency and outcome.
type LoggingProvider struct {
	inner Provider
	log   *logging.Logger
}

// WithLogging wraps a Provider with structured request logging.
func WithLogging(p Provider, log *logging.Logger) Provider {
	return &LoggingProvider{inner: p, log: logging.OrNop(log).With("component", "llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	kv := []interface{}{
		"purpose", PurposeFrom(ctx),
		"request_id", RequestIDFrom(ctx),
		"model", l.inner.ModelID(),
		"latency_ms", time.Since(start).Milliseconds(),
		"prompt_chars", len([]rune(req.Prompt())),
		"success", err == nil,
	}
	if req.Schema != nil {
		kv = append(kv, "schema", req.Schema.Name)
	}
	if resp != nil {
		kv = append(kv, "response_bytes", len(resp.Content))
	}
	if err != nil {
		l.log.Warn("generation failed", append(kv, "error", err)...)
	} else {
		l.log.Debug("generation complete", kv...)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
