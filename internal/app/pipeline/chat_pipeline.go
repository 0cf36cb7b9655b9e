package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mathieu1704/icare-mvp/internal/app/compose"
	"github.com/Mathieu1704/icare-mvp/internal/domain"
	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

// Config holds the per-deployment defaults the pipeline applies to every
// request.
type Config struct {
	DefaultOrganization string
	StalenessThreshold  time.Duration
	DefaultLocale       domain.Locale
	StrictExtraction    bool
}

// ChatPipeline orchestrates extraction, aggregation, and composition for one
// request. It holds no per-request state and is safe for concurrent use.
type ChatPipeline struct {
	extractor ports.IntentExtractor
	store     ports.SensorStore
	obs       ports.Observability
	cfg       Config
}

func New(extractor ports.IntentExtractor, store ports.SensorStore, obs ports.Observability, cfg Config) *ChatPipeline {
	if cfg.DefaultOrganization == "" {
		cfg.DefaultOrganization = "icare_mons"
	}
	if cfg.StalenessThreshold <= 0 {
		cfg.StalenessThreshold = 2 * 24 * time.Hour
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = domain.LocaleFR
	}
	return &ChatPipeline{extractor: extractor, store: store, obs: obs, cfg: cfg}
}

// Handle answers one chat request. Extraction failures degrade to a
// clarification answer unless strict extraction is configured; aggregation
// failures always surface as errors so the caller never gets a silently
// wrong answer.
func (p *ChatPipeline) Handle(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	p.obs.IncCounter("icare_chat_requests_total", 1)

	locale := p.cfg.DefaultLocale
	if req.Locale != "" {
		locale = domain.ParseLocale(req.Locale)
	}

	message := strings.TrimSpace(req.Message)

	start := time.Now()
	result, err := p.extractor.Extract(ctx, message)
	p.obs.ObserveLatency("icare_intent_latency_seconds", time.Since(start).Seconds())
	if err != nil {
		p.obs.IncCounter("icare_intent_extraction_failures_total", 1)
		if p.cfg.StrictExtraction {
			return domain.ChatResponse{}, err
		}
		var extractionErr *ports.ExtractionError
		if !errors.As(err, &extractionErr) {
			// Model transport failure, not a parse failure: the request
			// cannot be understood at all, so it still degrades to a
			// clarification answer in lenient mode.
			p.obs.LogError("intent_extraction_failed", err, ports.Field{Key: "extractor", Value: p.extractor.Name()})
		}
		result = domain.IntentResult{Intent: domain.IntentUnknown}
	}

	organization := result.Organization
	if organization == "" {
		organization = p.cfg.DefaultOrganization
	}

	var summary domain.StatusSummary
	if result.Intent.NeedsData() {
		queryStart := time.Now()
		summary, err = p.store.SiteStatus(ctx, organization, p.cfg.StalenessThreshold)
		p.obs.ObserveLatency("icare_store_query_latency_seconds", time.Since(queryStart).Seconds())
		if err != nil {
			p.obs.LogError("site_status_failed", err, ports.Field{Key: "organization", Value: organization})
			return domain.ChatResponse{}, fmt.Errorf("site status for %q: %w", organization, err)
		}
		p.obs.SetGauge("icare_last_disconnected_count", float64(summary.DisconnectedCount))
	} else {
		p.obs.IncCounter("icare_unknown_intent_total", 1)
	}

	return domain.ChatResponse{Answer: compose.Answer(result.Intent, summary, locale)}, nil
}
