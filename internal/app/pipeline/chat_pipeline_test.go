package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Mathieu1704/icare-mvp/internal/domain"
	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

type fakeExtractor struct {
	result  domain.IntentResult
	err     error
	message string
}

func (f *fakeExtractor) Extract(_ context.Context, message string) (domain.IntentResult, error) {
	f.message = message
	return f.result, f.err
}

func (f *fakeExtractor) Name() string { return "fake" }

type fakeStore struct {
	summary      domain.StatusSummary
	err          error
	organization string
	threshold    time.Duration
	calls        int
}

func (f *fakeStore) SiteStatus(_ context.Context, organization string, threshold time.Duration) (domain.StatusSummary, error) {
	f.calls++
	f.organization = organization
	f.threshold = threshold
	return f.summary, f.err
}

func (f *fakeStore) Ping(context.Context) error { return nil }

type fakeObs struct {
	counters map[string]float64
	gauges   map[string]float64
	errors   []string
}

func newFakeObs() *fakeObs {
	return &fakeObs{counters: map[string]float64{}, gauges: map[string]float64{}}
}

func (f *fakeObs) LogInfo(string, ...ports.Field) {}

func (f *fakeObs) LogError(msg string, _ error, _ ...ports.Field) {
	f.errors = append(f.errors, msg)
}

func (f *fakeObs) LogCritical(msg string, _ error, _ ...ports.Field) {
	f.errors = append(f.errors, msg)
}

func (f *fakeObs) IncCounter(name string, v float64) { f.counters[name] += v }

func (f *fakeObs) ObserveLatency(string, float64) {}

func (f *fakeObs) SetGauge(name string, v float64) { f.gauges[name] = v }

func TestHandleCheckConnectivity(t *testing.T) {
	extractor := &fakeExtractor{result: domain.IntentResult{Intent: domain.IntentCheckConnectivity}}
	store := &fakeStore{summary: domain.StatusSummary{ConnectedCount: 3, DisconnectedIDs: []string{}}}
	obs := newFakeObs()
	p := New(extractor, store, obs, Config{})

	resp, err := p.Handle(context.Background(), domain.ChatRequest{Message: "  tous connectés ?  "})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if resp.Answer != "Oui, tous les capteurs sont connectés." {
		t.Fatalf("unexpected answer: %q", resp.Answer)
	}
	if extractor.message != "tous connectés ?" {
		t.Fatalf("message must be trimmed before extraction, got %q", extractor.message)
	}
	if store.organization != "icare_mons" {
		t.Fatalf("expected default organization, got %q", store.organization)
	}
	if store.threshold != 48*time.Hour {
		t.Fatalf("expected default threshold 48h, got %v", store.threshold)
	}
	if obs.counters["icare_chat_requests_total"] != 1 {
		t.Fatalf("request counter not incremented")
	}
	if obs.gauges["icare_last_disconnected_count"] != 0 {
		t.Fatalf("expected disconnected gauge 0, got %f", obs.gauges["icare_last_disconnected_count"])
	}
}

func TestHandleExtractedOrganizationWins(t *testing.T) {
	extractor := &fakeExtractor{result: domain.IntentResult{
		Intent:       domain.IntentListDisconnected,
		Organization: "icare_liege",
	}}
	store := &fakeStore{summary: domain.StatusSummary{DisconnectedCount: 1, DisconnectedIDs: []string{"sC"}}}
	obs := newFakeObs()
	p := New(extractor, store, obs, Config{DefaultOrganization: "icare_mons"})

	resp, err := p.Handle(context.Background(), domain.ChatRequest{Message: "list", Locale: "en"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if store.organization != "icare_liege" {
		t.Fatalf("extracted organization must win, got %q", store.organization)
	}
	if resp.Answer != "Disconnected sensors: sC" {
		t.Fatalf("unexpected answer: %q", resp.Answer)
	}
	if obs.gauges["icare_last_disconnected_count"] != 1 {
		t.Fatalf("expected disconnected gauge 1, got %f", obs.gauges["icare_last_disconnected_count"])
	}
}

func TestHandleUnknownIntentSkipsStore(t *testing.T) {
	extractor := &fakeExtractor{result: domain.IntentResult{Intent: domain.IntentUnknown}}
	store := &fakeStore{}
	obs := newFakeObs()
	p := New(extractor, store, obs, Config{})

	resp, err := p.Handle(context.Background(), domain.ChatRequest{Message: "quelle heure est-il ?"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if store.calls != 0 {
		t.Fatalf("unknown intent must not touch the store")
	}
	if obs.counters["icare_unknown_intent_total"] != 1 {
		t.Fatalf("unknown counter not incremented")
	}
	if resp.Answer == "" {
		t.Fatalf("expected a clarification answer")
	}
}

func TestHandleLenientExtractionDegrades(t *testing.T) {
	extractor := &fakeExtractor{
		result: domain.IntentResult{Intent: domain.IntentUnknown},
		err:    ports.NewExtractionError("no JSON object in model output", "blah"),
	}
	store := &fakeStore{}
	obs := newFakeObs()
	p := New(extractor, store, obs, Config{})

	resp, err := p.Handle(context.Background(), domain.ChatRequest{Message: "??", Locale: "en"})
	if err != nil {
		t.Fatalf("lenient mode must not surface extraction errors, got %v", err)
	}
	if resp.Answer != "I didn't understand the question. Try for instance: 'Are all sensors connected?'" {
		t.Fatalf("unexpected answer: %q", resp.Answer)
	}
	if obs.counters["icare_intent_extraction_failures_total"] != 1 {
		t.Fatalf("extraction failure counter not incremented")
	}
	if store.calls != 0 {
		t.Fatalf("degraded request must not touch the store")
	}
}

func TestHandleStrictExtractionSurfacesError(t *testing.T) {
	wantErr := ports.NewExtractionError("invalid JSON: io", "{{{")
	extractor := &fakeExtractor{
		result: domain.IntentResult{Intent: domain.IntentUnknown},
		err:    wantErr,
	}
	obs := newFakeObs()
	p := New(extractor, &fakeStore{}, obs, Config{StrictExtraction: true})

	_, err := p.Handle(context.Background(), domain.ChatRequest{Message: "??"})
	if err == nil {
		t.Fatalf("strict mode must surface the extraction error")
	}
	var extractionErr *ports.ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("expected *ports.ExtractionError, got %T", err)
	}
}

func TestHandleTransportFailureLogsInLenientMode(t *testing.T) {
	extractor := &fakeExtractor{
		result: domain.IntentResult{Intent: domain.IntentUnknown},
		err:    errors.New("model completion: connection refused"),
	}
	obs := newFakeObs()
	p := New(extractor, &fakeStore{}, obs, Config{})

	if _, err := p.Handle(context.Background(), domain.ChatRequest{Message: "?"}); err != nil {
		t.Fatalf("lenient mode must degrade, got %v", err)
	}
	if len(obs.errors) != 1 || obs.errors[0] != "intent_extraction_failed" {
		t.Fatalf("expected one intent_extraction_failed log, got %v", obs.errors)
	}
}

func TestHandleStoreFailurePropagates(t *testing.T) {
	extractor := &fakeExtractor{result: domain.IntentResult{Intent: domain.IntentCheckConnectivity}}
	store := &fakeStore{err: errors.New("connection reset")}
	obs := newFakeObs()
	p := New(extractor, store, obs, Config{})

	_, err := p.Handle(context.Background(), domain.ChatRequest{Message: "tous connectés ?"})
	if err == nil {
		t.Fatalf("store failures must surface")
	}
	if len(obs.errors) != 1 || obs.errors[0] != "site_status_failed" {
		t.Fatalf("expected one site_status_failed log, got %v", obs.errors)
	}
}

var (
	_ ports.IntentExtractor = (*fakeExtractor)(nil)
	_ ports.SensorStore     = (*fakeStore)(nil)
	_ ports.Observability   = (*fakeObs)(nil)
)
