package intent

import (
	"context"
	"strings"

	"github.com/Mathieu1704/icare-mvp/internal/domain"
	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

// PatternExtractor classifies messages with fixed bilingual keyword rules.
// It never errors and never extracts an organization; callers fall back to
// their configured default.
type PatternExtractor struct{}

func NewPatternExtractor() *PatternExtractor { return &PatternExtractor{} }

func (p *PatternExtractor) Name() string { return "pattern" }

type rule struct {
	intent domain.Intent
	groups [][]string
}

// Each group must match at least one alternative. The list_disconnected rule
// sits first because "déconnectés"/"disconnected" contain the connectivity
// keywords as substrings; first match wins.
var rules = []rule{
	{
		intent: domain.IntentListDisconnected,
		groups: [][]string{
			{"liste", "list"},
			{"déconnecté", "deconnecte", "disconnected"},
		},
	},
	{
		intent: domain.IntentCheckConnectivity,
		groups: [][]string{
			{"tous", "all"},
			{"connecté", "connecte", "connected"},
		},
	},
}

func (r rule) matches(msg string) bool {
	for _, alternatives := range r.groups {
		matched := false
		for _, kw := range alternatives {
			if strings.Contains(msg, kw) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func (p *PatternExtractor) Extract(_ context.Context, message string) (domain.IntentResult, error) {
	msg := strings.ToLower(message)
	for _, r := range rules {
		if r.matches(msg) {
			return domain.IntentResult{Intent: r.intent}, nil
		}
	}
	return domain.IntentResult{Intent: domain.IntentUnknown}, nil
}

var _ ports.IntentExtractor = (*PatternExtractor)(nil)
