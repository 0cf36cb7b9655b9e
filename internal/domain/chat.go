package domain

// Intent classifies what the caller wants from the chat service.
type Intent string

const (
	IntentCheckConnectivity Intent = "check_connectivity"
	IntentListDisconnected  Intent = "list_disconnected"
	IntentUnknown           Intent = "unknown"
)

// ParseIntent maps a raw label onto a known Intent. Anything unrecognized is
// coerced to IntentUnknown rather than rejected.
func ParseIntent(raw string) Intent {
	switch Intent(raw) {
	case IntentCheckConnectivity, IntentListDisconnected:
		return Intent(raw)
	default:
		return IntentUnknown
	}
}

// NeedsData reports whether answering this intent requires a fleet-status query.
func (i Intent) NeedsData() bool {
	return i == IntentCheckConnectivity || i == IntentListDisconnected
}

// Locale selects the answer language.
type Locale string

const (
	LocaleFR Locale = "fr"
	LocaleEN Locale = "en"
)

// ParseLocale maps a raw locale tag onto a supported Locale. French is the
// fallback for anything unrecognized.
func ParseLocale(raw string) Locale {
	if raw == string(LocaleEN) {
		return LocaleEN
	}
	return LocaleFR
}

// IntentResult is the structured reading of one user utterance. Organization
// is empty when the message names no organization; the pipeline substitutes
// its configured default.
type IntentResult struct {
	Intent       Intent
	Organization string
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
	Locale  string `json:"locale,omitempty"`
}

// ChatResponse carries the composed answer back to the caller.
type ChatResponse struct {
	Answer string `json:"answer"`
}
