package llm

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// MaxMessageLength bounds upstream text included in error messages.
const MaxMessageLength = 700

const truncatedMarker = "...(truncated)"

// Sanitize collapses line breaks, trims s and caps it at MaxMessageLength
// characters followed by a truncation marker.
func Sanitize(s string) string {
	compact := strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
	runes := []rune(compact)
	if len(runes) <= MaxMessageLength {
		return compact
	}
	return string(runes[:MaxMessageLength]) + truncatedMarker
}

// SummarizeEndpoint reduces a URL to scheme://host/path so query strings
// (and any secrets in them) never reach error messages.
func SummarizeEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		if endpoint == "" {
			return "unknown"
		}
		return endpoint
	}
	return u.Scheme + "://" + u.Hostname() + u.Path
}

// ProviderError is a failure talking to an LLM provider. Status is the HTTP
// status the chat bridge answers with.
type ProviderError struct {
	Provider       ProviderName
	Status         int
	TraceID        string
	Endpoint       string
	UpstreamStatus int
	Body           string
	Err            error
	msg            string
}

// NewConfigError reports a provider that cannot be called because its
// configuration is incomplete.
func NewConfigError(p ProviderName, msg string) *ProviderError {
	return &ProviderError{Provider: p, Status: http.StatusInternalServerError, msg: msg}
}

func (e *ProviderError) Error() string {
	switch {
	case e.msg != "":
		return e.msg
	case e.Err != nil:
		return fmt.Sprintf("AI provider call failed [traceId=%s, endpoint=%s, exception=%T, detail=%s]",
			e.TraceID, e.Endpoint, e.Err, Sanitize(e.Err.Error()))
	default:
		return fmt.Sprintf("AI provider error [traceId=%s, endpoint=%s, upstreamStatus=%d, response=%s]",
			e.TraceID, e.Endpoint, e.UpstreamStatus, Sanitize(e.Body))
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }
