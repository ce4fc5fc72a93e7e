package runtime

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/initializ/bosun/llm"
)

// Error codes surfaced by the chat bridge.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidProvider = "INVALID_PROVIDER"
	CodeProviderError   = "AI_PROVIDER_ERROR"
	CodeInternalError   = "AI_INTERNAL_ERROR"
)

// RequestError is a caller input error.
type RequestError struct {
	Code    string
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// RoundLimitError reports a conversation that used every allowed provider
// round without a final answer.
type RoundLimitError struct {
	MaxRounds int
}

func (e *RoundLimitError) Error() string {
	return fmt.Sprintf("tool round limit reached without a final answer (max_tool_rounds=%d)", e.MaxRounds)
}

// Classification is the externally visible form of an error.
type Classification struct {
	Code    string
	Status  int
	Message string
	TraceID string
}

// Classify maps err to a stable code, an HTTP status and a bounded message.
// Unrecognized errors get a fresh correlation id which is part of the
// message.
func Classify(err error) Classification {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return Classification{Code: reqErr.Code, Status: http.StatusBadRequest, Message: llm.Sanitize(reqErr.Message)}
	}

	if errors.Is(err, llm.ErrUnknownProvider) {
		return Classification{Code: CodeInvalidProvider, Status: http.StatusBadRequest, Message: llm.Sanitize(err.Error())}
	}

	var provErr *llm.ProviderError
	if errors.As(err, &provErr) {
		status := provErr.Status
		if status == 0 {
			status = http.StatusBadGateway
		}
		return Classification{
			Code:    CodeProviderError,
			Status:  status,
			Message: llm.Sanitize(provErr.Error()),
			TraceID: provErr.TraceID,
		}
	}

	var roundErr *RoundLimitError
	if errors.As(err, &roundErr) {
		return Classification{Code: CodeProviderError, Status: http.StatusBadGateway, Message: roundErr.Error()}
	}

	traceID := uuid.NewString()
	detail := ""
	if err != nil {
		detail = llm.Sanitize(err.Error())
	}
	return Classification{
		Code:    CodeInternalError,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("internal AI error [traceId=%s, detail=%s]", traceID, detail),
		TraceID: traceID,
	}
}
