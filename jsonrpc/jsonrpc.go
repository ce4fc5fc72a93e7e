// Package jsonrpc provides the JSON-RPC 2.0 envelope shared by the tool
// gateway and its clients.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the only protocol version emitted.
const Version = "2.0"

// JSON-RPC 2.0 error codes.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
)

var nullID = json.RawMessage("null")

// Request is an incoming JSON-RPC 2.0 request. ID is kept as raw bytes so it
// can be echoed back exactly as the caller sent it.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewRequest builds an outbound request. params may be nil.
func NewRequest(id any, method string, params any) (*Request, error) {
	rawID, err := json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("marshalling id: %w", err)
	}
	req := &Request{JSONRPC: Version, ID: rawID, Method: method}
	if params != nil {
		rawParams, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshalling params: %w", err)
		}
		req.Params = rawParams
	}
	return req, nil
}

// Response is an outgoing JSON-RPC 2.0 response. Exactly one of Result or
// Error is serialized.
type Response struct {
	JSONRPC string
	ID      json.RawMessage
	Result  any
	Error   *Error
}

// Error carries error information in a JSON-RPC response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// MarshalJSON writes the envelope with "id" always present (null when the
// request carried none) and exactly one of "result" or "error".
func (r Response) MarshalJSON() ([]byte, error) {
	id := r.ID
	if len(id) == 0 {
		id = nullID
	}
	version := r.JSONRPC
	if version == "" {
		version = Version
	}

	if r.Error != nil {
		return json.Marshal(struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      json.RawMessage `json:"id"`
			Error   *Error          `json:"error"`
		}{version, id, r.Error})
	}

	result := r.Result
	if result == nil {
		result = struct{}{}
	}
	return json.Marshal(struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  any             `json:"result"`
	}{version, id, result})
}

// RawResponse is the client-side view of a response, with the result left
// undecoded.
type RawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResponse creates a successful JSON-RPC 2.0 response.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error JSON-RPC 2.0 response.
func NewErrorResponse(id json.RawMessage, code int, msg string) *Response {
	return &Response{
		JSONRPC: Version,
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: msg,
		},
	}
}

// NewErrorResponseWithData creates an error response carrying extra data.
func NewErrorResponseWithData(id json.RawMessage, code int, msg string, data any) *Response {
	resp := NewErrorResponse(id, code, msg)
	resp.Error.Data = data
	return resp
}
