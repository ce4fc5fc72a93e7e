// Package server exposes the tool gateway and the chat bridge over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/initializ/bosun/gateway"
	"github.com/initializ/bosun/observability"
	"github.com/initializ/bosun/runtime"
)

const maxRequestBytes = 1 << 20

// ChatService answers chat bridge requests. runtime.Bridge satisfies it.
type ChatService interface {
	Chat(ctx context.Context, req runtime.ChatRequest) (*runtime.ChatResponse, error)
}

// Config configures the HTTP server.
type Config struct {
	Port    int
	CORS    bool
	Gateway *gateway.Gateway
	Chat    ChatService
	Metrics *observability.Metrics
	Logger  runtime.Logger
}

// Server serves POST /mcp, POST /ai/chat, GET /healthz and GET /metrics.
type Server struct {
	port    int
	cors    bool
	gateway *gateway.Gateway
	chat    ChatService
	metrics *observability.Metrics
	logger  runtime.Logger
	srv     *http.Server
}

// ChatError is the chat bridge failure body.
type ChatError struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Provider string `json:"provider,omitempty"`
	Status   int    `json:"status"`
}

// New creates a Server.
func New(cfg Config) *Server {
	return &Server{
		port:    cfg.Port,
		cors:    cfg.CORS,
		gateway: cfg.Gateway,
		chat:    cfg.Chat,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	if s.gateway != nil {
		mux.HandleFunc("POST /mcp", s.handleMCP)
	}
	if s.chat != nil {
		mux.HandleFunc("POST /ai/chat", s.handleChat)
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	var h http.Handler = mux
	if s.cors {
		h = corsMiddleware(h)
	}
	if s.logger != nil {
		h = accessLog(s.logger, h)
	}
	return h
}

// Start begins serving HTTP. It blocks until the context is cancelled or
// an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		// An unreadable body is answered like an unparsable one.
		body = nil
	}

	resp := s.gateway.Handle(r.Context(), body)
	if resp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req runtime.ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		s.writeChatError(w, runtime.Classification{
			Code:    runtime.CodeInvalidRequest,
			Status:  http.StatusBadRequest,
			Message: "Request body must be a JSON object with 'provider' and 'message'",
		}, "")
		return
	}

	resp, err := s.chat.Chat(r.Context(), req)
	if err != nil {
		c := runtime.Classify(err)
		s.logChatError(c, req.Provider, err)
		s.writeChatError(w, c, strings.TrimSpace(req.Provider))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeChatError(w http.ResponseWriter, c runtime.Classification, provider string) {
	s.metrics.RecordChatError(c.Code)
	writeJSON(w, c.Status, ChatError{
		Error:    c.Code,
		Message:  c.Message,
		Provider: provider,
		Status:   c.Status,
	})
}

func (s *Server) logChatError(c runtime.Classification, provider string, err error) {
	if s.logger == nil {
		return
	}
	fields := map[string]any{
		"code":     c.Code,
		"status":   c.Status,
		"provider": provider,
	}
	if c.TraceID != "" {
		fields["trace_id"] = c.TraceID
	}
	switch c.Code {
	case runtime.CodeInternalError:
		fields["error"] = err.Error()
		s.logger.Error("ai chat internal error", fields)
	case runtime.CodeProviderError:
		fields["detail"] = c.Message
		s.logger.Error("ai chat provider error", fields)
	default:
		fields["detail"] = c.Message
		s.logger.Warn("ai chat rejected", fields)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
