package builtins

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/initializ/bosun/security"
	"github.com/initializ/bosun/tools"
)

func testConfig(url string) Config {
	return Config{
		APIBaseURL: url,
		Whitelist:  security.DefaultWhitelist(),
		Timeout:    5 * time.Second,
	}
}

func TestRegisterAll(t *testing.T) {
	reg := tools.NewRegistry()
	if err := RegisterAll(reg, testConfig("http://127.0.0.1:1")); err != nil {
		t.Fatalf("RegisterAll error: %v", err)
	}

	names := reg.List()
	if len(names) != 2 || names[0] != ListAPIResourcesName || names[1] != CallAPIResourceName {
		t.Errorf("registered tools = %v", names)
	}
}

func TestGetByName(t *testing.T) {
	tool := GetByName(testConfig(""), CallAPIResourceName)
	if tool == nil {
		t.Fatal("expected non-nil tool")
	}
	if tool.Name() != CallAPIResourceName {
		t.Errorf("name: got %q", tool.Name())
	}

	if GetByName(testConfig(""), "nonexistent") != nil {
		t.Error("expected nil for nonexistent tool")
	}
}

func TestListAPIResources(t *testing.T) {
	tool := GetByName(testConfig(""), ListAPIResourcesName)
	res, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(res.Content) != 1 || res.Content[0].Type != "text" {
		t.Fatalf("content = %+v", res.Content)
	}

	var out struct {
		Resources []string `json:"resources"`
	}
	if err := json.Unmarshal([]byte(res.Content[0].Text), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Resources) != len(security.DefaultRoots) {
		t.Errorf("got %d resources, want %d", len(out.Resources), len(security.DefaultRoots))
	}
}

func TestCallAPIResource_GetWithQuery(t *testing.T) {
	var gotPath, gotQuery, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"nom":"Dupont"}]`)) //nolint:errcheck
	}))
	defer ts.Close()

	tool := GetByName(testConfig(ts.URL), CallAPIResourceName)
	args, _ := json.Marshal(map[string]any{
		"method": "get",
		"path":   "/clients/search",
		"query":  map[string]any{"q": "du pont", "limit": 10},
	})

	res, err := tool.Execute(context.Background(), args)
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if gotPath != "/clients/search" {
		t.Errorf("path: got %q", gotPath)
	}
	if gotQuery != "limit=10&q=du+pont" {
		t.Errorf("query: got %q", gotQuery)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept: got %q", gotAccept)
	}
	if res.IsError {
		t.Error("expected isError false")
	}

	payload, ok := res.StructuredContent.(APIResponse)
	if !ok {
		t.Fatalf("structured content type %T", res.StructuredContent)
	}
	if payload.Status != 200 || payload.Method != "GET" || payload.Path != "/clients/search" {
		t.Errorf("payload = %+v", payload)
	}
	if _, ok := payload.Body.([]any); !ok {
		t.Errorf("body should be parsed JSON, got %T", payload.Body)
	}
	if !strings.Contains(res.Content[0].Text, `"nom":"Dupont"`) {
		t.Errorf("text = %s", res.Content[0].Text)
	}
}

func TestCallAPIResource_PostDefaultsBody(t *testing.T) {
	var gotBody, gotType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	tool := GetByName(testConfig(ts.URL), CallAPIResourceName)
	res, err := tool.Execute(context.Background(), json.RawMessage(`{"method":"POST","path":"/clients"}`))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if gotBody != "{}" {
		t.Errorf("body: got %q", gotBody)
	}
	if gotType != "application/json" {
		t.Errorf("content-type: got %q", gotType)
	}
	payload := res.StructuredContent.(APIResponse)
	if payload.Status != http.StatusCreated || payload.Body != "" {
		t.Errorf("payload = %+v", payload)
	}

	res, err = tool.Execute(context.Background(), json.RawMessage(`{"method":"PUT","path":"/clients/3","body":{"nom":"Martin"}}`))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if gotBody != `{"nom":"Martin"}` {
		t.Errorf("body: got %q", gotBody)
	}
}

func TestCallAPIResource_UpstreamErrorIsData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("client introuvable")) //nolint:errcheck
	}))
	defer ts.Close()

	tool := GetByName(testConfig(ts.URL), CallAPIResourceName)
	res, err := tool.Execute(context.Background(), json.RawMessage(`{"method":"DELETE","path":"/clients/99"}`))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !res.IsError {
		t.Error("expected isError for 404")
	}
	payload := res.StructuredContent.(APIResponse)
	if payload.Status != 404 || payload.Body != "client introuvable" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestCallAPIResource_EncodedPathForwarded(t *testing.T) {
	var gotRaw string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRaw = r.URL.EscapedPath()
		w.Write([]byte(`{}`)) //nolint:errcheck
	}))
	defer ts.Close()

	tool := GetByName(testConfig(ts.URL), CallAPIResourceName)
	res, err := tool.Execute(context.Background(), json.RawMessage(`{"method":"GET","path":"/clients/search/Jean%20Dupont"}`))
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if gotRaw != "/clients/search/Jean%20Dupont" {
		t.Errorf("escaped path: got %q", gotRaw)
	}
	if payload := res.StructuredContent.(APIResponse); payload.Path != "/clients/search/Jean%20Dupont" {
		t.Errorf("payload path = %q", payload.Path)
	}
}

func TestCallAPIResource_ArgumentErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	tool := GetByName(testConfig(ts.URL), CallAPIResourceName)
	tests := []struct {
		name string
		args string
		want string
	}{
		{"missing method", `{"path":"/clients"}`, "'method' is required"},
		{"missing path", `{"method":"GET"}`, "'path' is required"},
		{"bad method", `{"method":"PATCH","path":"/clients"}`, "Unsupported method: PATCH"},
		{"relative path", `{"method":"GET","path":"clients"}`, "must start with '/'"},
		{"not whitelisted", `{"method":"GET","path":"/admin"}`, "not allowed"},
		{"prefix trick", `{"method":"GET","path":"/users-extra"}`, "not allowed"},
		{"dot segment", `{"method":"GET","path":"/clients/../admin"}`, "not allowed"},
		{"encoded dot segment", `{"method":"GET","path":"/clients/%2e%2e/admin"}`, "not allowed"},
		{"encoded dot segment upper", `{"method":"GET","path":"/clients/%2E%2E/admin"}`, "not allowed"},
		{"half encoded dot segment", `{"method":"GET","path":"/clients/.%2e/admin"}`, "not allowed"},
		{"encoded single dot", `{"method":"GET","path":"/clients/%2e/3"}`, "not allowed"},
		{"encoded slash", `{"method":"GET","path":"/clients%2F..%2Fadmin"}`, "not allowed"},
		{"encoded backslash", `{"method":"GET","path":"/clients/..%5cadmin"}`, "not allowed"},
		{"backslash", `{"method":"GET","path":"/clients\\..\\admin"}`, "not allowed"},
		{"bad escape", `{"method":"GET","path":"/clients/%zz"}`, "not allowed"},
		{"query in path", `{"method":"GET","path":"/clients/3?x=1"}`, "pass parameters in 'query'"},
		{"fragment in path", `{"method":"GET","path":"/clients#top"}`, "pass parameters in 'query'"},
		{"wrong type", `{"method":1,"path":"/clients"}`, "invalid arguments"},
		{"empty", ``, "'method' is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Execute(context.Background(), json.RawMessage(tt.args))
			var argErr *tools.ArgumentError
			if !errors.As(err, &argErr) {
				t.Fatalf("expected ArgumentError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.want)
			}
		})
	}
	if calls.Load() != 0 {
		t.Errorf("backend called %d times for rejected requests", calls.Load())
	}
}

func TestCallAPIResource_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	tool := GetByName(testConfig(url), CallAPIResourceName)
	_, err := tool.Execute(context.Background(), json.RawMessage(`{"method":"GET","path":"/clients"}`))
	if err == nil {
		t.Fatal("expected error")
	}
	var argErr *tools.ArgumentError
	if errors.As(err, &argErr) {
		t.Error("network failure must not be an ArgumentError")
	}
}

func TestParseBody(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"   ", ""},
		{"plain text", "plain text"},
		{`{"a":1}`, map[string]any{"a": json.Number("1")}},
		{`true`, true},
		{`{"a":1} trailing`, `{"a":1} trailing`},
		{`{"a":`, `{"a":`},
	}
	for _, tt := range tests {
		got := ParseBody([]byte(tt.in))
		gotJSON, _ := json.Marshal(got)
		wantJSON, _ := json.Marshal(tt.want)
		if string(gotJSON) != string(wantJSON) {
			t.Errorf("ParseBody(%q) = %s, want %s", tt.in, gotJSON, wantJSON)
		}
	}
}
