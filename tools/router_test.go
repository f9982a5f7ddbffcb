package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/datadog-mcp/observe"
)

type recordingMetrics struct {
	mu    sync.Mutex
	calls []string
	errs  int
}

func (m *recordingMetrics) RecordExecution(_ context.Context, meta observe.ToolMeta, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, meta.Name)
	if err != nil {
		m.errs++
	}
}

func (m *recordingMetrics) RecordRetry(context.Context, string) {}
func (m *recordingMetrics) RecordSweep(context.Context, int)    {}

func TestRouter_CatalogMatchesHandlers(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler(), nil)
	r := NewRouter(env.Client, env.Cache)

	tools := r.Tools()
	if len(tools) != 13 {
		t.Fatalf("len(Tools()) = %d, want 13", len(tools))
	}
	seen := make(map[string]bool)
	for _, tool := range tools {
		if seen[tool.Name] {
			t.Errorf("duplicate tool %q", tool.Name)
		}
		seen[tool.Name] = true
		if !r.Has(tool.Name) {
			t.Errorf("catalog tool %q has no handler", tool.Name)
		}
		if tool.InputSchema.Type != "object" || tool.Description == "" {
			t.Errorf("tool %q has incomplete definition", tool.Name)
		}
		for _, req := range tool.InputSchema.Required {
			if _, ok := tool.InputSchema.Properties[req]; !ok {
				t.Errorf("tool %q requires undeclared property %q", tool.Name, req)
			}
		}
	}
	if len(handlers) != len(tools) {
		t.Errorf("handlers = %d, catalog = %d", len(handlers), len(tools))
	}
	if r.Has("datadog_unknown_tool") {
		t.Error("Has(unknown) = true")
	}
}

func TestRouter_TagFilterDescription(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler(), strPtr("env:,service:"))
	r := NewRouter(env.Client, env.Cache)

	data, err := json.Marshal(r.Tools())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Current default: 'env:,service:'") {
		t.Error("tag_filter description should show the configured default")
	}

	env = newTestEnv(t, http.NotFoundHandler(), nil)
	data, _ = json.Marshal(NewRouter(env.Client, env.Cache).Tools())
	if !strings.Contains(string(data), "Current default: '*'") {
		t.Error("tag_filter description should default to '*'")
	}
}

func TestRouter_CallUnknownTool(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler(), nil)
	r := NewRouter(env.Client, env.Cache)

	_, err := r.Call(context.Background(), "datadog_unknown_tool", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("Call() error = %v, want ErrUnknownTool", err)
	}
}

func TestRouter_CallIsInstrumented(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/dashboard", jsonHandler(`{"dashboards": []}`))
	env := newTestEnv(t, mux, nil)

	metrics := &recordingMetrics{}
	mw := observe.NewMiddleware(nil, metrics, nil)
	r := NewRouter(env.Client, env.Cache, WithMiddleware(mw), WithClock(func() time.Time { return testNow }))

	res, err := r.Call(context.Background(), "datadog_dashboards_list", json.RawMessage(`{"page_size": 5}`))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if pg := roundTrip(t, res)["pagination"].(map[string]any); pg["page_size"].(float64) != 5 {
		t.Errorf("pagination = %v", pg)
	}

	if _, err := r.Call(context.Background(), "datadog_monitors_get", json.RawMessage(`{}`)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Call() error = %v, want ErrInvalidInput", err)
	}

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	if len(metrics.calls) != 2 || metrics.calls[0] != "datadog_dashboards_list" {
		t.Errorf("recorded calls = %v", metrics.calls)
	}
	if metrics.errs != 1 {
		t.Errorf("recorded errors = %d, want 1", metrics.errs)
	}
}
