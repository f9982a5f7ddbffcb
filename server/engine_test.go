package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/datadog-mcp/observe"
	"github.com/jonwraymond/datadog-mcp/tools"
)

type fakeRouter struct {
	mu     sync.Mutex
	calls  []string
	args   []json.RawMessage
	result any
	err    error
}

func (r *fakeRouter) Tools() []tools.Tool {
	return []tools.Tool{
		{Name: "echo", Description: "Echo arguments", InputSchema: tools.Schema{Type: "object"}},
		{Name: "explode", Description: "Panics", InputSchema: tools.Schema{Type: "object"}},
	}
}

func (r *fakeRouter) Has(name string) bool {
	return name == "echo" || name == "explode"
}

func (r *fakeRouter) Call(_ context.Context, name string, arguments json.RawMessage) (any, error) {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.args = append(r.args, arguments)
	r.mu.Unlock()

	if name == "explode" {
		panic("handler exploded")
	}
	return r.result, r.err
}

func (r *fakeRouter) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type wireResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

func newTestEngine(t *testing.T, router Router) *Engine {
	t.Helper()
	e, err := NewEngine(Config{
		Router:    router,
		IdleDelay: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

// serveLines runs e over the given input lines and returns every response.
func serveLines(t *testing.T, e *Engine, lines ...string) []wireResponse {
	t.Helper()

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	if err := e.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var resps []wireResponse
	sc := bufio.NewScanner(&out)
	for sc.Scan() {
		var r wireResponse
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("output line %q is not JSON: %v", sc.Text(), err)
		}
		if r.JSONRPC != JSONRPCVersion {
			t.Errorf("jsonrpc = %q, want %q", r.JSONRPC, JSONRPCVersion)
		}
		resps = append(resps, r)
	}
	return resps
}

func TestNewEngine_RequiresRouter(t *testing.T) {
	if _, err := NewEngine(Config{}); !errors.Is(err, ErrNoRouter) {
		t.Fatalf("NewEngine() error = %v, want ErrNoRouter", err)
	}
}

func TestEngine_Initialize(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		version string
		code    int
	}{
		{name: "camel case", line: `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`, version: "2024-11-05"},
		{name: "snake case", line: `{"id":1,"method":"initialize","params":{"protocol_version":"2025-03-26"}}`, version: "2025-03-26"},
		{name: "missing params", line: `{"id":1,"method":"initialize"}`, code: CodeInvalidParams},
		{name: "null params", line: `{"id":1,"method":"initialize","params":null}`, code: CodeInvalidParams},
		{name: "missing version", line: `{"id":1,"method":"initialize","params":{}}`, code: CodeInvalidParams},
		{name: "bad params", line: `{"id":1,"method":"initialize","params":"x"}`, code: CodeInvalidParams},
		{name: "capitalized version key", line: `{"id":1,"method":"initialize","params":{"ProtocolVersion":"2024-11-05"}}`, code: CodeInvalidParams},
		{name: "non-string version", line: `{"id":1,"method":"initialize","params":{"protocolVersion":7}}`, code: CodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, &fakeRouter{})
			resps := serveLines(t, e, tt.line)
			if len(resps) != 1 {
				t.Fatalf("responses = %d, want 1", len(resps))
			}
			r := resps[0]

			if tt.code != 0 {
				if r.Error == nil || r.Error.Code != tt.code {
					t.Fatalf("error = %+v, want code %d", r.Error, tt.code)
				}
				return
			}
			if r.Error != nil {
				t.Fatalf("unexpected error %+v", r.Error)
			}
			var res initializeResult
			if err := json.Unmarshal(r.Result, &res); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if res.ProtocolVersion != tt.version {
				t.Errorf("protocolVersion = %q, want %q", res.ProtocolVersion, tt.version)
			}
			if res.ServerInfo.Name != ServerName || res.ServerInfo.Version != ServerVersion {
				t.Errorf("serverInfo = %+v", res.ServerInfo)
			}
			if _, ok := res.Capabilities["tools"]; !ok {
				t.Errorf("capabilities = %v, want tools", res.Capabilities)
			}
			if e.Session().Initialized() {
				t.Error("initialize alone marked the session initialized")
			}
		})
	}
}

func TestEngine_MissingParamsMessage(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	resps := serveLines(t, e, `{"id":1,"method":"initialize"}`)
	if got := resps[0].Error.Message; got != "Missing params" {
		t.Errorf("message = %q, want %q", got, "Missing params")
	}
}

func TestEngine_RejectsToolsBeforeInitialized(t *testing.T) {
	router := &fakeRouter{result: map[string]any{"ok": true}}
	e := newTestEngine(t, router)

	resps := serveLines(t, e,
		`{"id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`,
		`{"id":2,"method":"tools/list"}`,
		`{"id":3,"method":"tools/call","params":{"name":"echo","arguments":{}}}`,
	)
	if len(resps) != 3 {
		t.Fatalf("responses = %d, want 3", len(resps))
	}
	for _, r := range resps[1:] {
		if r.Error == nil || r.Error.Code != CodeNotInitialized {
			t.Errorf("id %s: error = %+v, want code %d", r.ID, r.Error, CodeNotInitialized)
			continue
		}
		if r.Error.Message != "Server not initialized" {
			t.Errorf("message = %q", r.Error.Message)
		}
	}
	if n := router.callCount(); n != 0 {
		t.Errorf("router called %d times before initialization", n)
	}
}

func TestEngine_ToolsListAndCall(t *testing.T) {
	for _, method := range []string{MethodInitialized, MethodNotificationInitialized} {
		t.Run(method, func(t *testing.T) {
			router := &fakeRouter{result: map[string]any{"value": 42}}
			e := newTestEngine(t, router)

			resps := serveLines(t, e,
				`{"method":"`+method+`"}`,
				`{"id":1,"method":"tools/list"}`,
				`{"id":2,"method":"tools/call","params":{"name":"echo","arguments":{"q":"x"}}}`,
			)
			if len(resps) != 2 {
				t.Fatalf("responses = %d, want 2 (notification must not be answered)", len(resps))
			}

			var list struct {
				Tools []tools.Tool `json:"tools"`
			}
			if err := json.Unmarshal(resps[0].Result, &list); err != nil {
				t.Fatalf("decode tools/list: %v", err)
			}
			if len(list.Tools) != 2 || list.Tools[0].Name != "echo" {
				t.Errorf("tools = %+v", list.Tools)
			}

			var res ToolResult
			if err := json.Unmarshal(resps[1].Result, &res); err != nil {
				t.Fatalf("decode tools/call: %v", err)
			}
			if res.IsError || len(res.Content) != 1 || res.Content[0].Type != "text" {
				t.Fatalf("result = %+v", res)
			}
			want := "{\n  \"value\": 42\n}"
			if res.Content[0].Text != want {
				t.Errorf("text = %q, want %q", res.Content[0].Text, want)
			}
			if string(router.args[0]) != `{"q":"x"}` {
				t.Errorf("arguments = %s", router.args[0])
			}
		})
	}
}

func TestEngine_ToolErrorIsSuccessfulEnvelope(t *testing.T) {
	router := &fakeRouter{err: errors.New("Invalid input: Missing 'query' parameter")}
	e := newTestEngine(t, router)

	resps := serveLines(t, e,
		`{"method":"initialized"}`,
		`{"id":"c1","method":"tools/call","params":{"name":"echo"}}`,
	)
	if len(resps) != 1 {
		t.Fatalf("responses = %d, want 1", len(resps))
	}
	r := resps[0]
	if r.Error != nil {
		t.Fatalf("tool failure reported as protocol error: %+v", r.Error)
	}
	if string(r.ID) != `"c1"` {
		t.Errorf("id = %s, want \"c1\"", r.ID)
	}
	var res ToolResult
	if err := json.Unmarshal(r.Result, &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.IsError || res.Content[0].Text != "Error: Invalid input: Missing 'query' parameter" {
		t.Errorf("result = %+v", res)
	}
}

func TestEngine_ToolsCallParamErrors(t *testing.T) {
	tests := []struct {
		name    string
		params  string
		message string
	}{
		{name: "missing params", params: ``, message: "Missing params"},
		{name: "missing name", params: `,"params":{"arguments":{}}`, message: "Missing tool name"},
		{name: "unknown tool", params: `,"params":{"name":"nope"}`, message: "Unknown tool: nope"},
		{name: "non-string name", params: `,"params":{"name":5}`, message: "Missing tool name"},
		{name: "null name", params: `,"params":{"name":null}`, message: "Missing tool name"},
		{name: "empty name", params: `,"params":{"name":""}`, message: "Missing tool name"},
		{name: "capitalized name key", params: `,"params":{"Name":"echo"}`, message: "Missing tool name"},
		{name: "non-object params", params: `,"params":"x"`, message: "Invalid params: "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := &fakeRouter{}
			e := newTestEngine(t, router)
			resps := serveLines(t, e,
				`{"method":"initialized"}`,
				`{"id":5,"method":"tools/call"`+tt.params+`}`,
			)
			if len(resps) != 1 || resps[0].Error == nil {
				t.Fatalf("responses = %+v, want one error", resps)
			}
			if resps[0].Error.Code != CodeInvalidParams {
				t.Errorf("code = %d, want %d", resps[0].Error.Code, CodeInvalidParams)
			}
			if !strings.HasPrefix(resps[0].Error.Message, tt.message) {
				t.Errorf("message = %q, want prefix %q", resps[0].Error.Message, tt.message)
			}
			if router.callCount() != 0 {
				t.Error("router was called")
			}
		})
	}
}

func TestEngine_FixedMethods(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	resps := serveLines(t, e,
		`{"id":1,"method":"prompts/list"}`,
		`{"id":2,"method":"resources/list"}`,
		`{"id":3,"method":"shutdown"}`,
		`{"id":4,"method":"exit"}`,
		`{"method":"notifications/cancelled","params":{"requestId":1}}`,
		`{"method":"notifications/progress"}`,
		`{"id":5,"method":"bogus/method"}`,
	)

	want := []struct {
		id     string
		result string
		code   int
	}{
		{id: "1", result: `{"prompts":[]}`},
		{id: "2", result: `{"resources":[]}`},
		{id: "3", result: `{}`},
		{id: "5", code: CodeMethodNotFound},
	}
	if len(resps) != len(want) {
		t.Fatalf("responses = %d, want %d", len(resps), len(want))
	}
	for i, w := range want {
		r := resps[i]
		if string(r.ID) != w.id {
			t.Errorf("[%d] id = %s, want %s", i, r.ID, w.id)
		}
		if w.code != 0 {
			if r.Error == nil || r.Error.Code != w.code {
				t.Errorf("[%d] error = %+v, want code %d", i, r.Error, w.code)
			} else if r.Error.Message != "Method not found: bogus/method" {
				t.Errorf("[%d] message = %q", i, r.Error.Message)
			}
			continue
		}
		if string(r.Result) != w.result {
			t.Errorf("[%d] result = %s, want %s", i, r.Result, w.result)
		}
	}
}

func TestEngine_NotificationsAreNeverAnswered(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	resps := serveLines(t, e,
		`{"method":"bogus/method"}`,
		`{"id":null,"method":"prompts/list"}`,
		`{"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`,
	)
	if len(resps) != 0 {
		t.Fatalf("responses = %+v, want none", resps)
	}
}

func TestEngine_ParseErrors(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	resps := serveLines(t, e,
		`this is not json`,
		`{"id": 7, "method": `,
		`   `,
		`{"id":8,"method":"shutdown"}`,
	)
	if len(resps) != 2 {
		t.Fatalf("responses = %d, want 2", len(resps))
	}
	r := resps[0]
	if string(r.ID) != "7" {
		t.Errorf("id = %s, want 7", r.ID)
	}
	if r.Error == nil || r.Error.Code != CodeParseError || r.Error.Message != "Parse error" {
		t.Fatalf("error = %+v, want parse error", r.Error)
	}
	data, ok := r.Error.Data.(map[string]any)
	if !ok || data["details"] == "" {
		t.Errorf("data = %v, want details", r.Error.Data)
	}
	if string(resps[1].ID) != "8" {
		t.Errorf("session did not continue after parse error: %+v", resps[1])
	}
}

func TestEngine_ParseErrorWithNullID(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	resps := serveLines(t, e, `{"id":null,"method":5}`)
	if len(resps) != 1 {
		t.Fatalf("responses = %d, want 1", len(resps))
	}
	if string(resps[0].ID) != "null" {
		t.Errorf("id = %s, want null", resps[0].ID)
	}
	if resps[0].Error == nil || resps[0].Error.Code != CodeParseError {
		t.Errorf("error = %+v, want parse error", resps[0].Error)
	}
}

func TestEngine_EnvelopeKeysAreCaseSensitive(t *testing.T) {
	router := &fakeRouter{}
	e := newTestEngine(t, router)
	resps := serveLines(t, e,
		`{"method":"initialized"}`,
		`{"METHOD":"tools/call","params":{"name":"echo"},"ID":3}`,
		`{"Method":"tools/call","Params":{"name":"echo"}}`,
	)
	if len(resps) != 0 {
		t.Errorf("responses = %+v, want none", resps)
	}
	if n := router.callCount(); n != 0 {
		t.Errorf("router calls = %d, want 0", n)
	}
}

func TestEngine_ArgumentsKeyIsCaseSensitive(t *testing.T) {
	router := &fakeRouter{}
	e := newTestEngine(t, router)
	serveLines(t, e,
		`{"method":"initialized"}`,
		`{"id":1,"method":"tools/call","params":{"name":"echo","Arguments":{"a":1}}}`,
	)
	if router.callCount() != 1 {
		t.Fatalf("router calls = %d, want 1", router.callCount())
	}
	router.mu.Lock()
	defer router.mu.Unlock()
	if router.args[0] != nil {
		t.Errorf("arguments = %s, want none", router.args[0])
	}
}

func TestEngine_PanicBecomesInternalError(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	resps := serveLines(t, e,
		`{"method":"initialized"}`,
		`{"id":1,"method":"tools/call","params":{"name":"explode"}}`,
		`{"id":2,"method":"shutdown"}`,
	)
	if len(resps) != 2 {
		t.Fatalf("responses = %d, want 2", len(resps))
	}
	if r := resps[0]; r.Error == nil || r.Error.Code != CodeInternalError || string(r.ID) != "1" {
		t.Errorf("response = %+v, want internal error for id 1", r)
	}
	if string(resps[1].Result) != "{}" {
		t.Errorf("session did not continue after panic: %+v", resps[1])
	}
}

func TestEngine_LastLineWithoutNewline(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	var out bytes.Buffer
	in := strings.NewReader(`{"id":1,"method":"shutdown"}`)
	if err := e.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.Count(out.String(), "\n"); got != 1 {
		t.Errorf("responses = %d, want 1", got)
	}
}

type failingWriter struct {
	writes atomic.Int32
}

func (w *failingWriter) Write([]byte) (int, error) {
	w.writes.Add(1)
	return 0, io.ErrClosedPipe
}

func TestEngine_WriteFailureEndsLoop(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	in := strings.NewReader("{\"id\":1,\"method\":\"shutdown\"}\n{\"id\":2,\"method\":\"shutdown\"}\n")
	out := &failingWriter{}

	if err := e.Run(context.Background(), in, out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if n := out.writes.Load(); n != 1 {
		t.Errorf("write attempts = %d, want 1", n)
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestEngine_ReadErrorIsReturned(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	boom := errors.New("device gone")

	err := e.Run(context.Background(), errReader{err: boom}, io.Discard)
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
}

// scriptedReader returns (0, io.EOF) eofs times, then one line, then EOF
// forever. It counts every Read call.
type scriptedReader struct {
	eofs  int
	line  string
	reads int
	sent  bool
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	r.reads++
	if r.reads <= r.eofs || r.sent {
		return 0, io.EOF
	}
	r.sent = true
	return copy(p, r.line), nil
}

func TestEngine_EmptyReadBudget(t *testing.T) {
	tests := []struct {
		name      string
		eofs      int
		answered  bool
		wantReads int
	}{
		// Three empty reads are tolerated; the line is served and then four
		// more empty reads end the loop.
		{name: "within budget", eofs: 3, answered: true, wantReads: 8},
		{name: "budget exhausted", eofs: 4, answered: false, wantReads: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, &fakeRouter{})
			in := &scriptedReader{eofs: tt.eofs, line: "{\"id\":1,\"method\":\"shutdown\"}\n"}
			var out bytes.Buffer

			if err := e.Run(context.Background(), in, &out); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := out.Len() > 0; got != tt.answered {
				t.Errorf("answered = %v, want %v (output %q)", got, tt.answered, out.String())
			}
			if in.reads != tt.wantReads {
				t.Errorf("reads = %d, want %d", in.reads, tt.wantReads)
			}
		})
	}
}

type countingSweeper struct {
	calls atomic.Int32
}

func (s *countingSweeper) SweepAll() int {
	s.calls.Add(1)
	return 2
}

type sweepMetrics struct {
	observe.Metrics
	mu      sync.Mutex
	removed []int
}

func (m *sweepMetrics) RecordSweep(_ context.Context, removed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, removed)
}

func (m *sweepMetrics) sweeps() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.removed...)
}

func TestEngine_SweeperRunsUntilInputEnds(t *testing.T) {
	sweeper := &countingSweeper{}
	metrics := &sweepMetrics{Metrics: observe.NopMetrics()}
	e, err := NewEngine(Config{
		Router:        &fakeRouter{},
		Sweeper:       sweeper,
		SweepInterval: 5 * time.Millisecond,
		IdleDelay:     time.Millisecond,
		Metrics:       metrics,
	})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	pr, pw := io.Pipe()
	done := make(chan error, 1)
	go func() {
		done <- e.Run(context.Background(), pr, io.Discard)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for sweeper.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("sweeper did not run")
		}
		time.Sleep(time.Millisecond)
	}
	_ = pw.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after input closed")
	}

	after := sweeper.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if sweeper.calls.Load() != after {
		t.Error("sweeper kept running after Run returned")
	}
	for _, n := range metrics.sweeps() {
		if n != 2 {
			t.Errorf("recorded sweep = %d, want 2", n)
		}
	}
	if len(metrics.sweeps()) < 2 {
		t.Errorf("recorded sweeps = %d, want >= 2", len(metrics.sweeps()))
	}
}

func TestEngine_ContextCancelStopsLoop(t *testing.T) {
	e := newTestEngine(t, &fakeRouter{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	in := strings.NewReader("{\"id\":1,\"method\":\"shutdown\"}\n")
	if err := e.Run(ctx, in, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want none after cancellation", out.String())
	}
}
