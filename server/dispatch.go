package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonwraymond/datadog-mcp/observe"
	"github.com/jonwraymond/datadog-mcp/tools"
)

// Server identity reported from initialize.
const (
	ServerName    = "datadog-mcp-server"
	ServerVersion = "0.1.0"
)

// Router runs named tools. *tools.Router implements it.
type Router interface {
	Tools() []tools.Tool
	Has(name string) bool
	Call(ctx context.Context, name string, arguments json.RawMessage) (any, error)
}

var _ Router = (*tools.Router)(nil)

// Protocol methods.
const (
	MethodInitialize              = "initialize"
	MethodInitialized             = "initialized"
	MethodNotificationInitialized = "notifications/initialized"
	MethodToolsList               = "tools/list"
	MethodToolsCall               = "tools/call"
	MethodPromptsList             = "prompts/list"
	MethodResourcesList           = "resources/list"
	MethodShutdown                = "shutdown"
	MethodExit                    = "exit"
	MethodCancelled               = "notifications/cancelled"
	MethodProgress                = "notifications/progress"
)

type initializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	ServerInfo      serverInfo     `json:"serverInfo"`
	Capabilities    map[string]any `json:"capabilities"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ToolResult is the tools/call result envelope.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

// Content is one block of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

var errMissingProtocolVersion = errors.New("missing field `protocolVersion`")

// dispatch handles one parsed request. It returns nil for methods that are
// never answered. A panic is reported as an internal error.
func (e *Engine) dispatch(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error(ctx, "panic in request handler",
				observe.F("method", req.Method),
				observe.F("panic", fmt.Sprint(r)),
			)
			resp = newError(req.ID, CodeInternalError, "Internal error", nil)
		}
	}()

	switch req.Method {
	case MethodInitialize:
		return e.initialize(req)
	case MethodInitialized, MethodNotificationInitialized:
		e.session.MarkInitialized()
		e.logger.Info(ctx, "session initialized")
		return nil
	case MethodToolsList:
		if !e.session.Initialized() {
			return notInitialized(req.ID)
		}
		return newResult(req.ID, map[string]any{"tools": e.router.Tools()})
	case MethodToolsCall:
		if !e.session.Initialized() {
			return notInitialized(req.ID)
		}
		return e.callTool(ctx, req)
	case MethodPromptsList:
		return newResult(req.ID, map[string]any{"prompts": []any{}})
	case MethodResourcesList:
		return newResult(req.ID, map[string]any{"resources": []any{}})
	case MethodShutdown:
		return newResult(req.ID, struct{}{})
	case MethodExit, MethodCancelled, MethodProgress:
		return nil
	default:
		return newError(req.ID, CodeMethodNotFound, "Method not found: "+req.Method, nil)
	}
}

func (e *Engine) initialize(req *Request) *Response {
	if isNull(req.Params) {
		return newError(req.ID, CodeInvalidParams, "Missing params", nil)
	}
	params, err := members(req.Params)
	if err != nil {
		return invalidParams(req.ID, err)
	}

	var version string
	found := false
	for _, key := range []string{"protocolVersion", "protocol_version"} {
		v, ok, err := stringMember(params, key)
		if err != nil {
			return invalidParams(req.ID, err)
		}
		if ok {
			version, found = v, true
			break
		}
	}
	if !found {
		return invalidParams(req.ID, errMissingProtocolVersion)
	}

	return newResult(req.ID, initializeResult{
		ProtocolVersion: version,
		ServerInfo:      serverInfo{Name: ServerName, Version: ServerVersion},
		Capabilities:    map[string]any{"tools": map[string]any{}},
	})
}

func (e *Engine) callTool(ctx context.Context, req *Request) *Response {
	if isNull(req.Params) {
		return newError(req.ID, CodeInvalidParams, "Missing params", nil)
	}
	params, err := members(req.Params)
	if err != nil {
		return invalidParams(req.ID, err)
	}
	// A non-string name is treated as missing.
	name, _, _ := stringMember(params, "name")
	if name == "" {
		return newError(req.ID, CodeInvalidParams, "Missing tool name", nil)
	}
	if !e.router.Has(name) {
		return newError(req.ID, CodeInvalidParams, "Unknown tool: "+name, nil)
	}

	result, err := e.router.Call(ctx, name, params["arguments"])
	if err != nil {
		return newResult(req.ID, ToolResult{
			Content: []Content{{Type: "text", Text: "Error: " + err.Error()}},
			IsError: true,
		})
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return newResult(req.ID, ToolResult{
			Content: []Content{{Type: "text", Text: "Error: " + err.Error()}},
			IsError: true,
		})
	}
	return newResult(req.ID, ToolResult{
		Content: []Content{{Type: "text", Text: string(text)}},
	})
}

func notInitialized(id json.RawMessage) *Response {
	return newError(id, CodeNotInitialized, "Server not initialized", nil)
}

func invalidParams(id json.RawMessage, err error) *Response {
	return newError(id, CodeInvalidParams, "Invalid params: "+err.Error(), nil)
}
