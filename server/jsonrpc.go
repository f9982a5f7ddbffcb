package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
)

// JSONRPCVersion is the protocol version stamped on every response.
const JSONRPCVersion = "2.0"

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
	CodeNotInitialized = -32002
)

// Request is an inbound JSON-RPC message.
type Request struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// IsNotification reports whether the request has no id (or a null id) and
// so must not be answered.
func (r *Request) IsNotification() bool {
	return isNull(r.ID)
}

// Response is an outbound JSON-RPC message. Exactly one of Result and Error
// is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// Error is a JSON-RPC error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

func newResult(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: JSONRPCVersion, Result: result, ID: id}
}

func newError(id json.RawMessage, code int, message string, data any) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	}
}

var errMissingMethod = errors.New("missing field `method`")

// members decodes a JSON object into its members. Keys are matched exactly,
// unlike struct decoding.
func members(data []byte) (map[string]json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.New("expected a JSON object")
	}
	return m, nil
}

// stringMember returns the string value of key. ok is false when key is
// absent or null; err is set when the value is not a string.
func stringMember(m map[string]json.RawMessage, key string) (v string, ok bool, err error) {
	raw, present := m[key]
	if !present || isNull(raw) {
		return "", false, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false, fmt.Errorf("invalid field `%s`: %w", key, err)
	}
	return v, true, nil
}

// ParseRequest decodes one line into a Request. Only the exact member names
// jsonrpc, method, params and id are recognized.
func ParseRequest(line []byte) (*Request, error) {
	m, err := members(line)
	if err != nil {
		return nil, err
	}
	method, ok, err := stringMember(m, "method")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errMissingMethod
	}
	version, _, err := stringMember(m, "jsonrpc")
	if err != nil {
		return nil, err
	}
	return &Request{
		JSONRPC: version,
		Method:  method,
		Params:  m["params"],
		ID:      m["id"],
	}, nil
}

// RecoverID extracts the id of a message that failed to parse as a request.
// It scans the tokens of a possibly truncated line for a top-level "id"
// member with a string, number or null value. A null id is returned as
// "null" so the parse error is still reported.
func RecoverID(line []byte) (json.RawMessage, bool) {
	return scanID(line)
}

func scanID(line []byte) (json.RawMessage, bool) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, false
		}
		if key != "id" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, false
			}
			continue
		}
		val, err := dec.Token()
		if err != nil {
			return nil, false
		}
		switch val.(type) {
		case string, json.Number, nil:
			id, err := json.Marshal(val)
			if err != nil {
				return nil, false
			}
			return id, true
		default:
			return nil, false
		}
	}
	return nil, false
}

func isNull(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// Writer writes newline-delimited JSON messages. It is safe for concurrent
// use; each message is written and flushed as one line.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteMessage encodes v and writes it followed by a newline.
func (w *Writer) WriteMessage(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("server: encode message: %w", err)
	}
	data = append(data, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("server: write message: %w", err)
	}
	if f, ok := w.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("server: flush: %w", err)
		}
	}
	return nil
}
