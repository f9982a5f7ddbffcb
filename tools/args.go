package tools

import (
	"bytes"
	"encoding/json"
)

// Args is the argument object of a tool call. Values stay raw until a
// handler asks for them with a type; a value of the wrong JSON type reads
// the same as an absent one.
type Args map[string]json.RawMessage

// ParseArgs decodes the arguments of a tools/call request. Absent, null and
// non-object arguments all yield an empty Args.
func ParseArgs(raw json.RawMessage) Args {
	var args Args
	if len(raw) == 0 || json.Unmarshal(raw, &args) != nil || args == nil {
		return Args{}
	}
	return args
}

func (a Args) lookup(key string) (json.RawMessage, bool) {
	v, ok := a[key]
	if !ok || isNull(v) {
		return nil, false
	}
	return v, true
}

func isNull(v json.RawMessage) bool {
	return len(bytes.TrimSpace(v)) == 0 || string(bytes.TrimSpace(v)) == "null"
}

// Has reports whether key is present and not null.
func (a Args) Has(key string) bool {
	_, ok := a.lookup(key)
	return ok
}

// String returns key as a string.
func (a Args) String(key string) (string, bool) {
	v, ok := a.lookup(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// StringOr returns key as a string, or def.
func (a Args) StringOr(key, def string) string {
	if s, ok := a.String(key); ok {
		return s
	}
	return def
}

// Require returns key as a string or an invalid input error naming it.
func (a Args) Require(key string) (string, error) {
	s, ok := a.String(key)
	if !ok {
		return "", missingParam(key)
	}
	return s, nil
}

// Int64 returns key as an integer. Fractional numbers do not match.
func (a Args) Int64(key string) (int64, bool) {
	v, ok := a.lookup(key)
	if !ok {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(v, &n); err != nil {
		return 0, false
	}
	return n, true
}

// IntOr returns key as an int, or def.
func (a Args) IntOr(key string, def int) int {
	if n, ok := a.Int64(key); ok {
		return int(n)
	}
	return def
}

// Count returns key as a non-negative int, or def when it is absent or
// negative.
func (a Args) Count(key string, def int) int {
	if n, ok := a.Int64(key); ok && n >= 0 {
		return int(n)
	}
	return def
}

// Bool returns key as a boolean.
func (a Args) Bool(key string) (bool, bool) {
	v, ok := a.lookup(key)
	if !ok {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(v, &b); err != nil {
		return false, false
	}
	return b, true
}

// Object returns key as a nested argument object.
func (a Args) Object(key string) (Args, bool) {
	v, ok := a.lookup(key)
	if !ok {
		return nil, false
	}
	var obj Args
	if err := json.Unmarshal(v, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// Objects returns key as an array of argument objects. Elements that are not
// objects read as empty objects.
func (a Args) Objects(key string) ([]Args, bool) {
	v, ok := a.lookup(key)
	if !ok {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, false
	}
	out := make([]Args, 0, len(items))
	for _, item := range items {
		out = append(out, ParseArgs(item))
	}
	return out, true
}

func optString(a Args, key string) *string {
	if s, ok := a.String(key); ok {
		return &s
	}
	return nil
}

func optInt(a Args, key string) *int {
	if n, ok := a.Int64(key); ok {
		v := int(n)
		return &v
	}
	return nil
}
