package cache

import (
	"errors"
	"strings"
	"testing"
)

func TestKey_DeterministicForMaps(t *testing.T) {
	map1 := map[string]any{"tags": "env:prod", "monitor_tags": nil, "page": 1}
	map2 := map[string]any{"page": 1, "tags": "env:prod", "monitor_tags": nil}

	key1, err := Key("monitors", map1)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	key2, err := Key("monitors", map2)
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	if key1 != key2 {
		t.Errorf("Keys should be equal for same content:\n  key1=%s\n  key2=%s", key1, key2)
	}
}

func TestKey_Format(t *testing.T) {
	key, err := Key("events", map[string]any{"start": 1, "end": 2})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}

	prefix, hash, ok := strings.Cut(key, ":")
	if !ok {
		t.Fatalf("Key() = %q, want endpoint:hash", key)
	}
	if prefix != "events" {
		t.Errorf("prefix = %q, want %q", prefix, "events")
	}
	if len(hash) != 16 {
		t.Errorf("hash length = %d, want 16", len(hash))
	}
}

func TestKey_DifferentParamsDiffer(t *testing.T) {
	tests := []struct {
		name string
		a, b any
	}{
		{"different values", map[string]any{"tags": "a"}, map[string]any{"tags": "b"}},
		{"null vs string", map[string]any{"tags": nil}, map[string]any{"tags": ""}},
		{"array order", map[string]any{"items": []any{1, 2}}, map[string]any{"items": []any{2, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, _ := Key("monitors", tt.a)
			kb, _ := Key("monitors", tt.b)
			if ka == kb {
				t.Errorf("keys should differ: %s", ka)
			}
		})
	}
}

func TestKey_DifferentEndpointsDiffer(t *testing.T) {
	params := map[string]any{}
	k1, _ := Key("dashboards", params)
	k2, _ := Key("monitors", params)
	if k1 == k2 {
		t.Errorf("keys for different endpoints should differ: %s", k1)
	}
}

func TestKey_InvalidEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     error
	}{
		{"", ErrInvalidKey},
		{"   ", ErrInvalidKey},
		{"a\nb", ErrInvalidKey},
		{strings.Repeat("x", MaxKeyLength+1), ErrKeyTooLong},
	}

	for _, tt := range tests {
		_, err := Key(tt.endpoint, nil)
		if !errors.Is(err, tt.want) {
			t.Errorf("Key(%q) error = %v, want %v", tt.endpoint, err, tt.want)
		}
	}
}

func TestKey_UnencodableParams(t *testing.T) {
	_, err := Key("monitors", map[string]any{"bad": make(chan int)})
	if err == nil {
		t.Error("Key() should fail for unencodable params")
	}
}
