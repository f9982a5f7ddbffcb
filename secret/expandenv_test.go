package secret

import (
	"errors"
	"strings"
	"testing"
)

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("DDMCP_SITE", "datadoghq.eu")

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "plain", false},
		{"${DDMCP_SITE}", "datadoghq.eu", false},
		{"api.$DDMCP_SITE", "api.datadoghq.eu", false},
		{"cost: $$5", "cost: $5", false},
		{"${DDMCP_MISSING_B} ${DDMCP_MISSING_A}", "", true},
	}

	for _, tt := range tests {
		got, err := ExpandEnvStrict(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrMissingEnv) {
				t.Errorf("ExpandEnvStrict(%q) error = %v, want %v", tt.in, err, ErrMissingEnv)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ExpandEnvStrict(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestExpandEnvStrict_MissingSorted(t *testing.T) {
	_, err := ExpandEnvStrict("${DDMCP_MISSING_B} ${DDMCP_MISSING_A} ${DDMCP_MISSING_A}")
	if err == nil || !strings.HasSuffix(err.Error(), "DDMCP_MISSING_A, DDMCP_MISSING_B") {
		t.Errorf("error = %v", err)
	}
}
