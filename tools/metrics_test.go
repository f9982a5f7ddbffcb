package tools

import "testing"

func TestRollupInterval(t *testing.T) {
	tests := []struct {
		from, to, maxPoints int64
		want                int64
	}{
		{0, 100, 100, 60},
		{0, 30000, 100, 600},
		{0, 86400, 100, 1800},
		{0, 3600 * 100, 100, 7200},
		{0, 86400 * 30, 10, 86400},
	}
	for _, tt := range tests {
		if got := RollupInterval(tt.from, tt.to, tt.maxPoints); got != tt.want {
			t.Errorf("RollupInterval(%d, %d, %d) = %d, want %d", tt.from, tt.to, tt.maxPoints, got, tt.want)
		}
	}
}

func TestAddRollup(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"avg:system.cpu.user{*}", "avg:system.cpu.user{*}.rollup(avg, 300)"},
		{"max:system.load.1{*}", "max:system.load.1{*}.rollup(max, 300)"},
		{"sum:requests{*}", "sum:requests{*}.rollup(sum, 300)"},
		{"system.cpu.user{*}", "system.cpu.user{*}.rollup(avg, 300)"},
		{"avg:x{*}.rollup(max, 60)", "avg:x{*}.rollup(max, 60)"},
	}
	for _, tt := range tests {
		if got := AddRollup(tt.query, 300); got != tt.want {
			t.Errorf("AddRollup(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}
