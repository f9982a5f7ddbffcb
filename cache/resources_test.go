package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/datadog-mcp/datadog"
)

func TestResourceCache_IndependentKinds(t *testing.T) {
	rc := NewResourceCache(Config{TTL: time.Minute, MaxEntries: 10})

	rc.SetMonitors("k", []datadog.Monitor{{ID: 1, Name: "cpu"}})
	rc.SetDashboards("k", []datadog.DashboardSummary{{ID: "abc-123", Title: "Overview"}})

	ctx := context.Background()
	events, err := rc.GetOrFetchEvents(ctx, "k", func(ctx context.Context) ([]datadog.Event, error) {
		return []datadog.Event{{ID: 7, Title: "deploy"}}, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetchEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != 7 {
		t.Errorf("GetOrFetchEvents() = %+v", events)
	}

	monitors, err := rc.GetOrFetchMonitors(ctx, "k", func(ctx context.Context) ([]datadog.Monitor, error) {
		t.Error("monitors fetch should not be called on hit")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetchMonitors() error = %v", err)
	}
	if len(monitors) != 1 || monitors[0].Name != "cpu" {
		t.Errorf("GetOrFetchMonitors() = %+v", monitors)
	}

	dashboards, err := rc.GetOrFetchDashboards(ctx, "k", func(ctx context.Context) ([]datadog.DashboardSummary, error) {
		t.Error("dashboards fetch should not be called on hit")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetchDashboards() error = %v", err)
	}
	if len(dashboards) != 1 || dashboards[0].ID != "abc-123" {
		t.Errorf("GetOrFetchDashboards() = %+v", dashboards)
	}
}

func TestResourceCache_SweepAll(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	rc := NewResourceCache(Config{TTL: time.Minute, Clock: clock})

	rc.SetMonitors("m1", nil)
	rc.SetMonitors("m2", nil)
	rc.SetDashboards("d1", nil)
	rc.SetEvents("e1", nil)

	if got := rc.SweepAll(); got != 0 {
		t.Errorf("SweepAll() before expiry = %d, want 0", got)
	}

	now = now.Add(2 * time.Minute)
	if got := rc.SweepAll(); got != 4 {
		t.Errorf("SweepAll() = %d, want 4", got)
	}

	stats := rc.Stats()
	for _, kind := range []string{"dashboards", "monitors", "events"} {
		if stats[kind].Entries != 0 {
			t.Errorf("%s entries = %d, want 0", kind, stats[kind].Entries)
		}
	}
}

func TestResourceCache_ReturnsCopies(t *testing.T) {
	rc := NewResourceCache(Config{})
	rc.SetMonitors("k", []datadog.Monitor{{ID: 1}})

	ctx := context.Background()
	first, _ := rc.GetOrFetchMonitors(ctx, "k", nil)
	first[0].ID = 99

	second, _ := rc.GetOrFetchMonitors(ctx, "k", nil)
	if second[0].ID != 1 {
		t.Errorf("cached monitor mutated through returned slice: %+v", second[0])
	}
}
