package tools

import (
	"context"

	"github.com/jonwraymond/datadog-mcp/cache"
	"github.com/jonwraymond/datadog-mcp/datadog"
)

func listMonitors(ctx context.Context, env *Env, args Args) (any, error) {
	q := datadog.MonitorsQuery{
		Tags:        args.StringOr("tags", ""),
		MonitorTags: args.StringOr("monitor_tags", ""),
	}
	page, pageSize := args.Pagination()

	key, err := cache.Key("monitors", map[string]any{
		"tags":         optString(args, "tags"),
		"monitor_tags": optString(args, "monitor_tags"),
	})
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context) ([]datadog.Monitor, error) {
		return env.Client.ListMonitors(ctx, q)
	}

	var monitors []datadog.Monitor
	if page == 0 {
		if monitors, err = fetch(ctx); err != nil {
			return nil, err
		}
		env.Cache.SetMonitors(key, monitors)
	} else if monitors, err = env.Cache.GetOrFetchMonitors(ctx, key, fetch); err != nil {
		return nil, err
	}

	slice := Paginate(monitors, page, pageSize)
	data := make([]map[string]any, 0, len(slice))
	for _, m := range slice {
		data = append(data, map[string]any{
			"id":       m.ID,
			"name":     m.Name,
			"type":     m.Type,
			"query":    m.Query,
			"status":   nonEmpty(m.OverallState),
			"tags":     m.Tags,
			"priority": m.Priority,
		})
	}
	return FormatList(data, NewPageInfo(page, pageSize, len(monitors)), nil), nil
}

func getMonitor(ctx context.Context, env *Env, args Args) (any, error) {
	id, ok := args.Int64("monitor_id")
	if !ok {
		return nil, missingParam("monitor_id")
	}

	m, err := env.Client.GetMonitor(ctx, id)
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"id":            m.ID,
		"name":          m.Name,
		"type":          m.Type,
		"query":         m.Query,
		"message":       nonEmpty(m.Message),
		"tags":          m.Tags,
		"created":       nonEmpty(m.Created),
		"modified":      nonEmpty(m.Modified),
		"overall_state": nonEmpty(m.OverallState),
		"priority":      m.Priority,
		"options":       nil,
	}
	if o := m.Options; o != nil {
		data["options"] = map[string]any{
			"thresholds":     o.Thresholds,
			"notify_no_data": o.NotifyNoData,
			"notify_audit":   o.NotifyAudit,
			"timeout_h":      o.TimeoutH,
			"silenced":       o.Silenced,
		}
	}
	return FormatDetail(data), nil
}
