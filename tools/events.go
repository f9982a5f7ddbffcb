package tools

import (
	"context"

	"github.com/jonwraymond/datadog-mcp/cache"
	"github.com/jonwraymond/datadog-mcp/datadog"
)

func queryEvents(ctx context.Context, env *Env, args Args) (any, error) {
	tr, err := args.TimeRange(env.now())
	if err != nil {
		return nil, err
	}
	q := datadog.EventsQuery{
		Start:    tr.From,
		End:      tr.To,
		Priority: args.StringOr("priority", ""),
		Sources:  args.StringOr("sources", ""),
		Tags:     args.StringOr("tags", ""),
	}
	page, pageSize := args.Pagination()

	key, err := cache.Key("events", map[string]any{
		"start":    tr.From,
		"end":      tr.To,
		"priority": optString(args, "priority"),
		"sources":  optString(args, "sources"),
		"tags":     optString(args, "tags"),
	})
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context) ([]datadog.Event, error) {
		resp, err := env.Client.QueryEvents(ctx, q)
		if err != nil {
			return nil, err
		}
		return resp.Events, nil
	}

	var events []datadog.Event
	if page == 0 {
		if events, err = fetch(ctx); err != nil {
			return nil, err
		}
		env.Cache.SetEvents(key, events)
	} else if events, err = env.Cache.GetOrFetchEvents(ctx, key, fetch); err != nil {
		return nil, err
	}

	slice := Paginate(events, page, pageSize)
	data := make([]map[string]any, 0, len(slice))
	for _, e := range slice {
		var date any
		if e.DateHappened != nil {
			date = FormatTimestamp(*e.DateHappened)
		}
		data = append(data, map[string]any{
			"id":         e.ID,
			"title":      nonEmpty(e.Title),
			"text":       nonEmpty(e.Text),
			"date":       date,
			"priority":   nonEmpty(e.Priority),
			"host":       nonEmpty(e.Host),
			"source":     nonEmpty(e.Source),
			"alert_type": nonEmpty(e.AlertType),
		})
	}

	meta := map[string]any{
		"from": FormatTimestamp(tr.From),
		"to":   FormatTimestamp(tr.To),
	}
	return FormatList(data, NewPageInfo(page, pageSize, len(events)), meta), nil
}
