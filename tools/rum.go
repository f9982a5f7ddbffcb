package tools

import (
	"context"

	"github.com/jonwraymond/datadog-mcp/datadog"
)

func searchRUMEvents(ctx context.Context, env *Env, args Args) (any, error) {
	tr, err := args.TimeRange(env.now())
	if err != nil {
		return nil, err
	}
	limit := args.IntOr("limit", datadog.DefaultRUMLimit)
	q := datadog.RUMQuery{
		Query:  args.StringOr("query", "*"),
		From:   ToISO8601(tr.From),
		To:     ToISO8601(tr.To),
		Limit:  limit,
		Cursor: args.StringOr("cursor", ""),
		Sort:   args.StringOr("sort", ""),
	}

	resp, err := env.Client.SearchRUMEvents(ctx, q)
	if err != nil {
		return nil, err
	}

	filter := ResolveTagFilter(args, env.Client)
	truncate := truncateStacks(args)
	events := make([]map[string]any, 0, len(resp.Data))
	for _, e := range resp.Data {
		events = append(events, projectRUMEvent(e, filter, truncate))
	}

	hasMore := resp.Meta != nil && resp.Meta.Page != nil && resp.Meta.Page.After != ""
	return map[string]any{
		"data":       events,
		"pagination": NewCursorInfo(len(events), limit, hasMore),
	}, nil
}

// projectRUMEvent keeps only the populated, diagnostic fields of an event.
func projectRUMEvent(e datadog.RUMEvent, filter string, truncateStack bool) map[string]any {
	out := map[string]any{"id": e.ID}
	putString(out, "type", e.Type)

	a := e.Attributes
	if a == nil {
		return out
	}
	putString(out, "timestamp", a.Timestamp)
	putString(out, "service", a.Service)

	if app := a.Application; app != nil && app.Name != "" {
		out["application"] = map[string]any{"name": app.Name}
	}
	if v := a.View; v != nil {
		view := map[string]any{}
		putString(view, "name", v.Name)
		putString(view, "url_path", v.URLPath)
		putInt64(view, "loading_time", v.LoadingTime)
		putInt64(view, "time_spent", v.TimeSpent)
		putObject(out, "view", view)
	}
	if s := a.Session; s != nil {
		session := map[string]any{}
		putString(session, "id", s.ID)
		putString(session, "type", s.Type)
		if s.HasReplay {
			session["has_replay"] = true
		}
		putObject(out, "session", session)
	}
	if ac := a.Action; ac != nil {
		action := map[string]any{}
		putString(action, "name", ac.Name)
		putString(action, "type", ac.Type)
		putInt64(action, "loading_time", ac.LoadingTime)
		putObject(out, "action", action)
	}
	if r := a.Resource; r != nil {
		resource := map[string]any{}
		putString(resource, "url", r.URL)
		putString(resource, "method", r.Method)
		if r.StatusCode != nil {
			resource["status_code"] = *r.StatusCode
		}
		putInt64(resource, "duration", r.Duration)
		putObject(out, "resource", resource)
	}
	if er := a.Error; er != nil {
		errObj := map[string]any{}
		putString(errObj, "message", er.Message)
		putString(errObj, "source", er.Source)
		putString(errObj, "type", er.Type)
		if er.Stack != "" {
			stack := er.Stack
			if truncateStack {
				stack = TruncateStackTrace(stack, DefaultStackTraceLines)
			}
			errObj["stack"] = stack
		}
		if er.IsCrash {
			errObj["is_crash"] = true
		}
		putObject(out, "error", errObj)
	}
	if a.Tags != nil {
		if tags := FilterTags(a.Tags, filter); len(tags) > 0 {
			out["tags"] = tags
		}
	}
	return out
}

func putString(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func putInt64(m map[string]any, key string, v *int64) {
	if v != nil {
		m[key] = *v
	}
}

func putObject(m map[string]any, key string, v map[string]any) {
	if len(v) > 0 {
		m[key] = v
	}
}
