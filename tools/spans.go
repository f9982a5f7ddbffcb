package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonwraymond/datadog-mcp/datadog"
)

// DefaultSpansPageSize is the spans page size when neither "limit" nor
// "page_size" is given.
const DefaultSpansPageSize = 10

type spansResponse struct {
	Data []any `json:"data"`
	Meta *struct {
		Page *struct {
			After json.RawMessage `json:"after"`
		} `json:"page"`
	} `json:"meta"`
}

func (r *spansResponse) hasCursor() bool {
	return r.Meta != nil && r.Meta.Page != nil && len(r.Meta.Page.After) > 0
}

func searchSpans(ctx context.Context, env *Env, args Args) (any, error) {
	tr, err := args.TimeRange(env.now())
	if err != nil {
		return nil, err
	}
	pageSize := args.Count("page_size", DefaultSpansPageSize)
	q := datadog.SpansQuery{
		Query:  args.StringOr("query", "*"),
		From:   ToISO8601(tr.From),
		To:     ToISO8601(tr.To),
		Limit:  args.IntOr("limit", pageSize),
		Cursor: args.StringOr("cursor", ""),
		Sort:   args.StringOr("sort", ""),
	}

	raw, err := env.Client.ListSpans(ctx, q)
	if err != nil {
		return nil, err
	}

	// Span ids are 64-bit; keep numbers exact.
	var resp spansResponse
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, &datadog.Error{Kind: datadog.KindTransport, Err: fmt.Errorf("decode spans: %w", err)}
	}

	filter := ResolveTagFilter(args, env.Client)
	truncate := truncateStacks(args)
	data := make([]any, 0, len(resp.Data))
	for _, span := range resp.Data {
		if obj, ok := span.(map[string]any); ok {
			CleanSpan(obj, filter, truncate)
		}
		data = append(data, span)
	}

	return map[string]any{
		"data":       data,
		"pagination": NewCursorInfo(len(data), pageSize, resp.hasCursor()),
	}, nil
}

// CleanSpan trims a span in place: tags are filtered (and dropped when none
// remain), an empty ingestion_reason is removed, verbose HTTP fields are
// dropped, and long error stacks and Kafka bootstrap server lists are
// shortened.
func CleanSpan(span map[string]any, filter string, truncateStack bool) {
	attrs, ok := span["attributes"].(map[string]any)
	if !ok {
		return
	}

	if raw, ok := attrs["tags"].([]any); ok {
		tags := make([]string, 0, len(raw))
		for _, t := range raw {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		if kept := FilterTags(tags, filter); len(kept) == 0 {
			delete(attrs, "tags")
		} else {
			attrs["tags"] = kept
		}
	}

	if reason, ok := attrs["ingestion_reason"]; ok {
		if s, _ := reason.(string); s == "" {
			delete(attrs, "ingestion_reason")
		}
	}

	custom, ok := attrs["custom"].(map[string]any)
	if !ok {
		return
	}
	if http, ok := custom["http"].(map[string]any); ok {
		FilterHTTPVerbose(http)
	}
	if errObj, ok := custom["error"].(map[string]any); ok && truncateStack {
		if stack, ok := errObj["stack"].(string); ok {
			errObj["stack"] = TruncateStackTrace(stack, DefaultStackTraceLines)
		}
	}
	if servers, ok := lookupPath(custom, "messaging", "kafka", "bootstrap"); ok {
		if s, ok := servers["servers"].(string); ok {
			servers["servers"] = TruncateString(s, MaxStringLength)
		}
	}
}

func lookupPath(m map[string]any, path ...string) (map[string]any, bool) {
	for _, p := range path {
		next, ok := m[p].(map[string]any)
		if !ok {
			return nil, false
		}
		m = next
	}
	return m, true
}
