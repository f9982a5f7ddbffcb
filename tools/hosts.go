package tools

import (
	"context"

	"github.com/jonwraymond/datadog-mcp/datadog"
)

// DefaultHostCount is the number of hosts listed when "count" is absent.
const DefaultHostCount = 100

func listHosts(ctx context.Context, env *Env, args Args) (any, error) {
	tr, err := args.TimeRange(env.now())
	if err != nil {
		return nil, err
	}
	count := args.IntOr("count", DefaultHostCount)
	q := datadog.HostsQuery{
		Filter:    args.StringOr("filter", ""),
		From:      &tr.From,
		SortField: args.StringOr("sort_field", ""),
		SortDir:   args.StringOr("sort_dir", ""),
		Start:     optInt(args, "start"),
		Count:     &count,
	}

	resp, err := env.Client.ListHosts(ctx, q)
	if err != nil {
		return nil, err
	}

	filter := ResolveTagFilter(args, env.Client)
	data := make([]map[string]any, 0, len(resp.HostList))
	for _, h := range resp.HostList {
		var lastReported any
		if h.LastReportedTime != nil {
			lastReported = FormatTimestamp(*h.LastReportedTime)
		}
		var tags any
		if filtered := FilterTagsBySource(h.TagsBySource, filter); filtered != nil {
			tags = filtered
		}
		data = append(data, map[string]any{
			"name":          h.Name,
			"host_name":     h.HostName,
			"up":            h.Up,
			"is_muted":      h.IsMuted,
			"last_reported": lastReported,
			"aws_name":      nonEmpty(h.AWSName),
			"apps":          h.Apps,
			"sources":       h.Sources,
			"tags":          tags,
		})
	}

	meta := map[string]any{
		"total_matching": resp.TotalMatching,
		"total_returned": resp.TotalReturned,
	}
	return FormatList(data, nil, meta), nil
}
