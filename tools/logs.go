package tools

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/jonwraymond/datadog-mcp/datadog"
)

func searchLogs(ctx context.Context, env *Env, args Args) (any, error) {
	query, err := args.Require("query")
	if err != nil {
		return nil, err
	}
	limit := args.IntOr("limit", datadog.DefaultLogsLimit)
	tr, err := args.TimeRange(env.now())
	if err != nil {
		return nil, err
	}
	from, to := ToISO8601(tr.From), ToISO8601(tr.To)

	resp, err := env.Client.SearchLogs(ctx, query, from, to, limit)
	if err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, &datadog.Error{Kind: datadog.KindAPI, Body: strings.Join(resp.Errors, ", ")}
	}

	filter := ResolveTagFilter(args, env.Client)
	logs := make([]map[string]any, 0, len(resp.Data))
	for _, entry := range resp.Data {
		logs = append(logs, projectLog(entry, filter))
	}

	meta := map[string]any{
		"query": query,
		"from":  from,
		"to":    to,
		"total": len(logs),
	}
	return FormatList(logs, nil, meta), nil
}

func projectLog(entry datadog.LogEntry, filter string) map[string]any {
	out := map[string]any{
		"id":        entry.ID,
		"timestamp": nil,
		"message":   nil,
		"host":      nil,
		"service":   nil,
		"tags":      nil,
		"status":    nil,
	}
	a := entry.Attributes
	if a == nil {
		return out
	}
	out["timestamp"] = nonEmpty(a.Timestamp)
	out["message"] = nonEmpty(a.Message)
	out["host"] = nonEmpty(a.Host)
	out["service"] = nonEmpty(a.Service)
	out["status"] = nonEmpty(a.Status)
	if a.Tags != nil {
		out["tags"] = FilterTags(a.Tags, filter)
	}
	return out
}

// Logs analytics defaults.
const (
	defaultAggregation  = "count"
	defaultComputeType  = "total"
	defaultGroupFacet   = "status"
	defaultGroupType    = "facet"
	defaultSortType     = "measure"
	defaultLogsInterval = "1h"
)

func aggregateLogs(ctx context.Context, env *Env, args Args) (any, error) {
	tr, err := args.TimeRange(env.now())
	if err != nil {
		return nil, err
	}
	req := datadog.LogsAggregateRequest{
		Query:    args.StringOr("query", "*"),
		From:     strconv.FormatInt(tr.From*1000, 10),
		To:       strconv.FormatInt(tr.To*1000, 10),
		Compute:  []datadog.LogsCompute{{Aggregation: defaultAggregation, Type: defaultComputeType}},
		GroupBy:  parseGroupBy(args, true),
		Timezone: args.StringOr("timezone", ""),
	}
	if items, ok := args.Objects("compute"); ok && len(items) > 0 {
		req.Compute = make([]datadog.LogsCompute, 0, len(items))
		for _, c := range items {
			req.Compute = append(req.Compute, datadog.LogsCompute{
				Aggregation: c.StringOr("aggregation", defaultAggregation),
				Type:        c.StringOr("type", defaultComputeType),
				Interval:    c.StringOr("interval", ""),
				Metric:      c.StringOr("metric", ""),
			})
		}
	}

	raw, err := env.Client.AggregateLogs(ctx, req)
	if err != nil {
		return nil, err
	}
	data, buckets := aggregateData(raw)

	meta := map[string]any{
		"query":         req.Query,
		"from":          req.From,
		"to":            req.To,
		"buckets_count": buckets,
		"timezone":      nonEmpty(req.Timezone),
	}
	return FormatList(data, nil, meta), nil
}

func logsTimeseries(ctx context.Context, env *Env, args Args) (any, error) {
	tr, err := args.TimeRange(env.now())
	if err != nil {
		return nil, err
	}
	interval := args.StringOr("interval", defaultLogsInterval)
	aggregation := args.StringOr("aggregation", defaultAggregation)
	metric := args.StringOr("metric", "")

	req := datadog.LogsAggregateRequest{
		Query: args.StringOr("query", "*"),
		From:  strconv.FormatInt(tr.From*1000, 10),
		To:    strconv.FormatInt(tr.To*1000, 10),
		Compute: []datadog.LogsCompute{{
			Aggregation: aggregation,
			Type:        "timeseries",
			Interval:    interval,
			Metric:      metric,
		}},
		GroupBy:  parseGroupBy(args, false),
		Timezone: args.StringOr("timezone", ""),
	}

	raw, err := env.Client.AggregateLogs(ctx, req)
	if err != nil {
		return nil, err
	}
	data, buckets := aggregateData(raw)

	meta := map[string]any{
		"query":         req.Query,
		"from":          req.From,
		"to":            req.To,
		"interval":      interval,
		"aggregation":   aggregation,
		"metric":        nonEmpty(metric),
		"buckets_count": buckets,
		"timezone":      nonEmpty(req.Timezone),
	}
	return FormatList(data, nil, meta), nil
}

// parseGroupBy reads the "group_by" argument. Sorting is only honored for
// plain aggregations.
func parseGroupBy(args Args, withSort bool) []datadog.LogsGroupBy {
	items, ok := args.Objects("group_by")
	if !ok {
		return nil
	}
	groups := make([]datadog.LogsGroupBy, 0, len(items))
	for _, g := range items {
		group := datadog.LogsGroupBy{
			Facet: g.StringOr("facet", defaultGroupFacet),
			Limit: optInt(g, "limit"),
			Type:  g.StringOr("type", defaultGroupType),
		}
		if s, ok := g.Object("sort"); ok && withSort {
			group.Sort = &datadog.LogsGroupBySort{
				Order:       s.StringOr("order", ""),
				Type:        s.StringOr("type", defaultSortType),
				Aggregation: s.StringOr("aggregation", ""),
				Metric:      s.StringOr("metric", ""),
			}
		}
		groups = append(groups, group)
	}
	return groups
}

// aggregateData extracts the data member of an analytics response and
// counts its buckets.
func aggregateData(raw json.RawMessage) (json.RawMessage, int) {
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || isNull(body.Data) {
		return nil, 0
	}
	var data struct {
		Buckets []json.RawMessage `json:"buckets"`
	}
	_ = json.Unmarshal(body.Data, &data)
	return body.Data, len(data.Buckets)
}
