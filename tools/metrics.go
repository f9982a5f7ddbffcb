package tools

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonwraymond/datadog-mcp/datadog"
)

// rollupBuckets are the rollup intervals, in seconds, a max_points request
// is rounded up to.
var rollupBuckets = []int64{60, 300, 600, 1800, 3600, 7200, 21600, 43200}

const maxRollup = 86400

// RollupInterval picks the rollup interval that keeps a [from, to] query
// near maxPoints points.
func RollupInterval(from, to, maxPoints int64) int64 {
	interval := (to - from) / maxPoints
	for _, b := range rollupBuckets {
		if interval < b {
			return b
		}
	}
	return maxRollup
}

// AddRollup appends .rollup(<agg>, <interval>) to a metrics query unless it
// already has one. The aggregation follows the query's space aggregator and
// defaults to avg.
func AddRollup(query string, interval int64) string {
	if strings.Contains(query, ".rollup(") {
		return query
	}
	agg := "avg"
	for _, a := range []string{"avg", "max", "min", "sum"} {
		if strings.HasPrefix(query, a+":") {
			agg = a
			break
		}
	}
	return query + ".rollup(" + agg + ", " + strconv.FormatInt(interval, 10) + ")"
}

func queryMetrics(ctx context.Context, env *Env, args Args) (any, error) {
	query, err := args.Require("query")
	if err != nil {
		return nil, err
	}
	tr, err := args.TimeRange(env.now())
	if err != nil {
		return nil, err
	}

	maxPoints, rollup := args.Int64("max_points")
	if rollup {
		if maxPoints <= 0 {
			return nil, invalidInput("'max_points' must be a positive integer")
		}
		query = AddRollup(query, RollupInterval(tr.From, tr.To, maxPoints))
	}

	resp, err := env.Client.QueryMetrics(ctx, query, tr.From, tr.To)
	if err != nil {
		return nil, err
	}

	series := make([]map[string]any, 0, len(resp.Series))
	for _, s := range resp.Series {
		series = append(series, projectSeries(s))
	}

	meta := map[string]any{
		"query":  resp.Query,
		"status": resp.Status,
		"from":   FormatTimestamp(tr.From),
		"to":     FormatTimestamp(tr.To),
	}
	if resp.Error != "" {
		meta["error"] = resp.Error
	}
	if resp.Message != "" {
		meta["message"] = resp.Message
	}
	if len(resp.GroupBy) > 0 {
		meta["group_by"] = resp.GroupBy
	}
	if rollup {
		meta["rollup_applied"] = true
		meta["requested_max_points"] = maxPoints
	}
	return FormatList(series, nil, meta), nil
}

func projectSeries(s datadog.MetricSeries) map[string]any {
	points := make([]map[string]any, 0, len(s.Pointlist))
	for _, p := range s.Pointlist {
		point := map[string]any{"timestamp": "N/A", "value": nil}
		if len(p) >= 2 {
			if p[0] != nil {
				point["timestamp"] = FormatTimestamp(int64(*p[0]) / 1000)
			}
			if p[1] != nil {
				point["value"] = *p[1]
			}
		}
		points = append(points, point)
	}

	out := map[string]any{
		"metric": s.Metric,
		"scope":  s.Scope,
		"points": map[string]any{"count": len(points), "data": points},
	}
	if s.Aggr != nil {
		out["aggr"] = *s.Aggr
	}
	if s.Interval != nil {
		out["interval"] = *s.Interval
	}
	for _, u := range s.Unit {
		if u == nil {
			continue
		}
		unit := map[string]any{"name": u.Name, "family": u.Family}
		if u.ShortName != "" {
			unit["short_name"] = u.ShortName
		}
		out["unit"] = unit
		break
	}
	return out
}
