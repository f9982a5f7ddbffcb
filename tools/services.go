package tools

import (
	"context"
	"encoding/json"

	"github.com/jonwraymond/datadog-mcp/datadog"
)

// serviceFields are always present on a projected service, null when the
// catalog entry does not set them.
var serviceFields = []string{
	"schema_version", "dd_service", "dd_team", "application", "tier",
	"lifecycle", "type_of_service", "languages", "tags",
}

func listServices(ctx context.Context, env *Env, args Args) (any, error) {
	page, pageSize := args.Pagination()
	filterEnv := args.StringOr("env", "")

	resp, err := env.Client.ListServices(ctx, datadog.ServicesQuery{
		PageSize:   &pageSize,
		PageNumber: &page,
		Env:        filterEnv,
	})
	if err != nil {
		return nil, err
	}

	data := make([]map[string]any, 0, len(resp.Data))
	for _, s := range resp.Data {
		data = append(data, projectService(s))
	}

	warnings := []datadog.Warning{}
	if resp.Meta != nil && resp.Meta.Warnings != nil {
		warnings = resp.Meta.Warnings
	}
	var next any
	if resp.Links != nil {
		next = nonEmpty(resp.Links.Next)
	}
	meta := map[string]any{
		"filter_env": nonEmpty(filterEnv),
		"warnings":   warnings,
		"next":       next,
	}
	return FormatList(data, NewPageInfo(page, pageSize, len(resp.Data)), meta), nil
}

func projectService(s datadog.Service) map[string]any {
	out := map[string]any{
		"id":   nonEmpty(s.ID),
		"type": nonEmpty(s.Type),
	}
	if s.Attributes == nil {
		return out
	}
	for _, f := range serviceFields {
		out[f] = rawOrNil(s.Attributes[f])
	}
	for k, v := range s.Attributes {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

func rawOrNil(v json.RawMessage) any {
	if isNull(v) {
		return nil
	}
	return v
}
