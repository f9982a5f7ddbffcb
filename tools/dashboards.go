package tools

import (
	"context"
	"slices"

	"github.com/jonwraymond/datadog-mcp/cache"
	"github.com/jonwraymond/datadog-mcp/datadog"
)

func listDashboards(ctx context.Context, env *Env, args Args) (any, error) {
	page, pageSize := args.Pagination()

	key, err := cache.Key("dashboards", map[string]any{})
	if err != nil {
		return nil, err
	}

	fetch := func(ctx context.Context) ([]datadog.DashboardSummary, error) {
		resp, err := env.Client.ListDashboards(ctx)
		if err != nil {
			return nil, err
		}
		return resp.Dashboards, nil
	}

	var dashboards []datadog.DashboardSummary
	if page == 0 {
		if dashboards, err = fetch(ctx); err != nil {
			return nil, err
		}
		env.Cache.SetDashboards(key, dashboards)
	} else if dashboards, err = env.Cache.GetOrFetchDashboards(ctx, key, fetch); err != nil {
		return nil, err
	}

	data := append([]datadog.DashboardSummary{}, Paginate(dashboards, page, pageSize)...)
	return FormatList(data, NewPageInfo(page, pageSize, len(dashboards)), nil), nil
}

func getDashboard(ctx context.Context, env *Env, args Args) (any, error) {
	id, err := args.Require("dashboard_id")
	if err != nil {
		return nil, err
	}

	d, err := env.Client.GetDashboard(ctx, id)
	if err != nil {
		return nil, err
	}

	var author any
	if a := d.AuthorInfo; a != nil {
		author = map[string]any{
			"name":   nonEmpty(a.Name),
			"handle": nonEmpty(a.Handle),
			"email":  nonEmpty(a.Email),
		}
	}

	vars := make([]map[string]any, 0, len(d.TemplateVariables))
	for _, v := range d.TemplateVariables {
		vars = append(vars, map[string]any{
			"name":             v.Name,
			"default":          nonEmpty(v.Default),
			"prefix":           nonEmpty(v.Prefix),
			"available_values": v.AvailableValues,
		})
	}

	widgets := make([]map[string]any, 0, len(d.Widgets))
	for _, w := range d.Widgets {
		var layout any
		if l := w.Layout; l != nil {
			layout = map[string]any{"x": l.X, "y": l.Y, "width": l.Width, "height": l.Height}
		}
		widgets = append(widgets, map[string]any{
			"id":     w.ID,
			"type":   w.Definition.Type,
			"title":  nonEmpty(w.Definition.Title),
			"layout": layout,
		})
	}

	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}

	data := map[string]any{
		"id":                 d.ID,
		"title":              d.Title,
		"description":        nonEmpty(d.Description),
		"url":                d.URL,
		"layout_type":        d.LayoutType,
		"is_read_only":       d.IsReadOnly,
		"created_at":         nonEmpty(d.CreatedAt),
		"modified_at":        nonEmpty(d.ModifiedAt),
		"tags":               tags,
		"author":             author,
		"template_variables": vars,
		"widgets_summary": map[string]any{
			"total_widgets": len(d.Widgets),
			"widget_types":  WidgetTypes(d.Widgets),
			"widgets":       widgets,
		},
	}
	return FormatDetail(data), nil
}

// WidgetTypes returns the sorted, distinct widget types of a dashboard,
// including the children of group widgets.
func WidgetTypes(widgets []datadog.Widget) []string {
	seen := make(map[string]struct{})
	var walk func([]datadog.Widget)
	walk = func(ws []datadog.Widget) {
		for _, w := range ws {
			seen[w.Definition.Type] = struct{}{}
			if w.Definition.Type == "group" {
				walk(w.Definition.Widgets)
			}
		}
	}
	walk(widgets)

	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
