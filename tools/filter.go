package tools

import (
	"fmt"
	"strings"
)

// Truncation limits applied to verbose upstream fields.
const (
	DefaultStackTraceLines = 10
	MaxStringLength        = 200
)

// Tag filter values with special meaning.
const (
	TagFilterAll  = "*"
	TagFilterNone = ""
)

// TagFilterSource supplies the configured default tag filter.
type TagFilterSource interface {
	TagFilter() (string, bool)
}

// ResolveTagFilter picks the tag filter for a call: the "tag_filter"
// argument, then the configured default, then all tags.
func ResolveTagFilter(args Args, src TagFilterSource) string {
	if f, ok := args.String("tag_filter"); ok {
		return f
	}
	if src != nil {
		if f, ok := src.TagFilter(); ok {
			return f
		}
	}
	return TagFilterAll
}

func tagPrefixes(filter string) []string {
	var prefixes []string
	for p := range strings.SplitSeq(filter, ",") {
		if p = strings.TrimSpace(p); p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}

func hasAnyPrefix(tag string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(tag, p) {
			return true
		}
	}
	return false
}

// FilterTags keeps the tags matching filter: "*" keeps all, "" keeps none,
// and anything else is a comma-separated list of tag prefixes. The result
// is never nil.
func FilterTags(tags []string, filter string) []string {
	switch filter {
	case TagFilterAll:
		return append([]string{}, tags...)
	case TagFilterNone:
		return []string{}
	}
	prefixes := tagPrefixes(filter)
	out := []string{}
	for _, t := range tags {
		if hasAnyPrefix(t, prefixes) {
			out = append(out, t)
		}
	}
	return out
}

// FilterTagsBySource applies FilterTags to every source and drops sources
// left without tags. The "" filter yields nil.
func FilterTagsBySource(bySource map[string][]string, filter string) map[string][]string {
	switch {
	case bySource == nil, filter == TagFilterNone:
		return nil
	case filter == TagFilterAll:
		return bySource
	}
	out := make(map[string][]string, len(bySource))
	for source, tags := range bySource {
		if kept := FilterTags(tags, filter); len(kept) > 0 {
			out[source] = kept
		}
	}
	return out
}

// TruncateStackTrace keeps the first maxLines lines of a stack trace and
// notes how many were dropped.
func TruncateStackTrace(stack string, maxLines int) string {
	lines := strings.Split(stack, "\n")
	if len(lines) <= maxLines {
		return stack
	}
	return strings.Join(lines[:maxLines], "\n") + fmt.Sprintf("\n... (%d more lines)", len(lines)-maxLines)
}

// TruncateString cuts s to maxLen characters and appends "...".
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// verboseHTTPFields are dropped from span HTTP attributes.
var verboseHTTPFields = []string{"useragent_details"}

// FilterHTTPVerbose removes verbose fields from an HTTP attribute object.
func FilterHTTPVerbose(http map[string]any) {
	for _, f := range verboseHTTPFields {
		delete(http, f)
	}
}

// truncateStacks reports whether stack traces should be shortened for this
// call.
func truncateStacks(args Args) bool {
	full, _ := args.Bool("full_stack_trace")
	return !full
}
