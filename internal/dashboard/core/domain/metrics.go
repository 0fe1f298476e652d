package domain

import (
	"encoding/json"
	"math"
)

// InsightMetrics is the fixed metric list requested for every insights call.
var InsightMetrics = []string{
	"page_impressions",
	"page_actions_post_reactions_total",
	"page_fan_adds",
	"page_post_engagements",
	"page_fans",
	"page_video_views",
	"post_reactions_like_total",
}

// InsightValue is one snapshot of a metric series.
type InsightValue struct {
	Value   any    `json:"value"`
	EndTime string `json:"end_time,omitempty"`
}

// InsightEntry is one metric series as returned by the insights endpoint.
type InsightEntry struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Period      string         `json:"period,omitempty"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Values      []InsightValue `json:"values"`
}

// Metrics maps a metric name to its value: a number or a nested object of numbers.
type Metrics map[string]any

// FlattenInsights keeps the first snapshot of every series, keyed by metric name.
// A series without snapshots is recorded with a nil value.
func FlattenInsights(entries []InsightEntry) Metrics {
	out := make(Metrics, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		if len(e.Values) == 0 {
			out[e.Name] = nil
			continue
		}
		out[e.Name] = e.Values[0].Value
	}
	return out
}

// Number returns the numeric value of name, or 0 when missing or not a number.
func (m Metrics) Number(name string) float64 {
	return toNumber(m[name])
}

// Nested returns m[name][key] for object-valued metrics, or 0.
func (m Metrics) Nested(name, key string) float64 {
	obj, ok := m[name].(map[string]any)
	if !ok {
		return 0
	}
	return toNumber(obj[key])
}

func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Card is one tile of the insights grid.
type Card struct {
	Title  string
	Metric string
	Key    string // sub-key for object-valued metrics
}

var Cards = []Card{
	{Title: "Total Followers", Metric: "page_fans"},
	{Title: "Total Engagement", Metric: "page_post_engagements"},
	{Title: "Total Impressions", Metric: "page_impressions"},
	{Title: "Total Reactions", Metric: "page_actions_post_reactions_total", Key: "like"},
	{Title: "Page Video Views", Metric: "page_video_views"},
}

// Value resolves the card against m. Missing values read as 0.
func (c Card) Value(m Metrics) int64 {
	var v float64
	if c.Key != "" {
		v = m.Nested(c.Metric, c.Key)
	} else {
		v = m.Number(c.Metric)
	}
	return int64(math.Round(v))
}
