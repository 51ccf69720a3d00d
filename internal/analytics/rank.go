package analytics

import (
	"fmt"
	"sort"

	"github.com/wesm/agendastats/internal/agenda"
)

// DefaultTopN is how many records the top-N tables show.
const DefaultTopN = 5

// Metric selects the counter a ranking sorts by.
type Metric struct {
	Name  string
	Value func(agenda.Engagement) int
}

var (
	ByReplies = Metric{"replies", func(e agenda.Engagement) int {
		return e.ReplyCount
	}}
	ByViews = Metric{"views", func(e agenda.Engagement) int {
		return e.ViewCount
	}}
	ByLikes = Metric{"likes", func(e agenda.Engagement) int {
		return e.LikeCount
	}}
	ByRetweets = Metric{"retweets", func(e agenda.Engagement) int {
		return e.RetweetCount
	}}
)

// ParseMetric resolves a metric by name.
func ParseMetric(name string) (Metric, error) {
	for _, m := range []Metric{ByReplies, ByViews, ByLikes, ByRetweets} {
		if m.Name == name {
			return m, nil
		}
	}
	return Metric{}, fmt.Errorf("unknown metric %q", name)
}

// TopN returns up to n replied records ordered by the metric,
// highest first. Equal values keep their input order. The
// returned records are copies.
func TopN(
	records []agenda.ReplyRecord, metric Metric, n int,
) []agenda.ReplyRecord {
	if n <= 0 {
		return []agenda.ReplyRecord{}
	}
	replied := make([]agenda.ReplyRecord, 0, len(records))
	for _, r := range records {
		if r.IsReplied() {
			replied = append(replied, r.Clone())
		}
	}
	sort.SliceStable(replied, func(i, j int) bool {
		return metric.Value(replied[i].Metrics()) >
			metric.Value(replied[j].Metrics())
	})
	if len(replied) > n {
		replied = replied[:n]
	}
	return replied
}

// View is a listing filter for the replies table.
type View string

const (
	ViewAll     View = "all"
	ViewReplies View = "replies"
	ViewViews   View = "views"
)

// Select returns the records shown for a listing view. ViewAll
// lists every record, skipped ones included, in input order;
// the ranked views list the top n by that metric.
func Select(
	records []agenda.ReplyRecord, view View, n int,
) ([]agenda.ReplyRecord, error) {
	switch view {
	case ViewAll, "":
		out := make([]agenda.ReplyRecord, len(records))
		for i, r := range records {
			out[i] = r.Clone()
		}
		return out, nil
	case ViewReplies:
		return TopN(records, ByReplies, n), nil
	case ViewViews:
		return TopN(records, ByViews, n), nil
	default:
		return nil, fmt.Errorf("unknown view %q", view)
	}
}
