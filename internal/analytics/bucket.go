package analytics

import (
	"sort"
	"time"

	"github.com/wesm/agendastats/internal/agenda"
	"github.com/wesm/agendastats/internal/timeutil"
)

// DayCount is the number of replies posted on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TimelineEntry is one day of the engagement timeline.
type TimelineEntry struct {
	Date           string `json:"date"`
	RepliesToReply int    `json:"replies_to_reply"`
	Likes          int    `json:"likes"`
	Views          int    `json:"views"`
}

// GroupByDay counts replied records per calendar day in loc.
// Days with no replies are omitted. The result is ordered by
// date, never by label.
func GroupByDay(
	records []agenda.ReplyRecord, loc *time.Location,
) ([]DayCount, error) {
	counts := make(map[timeutil.Day]int)
	var days []timeutil.Day
	for i, r := range records {
		if !r.IsReplied() {
			continue
		}
		if err := validateRecord(i, r); err != nil {
			return nil, err
		}
		d := timeutil.DayOf(r.CreatedAt, loc)
		if _, ok := counts[d]; !ok {
			days = append(days, d)
		}
		counts[d]++
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	out := make([]DayCount, 0, len(days))
	for _, d := range days {
		out = append(out, DayCount{Date: d.String(), Count: counts[d]})
	}
	return out, nil
}

// BuildTimeline returns one entry per calendar day from the
// earliest reply through now, inclusive, summing engagement of
// the replies posted each day. Quiet days are present with zero
// values. Returns an empty timeline when nothing was replied.
//
// If a reply is dated after now, the timeline extends to that
// reply's day so no engagement is dropped.
func BuildTimeline(
	records []agenda.ReplyRecord, now time.Time,
	loc *time.Location,
) ([]TimelineEntry, error) {
	perDay := make(map[timeutil.Day]*TimelineEntry)
	var first, last timeutil.Day
	seen := false

	for i, r := range records {
		if !r.IsReplied() {
			continue
		}
		if err := validateRecord(i, r); err != nil {
			return nil, err
		}
		d := timeutil.DayOf(r.CreatedAt, loc)
		if !seen || d.Before(first) {
			first = d
		}
		if !seen || last.Before(d) {
			last = d
		}
		seen = true

		e, ok := perDay[d]
		if !ok {
			e = &TimelineEntry{}
			perDay[d] = e
		}
		m := r.Metrics()
		e.RepliesToReply += m.ReplyCount
		e.Likes += m.LikeCount
		e.Views += m.ViewCount
	}

	if !seen {
		return []TimelineEntry{}, nil
	}
	if today := timeutil.DayOf(now, loc); last.Before(today) {
		last = today
	}

	n := timeutil.DaysBetween(first, last) + 1
	out := make([]TimelineEntry, 0, n)
	for d := first; !last.Before(d); d = d.AddDays(1) {
		entry := TimelineEntry{Date: d.String()}
		if e, ok := perDay[d]; ok {
			entry.RepliesToReply = e.RepliesToReply
			entry.Likes = e.Likes
			entry.Views = e.Views
		}
		out = append(out, entry)
	}
	return out, nil
}
