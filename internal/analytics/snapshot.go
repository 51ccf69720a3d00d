// Package analytics derives engagement statistics for an agenda
// from its reply records.
//
// Every function here is pure: no I/O, no wall-clock reads, no
// mutation of the input. Calendar days are always taken in one
// explicit *time.Location per computation.
package analytics

import (
	"errors"
	"fmt"
	"time"

	"github.com/wesm/agendastats/internal/agenda"
)

// Options controls a snapshot computation.
type Options struct {
	// Now is the end of the engagement timeline. Required.
	Now time.Time
	// Location decides calendar days. Nil means time.Local.
	Location *time.Location
	// TopN is the size of the ranked tables. Zero means
	// DefaultTopN; negative is an error.
	TopN int
}

// Snapshot is the fully derived analytics for one agenda.
type Snapshot struct {
	Title       string `json:"title"`
	Prompt      string `json:"prompt"`
	Timezone    string `json:"timezone"`
	GeneratedAt string `json:"generated_at"`

	KPIs
	ReplyShare ReplyShare `json:"reply_share"`

	RepliesPerDay      []DayCount           `json:"replies_per_day"`
	EngagementTimeline []TimelineEntry      `json:"engagement_timeline"`
	TopByReplies       []agenda.ReplyRecord `json:"top_by_replies"`
	TopByViews         []agenda.ReplyRecord `json:"top_by_views"`
	Breakdown          Breakdown            `json:"breakdown"`
}

// Compute validates the input and assembles its snapshot.
func Compute(in agenda.Input, opts Options) (Snapshot, error) {
	if opts.Now.IsZero() {
		return Snapshot{}, errors.New("snapshot time is required")
	}
	if opts.TopN < 0 {
		return Snapshot{}, fmt.Errorf(
			"invalid top-n %d", opts.TopN,
		)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	n := opts.TopN
	if n == 0 {
		n = DefaultTopN
	}

	if err := Validate(in.Records); err != nil {
		return Snapshot{}, err
	}

	perDay, err := GroupByDay(in.Records, loc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("grouping by day: %w", err)
	}
	timeline, err := BuildTimeline(in.Records, opts.Now, loc)
	if err != nil {
		return Snapshot{}, fmt.Errorf("building timeline: %w", err)
	}

	k := Aggregate(in.Records)
	return Snapshot{
		Title:       in.Title,
		Prompt:      in.Prompt,
		Timezone:    loc.String(),
		GeneratedAt: opts.Now.In(loc).Format(time.RFC3339),
		KPIs:        k,
		ReplyShare: ReplyShare{
			Replied: k.TotalReplies,
			Skipped: k.Skipped,
		},
		RepliesPerDay:      perDay,
		EngagementTimeline: timeline,
		TopByReplies:       TopN(in.Records, ByReplies, n),
		TopByViews:         TopN(in.Records, ByViews, n),
		Breakdown:          Classify(in.Records),
	}, nil
}
