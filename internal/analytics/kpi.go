package analytics

import (
	"math"

	"github.com/wesm/agendastats/internal/agenda"
)

// KPIs are the scalar summary statistics for an agenda.
type KPIs struct {
	TotalRecords          int `json:"total_records"`
	TotalReplies          int `json:"total_replies"`
	Skipped               int `json:"skipped"`
	Engaged               int `json:"engaged"`
	Untouched             int `json:"untouched"` // skipped + replied with no engagement
	TotalLikes            int `json:"total_likes"`
	TotalViews            int `json:"total_views"`
	TotalRetweets         int `json:"total_retweets"`
	TotalRepliesReceived  int `json:"total_replies_received"`
	EngagementRatePercent int `json:"engagement_rate_percent"`
}

// Aggregate computes the KPIs over all records. Only replied
// records contribute counters; the engagement rate divides
// engaged replies by every record, skipped ones included.
func Aggregate(records []agenda.ReplyRecord) KPIs {
	k := KPIs{TotalRecords: len(records)}
	for _, r := range records {
		if !r.IsReplied() {
			k.Skipped++
			k.Untouched++
			continue
		}
		m := r.Metrics()
		k.TotalReplies++
		k.TotalLikes += m.LikeCount
		k.TotalViews += m.ViewCount
		k.TotalRetweets += m.RetweetCount
		k.TotalRepliesReceived += m.ReplyCount
		if m.Total() > 0 {
			k.Engaged++
		} else {
			k.Untouched++
		}
	}
	k.EngagementRatePercent = percent(k.Engaged, k.TotalRecords)
	return k
}

// percent returns round(100*part/whole), or 0 when whole is 0.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}

// ReplyShare is the replied vs skipped split.
type ReplyShare struct {
	Replied int `json:"replied"`
	Skipped int `json:"skipped"`
}
