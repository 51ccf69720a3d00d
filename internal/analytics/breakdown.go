package analytics

import (
	"math"

	"github.com/wesm/agendastats/internal/agenda"
)

// Breakdown holds the five engagement histogram bars. The bars
// are independent counts over replied records, not a partition:
// a reply with every counter set is counted in all of them.
type Breakdown struct {
	TotalReplies   int `json:"total_replies"`
	ViewedReplies  int `json:"viewed_replies"`
	RepliesOnReply int `json:"replies_on_reply"`
	Liked          int `json:"liked"`
	Retweeted      int `json:"retweeted"`
}

// Classify computes the breakdown counts.
func Classify(records []agenda.ReplyRecord) Breakdown {
	var b Breakdown
	for _, r := range records {
		if !r.IsReplied() {
			continue
		}
		m := r.Metrics()
		b.TotalReplies++
		if m.ViewCount > 0 {
			b.ViewedReplies++
		}
		if m.ReplyCount > 0 {
			b.RepliesOnReply++
		}
		if m.LikeCount > 0 {
			b.Liked++
		}
		if m.RetweetCount > 0 {
			b.Retweeted++
		}
	}
	return b
}

// Bars returns the counts in display order.
func (b Breakdown) Bars() [5]int {
	return [5]int{
		b.TotalReplies, b.ViewedReplies, b.RepliesOnReply,
		b.Liked, b.Retweeted,
	}
}

// Shares returns each bar as a percentage of the sum of all
// five bars, rounded to one decimal. All zero when every bar is
// zero.
func (b Breakdown) Shares() [5]float64 {
	bars := b.Bars()
	sum := 0
	for _, v := range bars {
		sum += v
	}
	var out [5]float64
	if sum == 0 {
		return out
	}
	for i, v := range bars {
		out[i] = math.Round(float64(v)/float64(sum)*1000) / 10
	}
	return out
}
