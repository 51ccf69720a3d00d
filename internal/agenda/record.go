// Package agenda models an agenda (promotion campaign) and the
// reply records posted for it, and decodes the backend's agenda
// document into that model.
package agenda

import "time"

// Engagement is a point-in-time snapshot of the social counters
// for a posted reply.
type Engagement struct {
	LikeCount    int       `json:"like_count"`
	ReplyCount   int       `json:"reply_count"` // replies received on this reply
	ViewCount    int       `json:"view_count"`
	RetweetCount int       `json:"retweet_count"`
	FetchedAt    time.Time `json:"fetched_at,omitzero"`
}

// Total returns the sum of all four counters.
func (e Engagement) Total() int {
	return e.LikeCount + e.ReplyCount + e.ViewCount + e.RetweetCount
}

// ReplyRecord is one original post plus the reply posted to it,
// if any. An empty ReplyID means the post was skipped.
type ReplyRecord struct {
	ReplyID      string      `json:"reply_id,omitempty"`
	OriginalID   string      `json:"original_id"`
	OriginalText string      `json:"original_text"`
	ResponseText string      `json:"response_text,omitempty"`
	CreatedAt    time.Time   `json:"created_at,omitzero"`
	Engagement   *Engagement `json:"engagement,omitempty"`
}

// IsReplied reports whether a reply was actually posted.
func (r ReplyRecord) IsReplied() bool {
	return r.ReplyID != ""
}

// Metrics returns the engagement counters, all zero when they
// were never fetched.
func (r ReplyRecord) Metrics() Engagement {
	if r.Engagement == nil {
		return Engagement{}
	}
	return *r.Engagement
}

// Clone returns a copy that shares no memory with r.
func (r ReplyRecord) Clone() ReplyRecord {
	if r.Engagement != nil {
		e := *r.Engagement
		r.Engagement = &e
	}
	return r
}

// Input is everything the analytics engine needs for one agenda.
// Records are in insertion order, not chronological order.
type Input struct {
	Title     string        `json:"title"`
	Prompt    string        `json:"prompt"`
	CreatedAt time.Time     `json:"created_at,omitzero"`
	Records   []ReplyRecord `json:"records"`
}
