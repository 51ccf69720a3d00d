package analytics

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/wesm/agendastats/internal/agenda"
)

func mustTime(t *testing.T, ts string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		t.Fatalf("parse %q: %v", ts, err)
	}
	return v
}

// reply builds a posted reply. Pass nil e for a reply whose
// metrics were never fetched.
func reply(
	t *testing.T, id, ts string, e *agenda.Engagement,
) agenda.ReplyRecord {
	t.Helper()
	return agenda.ReplyRecord{
		ReplyID:    id,
		OriginalID: "orig-" + id,
		CreatedAt:  mustTime(t, ts),
		Engagement: e,
	}
}

func skipped(id string) agenda.ReplyRecord {
	return agenda.ReplyRecord{OriginalID: "orig-" + id}
}

func views(n int) *agenda.Engagement {
	return &agenda.Engagement{ViewCount: n}
}

func replyIDs(recs []agenda.ReplyRecord) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ReplyID
	}
	return ids
}
