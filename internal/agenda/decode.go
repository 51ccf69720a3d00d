package agenda

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/wesm/agendastats/internal/timeutil"
)

// ErrInvalidDocument is returned when the agenda document is
// not valid JSON or not a JSON object.
var ErrInvalidDocument = errors.New("invalid agenda document")

// Decode parses the backend's agenda document.
//
// The engagement block is best-effort: a missing or non-object
// engagement decodes as nil, and negative or non-numeric
// counters decode as zero. Timestamps that fail to parse decode
// as the zero time; the analytics engine rejects replied
// records without a creation time.
func Decode(data []byte) (Input, error) {
	if !gjson.ValidBytes(data) {
		return Input{}, ErrInvalidDocument
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Input{}, fmt.Errorf(
			"%w: top level is not an object", ErrInvalidDocument,
		)
	}

	in := Input{
		Title:  doc.Get("title").String(),
		Prompt: doc.Get("prompt").String(),
	}
	in.CreatedAt, _ = timeutil.Parse(doc.Get("createdAt").Str)

	tweets := doc.Get("tweets")
	if tweets.Exists() && !tweets.IsArray() {
		return Input{}, fmt.Errorf(
			"%w: tweets is not an array", ErrInvalidDocument,
		)
	}

	var decodeErr error
	tweets.ForEach(func(_, t gjson.Result) bool {
		rec, err := decodeRecord(t)
		if err != nil {
			decodeErr = fmt.Errorf(
				"decoding record %d: %w", len(in.Records), err,
			)
			return false
		}
		in.Records = append(in.Records, rec)
		return true
	})
	if decodeErr != nil {
		return Input{}, decodeErr
	}
	return in, nil
}

func decodeRecord(t gjson.Result) (ReplyRecord, error) {
	comment, err := ParseComment(t.Get("responseComment"))
	if err != nil {
		return ReplyRecord{}, err
	}
	rec := ReplyRecord{
		ReplyID:      t.Get("replyTweetId").String(),
		OriginalID:   t.Get("originalTweetId").String(),
		OriginalText: t.Get("originalTweetText").String(),
		ResponseText: comment.Text(),
		Engagement:   decodeEngagement(t.Get("engagement")),
	}
	rec.CreatedAt, _ = timeutil.Parse(t.Get("createdAt").Str)
	return rec, nil
}

func decodeEngagement(e gjson.Result) *Engagement {
	if !e.IsObject() {
		return nil
	}
	out := &Engagement{
		LikeCount:    counter(e.Get("like_count")),
		ReplyCount:   counter(e.Get("reply_count")),
		ViewCount:    counter(e.Get("views_count")),
		RetweetCount: counter(e.Get("retweet_count")),
	}
	out.FetchedAt, _ = timeutil.Parse(e.Get("fetchedAt").Str)
	return out
}

// counter reads a non-negative integer counter. Numeric strings
// are accepted since some upstream payloads quote large counts.
func counter(v gjson.Result) int {
	var n int64
	switch v.Type {
	case gjson.Number, gjson.String:
		n = v.Int()
	default:
		return 0
	}
	if n < 0 {
		return 0
	}
	return int(n)
}
