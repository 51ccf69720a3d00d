package agenda

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// MaxCommentDepth bounds how many wrapper objects ParseComment
// will descend through.
const MaxCommentDepth = 8

// ErrCommentTooDeep is returned when a reply text is nested
// deeper than MaxCommentDepth.
var ErrCommentTooDeep = errors.New("comment nested too deeply")

// Comment is generated reply text in one of the shapes the
// upstream generator produces: either a plain string, or an
// object wrapping another comment. Exactly one of the two is
// meaningful, selected by Wrapped.
type Comment struct {
	Plain   string
	Wrapped *Comment
}

// Text unwraps c down to its plain string.
func (c Comment) Text() string {
	for c.Wrapped != nil {
		c = *c.Wrapped
	}
	return c.Plain
}

// ParseComment converts a raw JSON value into a Comment.
//
// Strings are plain. Objects unwrap through their "comment"
// field when present, otherwise through their first
// string-valued field; arrays unwrap through their first string
// element. Null, missing, other scalars, and containers with no
// string value yield an empty plain comment.
func ParseComment(r gjson.Result) (Comment, error) {
	return parseComment(r, 0)
}

func parseComment(r gjson.Result, depth int) (Comment, error) {
	if depth > MaxCommentDepth {
		return Comment{}, fmt.Errorf(
			"%w: more than %d levels", ErrCommentTooDeep, MaxCommentDepth,
		)
	}
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		return Comment{}, nil
	case r.Type == gjson.String:
		return Comment{Plain: r.Str}, nil
	case !r.IsObject() && !r.IsArray():
		return Comment{}, nil
	}

	var inner gjson.Result
	if r.IsObject() {
		inner = r.Get("comment")
	}
	if !inner.Exists() {
		r.ForEach(func(_, v gjson.Result) bool {
			if v.Type == gjson.String {
				inner = v
				return false
			}
			return true
		})
	}
	if !inner.Exists() {
		return Comment{}, nil
	}
	c, err := parseComment(inner, depth+1)
	if err != nil {
		return Comment{}, err
	}
	return Comment{Wrapped: &c}, nil
}
