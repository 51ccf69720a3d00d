package analytics

import (
	"errors"
	"fmt"

	"github.com/wesm/agendastats/internal/agenda"
)

// ErrMalformedRecord matches any *MalformedRecordError via
// errors.Is.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports a record the upstream backend
// should never have produced, such as a posted reply without a
// creation time.
type MalformedRecordError struct {
	Index   int    // position in the input records
	ReplyID string // empty for skipped records
	Reason  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf(
		"malformed record %d (reply %q): %s",
		e.Index, e.ReplyID, e.Reason,
	)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Validate checks every record and returns the first violation.
func Validate(records []agenda.ReplyRecord) error {
	for i, r := range records {
		if err := validateRecord(i, r); err != nil {
			return err
		}
	}
	return nil
}

func validateRecord(i int, r agenda.ReplyRecord) error {
	if r.IsReplied() && r.CreatedAt.IsZero() {
		return &MalformedRecordError{
			Index:   i,
			ReplyID: r.ReplyID,
			Reason:  "replied record has no creation time",
		}
	}
	return nil
}
