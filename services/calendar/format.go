package calendar

import (
	"fmt"
	"strings"
	"time"
)

// FormatError reports a date or time key outside the expected grammar. It
// should never fire for internally generated keys; it guards malformed
// external input.
type FormatError struct {
	Kind  string // "date" or "time"
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed %s key %q", e.Kind, e.Value)
}

// FormatDate converts a "2006-01-02" key to a friendly long form,
// e.g. "Monday, January 2".
func FormatDate(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", &FormatError{Kind: "date", Value: date}
	}
	return t.Format("Monday, January 2"), nil
}

// FormatTime converts a 24-hour "15:04" key to a 12-hour form with no
// leading zero, e.g. "2:30 PM".
func FormatTime(slot string) (string, error) {
	t, err := time.Parse(TimeLayout, slot)
	if err != nil {
		return "", &FormatError{Kind: "time", Value: slot}
	}
	return strings.TrimPrefix(t.Format("03:04 PM"), "0"), nil
}
