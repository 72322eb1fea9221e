package datekey

import (
	"fmt"
	"time"
)

// DayKey formats a local calendar date as "YYYY-MM-DD" with zero-padded
// month and day. The fixed-width format keeps lexicographic ordering of
// keys consistent with chronological ordering, which range queries over
// the history ledger rely on.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// Today returns the key for the current local date.
func Today() string {
	return DayKey(time.Now())
}
