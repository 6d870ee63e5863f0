package models

import (
	"strconv"
	"strings"
	"time"
)

// ParseTS parses a Slack timestamp string such as "1599934232.150700"
// (Unix seconds plus microseconds) into a time.Time. Plain Unix seconds
// are accepted as well. Returns the zero time for anything else.
func ParseTS(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}

	sec, frac, ok := strings.Cut(ts, ".")
	seconds, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return time.Time{}
	}

	if !ok {
		return time.Unix(seconds, 0).UTC()
	}

	micros, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(seconds, micros*1000).UTC()
}

// CompareTS orders two Slack timestamp strings chronologically. The
// integer second part is compared numerically so timestamps of different
// digit counts still order correctly; the fractional part compares
// lexicographically (Slack pads it to six digits).
func CompareTS(a, b string) int {
	aSec, aFrac, _ := strings.Cut(a, ".")
	bSec, bFrac, _ := strings.Cut(b, ".")

	if len(aSec) != len(bSec) {
		if len(aSec) < len(bSec) {
			return -1
		}
		return 1
	}
	if c := strings.Compare(aSec, bSec); c != 0 {
		return c
	}
	return strings.Compare(aFrac, bFrac)
}
