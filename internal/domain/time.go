package domain

import "time"

// NowMillis returns the current time as Unix epoch milliseconds, the
// timestamp convention for products and reviews.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// MillisToTime converts epoch milliseconds to UTC time.
func MillisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// NowISO returns the current UTC time as an RFC 3339 string, the timestamp
// convention for learning cards.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
