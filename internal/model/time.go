package model

import "time"

// TimeLayout is the text form used for timestamps in API responses.
const TimeLayout = "2006-01-02T15:04:05"

func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}
