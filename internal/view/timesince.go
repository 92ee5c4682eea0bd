package view

import (
	"fmt"
	"math"
	"time"
)

// TimeSince renders the elapsed time between then and now as "N unit(s)".
// Units switch at 60s, 1h, 1d, 7d, 30d and 365d; a month is 30 days.
func TimeSince(now, then time.Time) string {
	seconds := math.Max(now.Sub(then).Seconds(), 0)
	days := seconds / (60 * 60 * 24)

	switch {
	case seconds < 60:
		return plural(seconds, "second")
	case seconds < 3600:
		return plural(seconds/60, "minute")
	case days < 1:
		return plural(seconds/3600, "hour")
	case days < 7:
		return plural(days, "day")
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

// plural floors n; only exactly 1 is singular
func plural(n float64, unit string) string {
	v := int64(math.Floor(n))
	if v == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", v, unit)
}
