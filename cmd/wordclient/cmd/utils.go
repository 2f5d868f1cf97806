package cmd

import (
	"fmt"
	"strings"
	"time"
)

func getSimpleDurationFormat(duration time.Duration) string {
	hours := duration.Hours()
	var format string

	if hours >= 24 {
		format = fmt.Sprintf("%.0f day", hours/24)
	} else if hours > 1 {
		format = fmt.Sprintf("%.0f hour", hours)
	} else if hours*60 > 1 {
		format = fmt.Sprintf("%.0f minute", hours*60)
	} else {
		format = fmt.Sprintf("%.0f second", hours*60*60)
	}

	if strings.Split(format, " ")[0] != "1" {
		format += "s"
	}

	return format
}

func getTimeSinceString(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "never"
	}

	return getSimpleDurationFormat(now.Sub(t)) + " ago"
}
