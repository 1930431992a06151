// Package timeutil holds minute-of-day conversions shared by the routine
// engine and the API layer.
package timeutil

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	dayNames      = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	shortDayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
)

// MinutesToTimeString renders a minute-of-day as zero-padded "HH:MM".
// Input is expected in [0,1439]; out-of-range values are not rejected and
// simply produce an out-of-range hour field.
func MinutesToTimeString(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// TimeStringToMinutes parses "HH:MM" back into a minute-of-day. Callers
// are expected to pre-validate input; anything that is not two integers
// around a colon is reported as an error.
func TimeStringToMinutes(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time string %q", s)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", s, err)
	}
	mins, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", s, err)
	}
	return hours*60 + mins, nil
}

// FormatDuration renders a minute count for display: "45m", "2h", "1h 30m".
// Fractional input is rounded to the nearest minute first, so a trailing
// "0m" is never emitted.
func FormatDuration(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 60 {
		return strconv.Itoa(total) + "m"
	}
	hours := total / 60
	rem := total % 60
	if rem == 0 {
		return strconv.Itoa(hours) + "h"
	}
	return fmt.Sprintf("%dh %dm", hours, rem)
}

// DayName returns the English day name for a 0-indexed day of week
// (0 = Sunday), or its three-letter form when short is set. Out-of-range
// days yield an empty string.
func DayName(dayOfWeek int, short bool) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return ""
	}
	if short {
		return shortDayNames[dayOfWeek]
	}
	return dayNames[dayOfWeek]
}
