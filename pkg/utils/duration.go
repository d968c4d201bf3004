package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration converts an ISO-8601 duration such as PT7H30M or P1DT2H to minutes.
// Seconds are truncated.
func ParseISODuration(value string) (int, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	m := isoDurationPattern.FindStringSubmatch(value)
	if m == nil || value == "P" || value == "PT" {
		return 0, fmt.Errorf("invalid ISO-8601 duration: %q", value)
	}

	part := func(s string) int {
		if s == "" {
			return 0
		}
		n, _ := strconv.Atoi(s)
		return n
	}

	minutes := part(m[1])*24*60 + part(m[2])*60 + part(m[3]) + part(m[4])/60
	return minutes, nil
}

// Constants
const (
	SLASH_DATE_LAYOUT = "02/01/2006"
)

// FormatSlashDate renders a date as dd/mm/yyyy
func FormatSlashDate(t time.Time) string {
	return t.Format(SLASH_DATE_LAYOUT)
}

// MinutesBetween returns whole minutes from start to end, or 0 when end is not after start
func MinutesBetween(start, end time.Time) int {
	if start.IsZero() || !end.After(start) {
		return 0
	}
	return int(end.Sub(start).Minutes())
}
