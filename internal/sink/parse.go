package sink

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ParseRotation interprets a rotation policy: a byte size ("10 MB", "500KB")
// rotates when the file reaches that size, a duration ("24h", "1 day")
// rotates on an interval. Exactly one of the results is set.
func ParseRotation(s string) (sizeMB int, interval time.Duration, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("empty rotation policy")
	}

	if d, ok := parseHumanDuration(s); ok {
		if d <= 0 {
			return 0, 0, fmt.Errorf("non-positive rotation interval %q", s)
		}

		return 0, d, nil
	}

	b, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, 0, fmt.Errorf("rotation %q is neither a size nor a duration", s)
	}

	// humanize reads "MB" as SI; round to the nearest mebibyte for lumberjack.
	sizeMB = int((b + 1<<19) / (1 << 20))
	if sizeMB < 1 {
		sizeMB = 1
	}

	return sizeMB, 0, nil
}

// ParseRetention interprets a retention policy: a bare integer keeps that
// many rotated files, a duration ("7 days") caps their age. Exactly one of
// the results is set.
func ParseRetention(s string) (backups int, ageDays int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("empty retention policy")
	}

	if n, convErr := strconv.Atoi(s); convErr == nil {
		if n < 0 {
			return 0, 0, fmt.Errorf("negative retention count %d", n)
		}

		return n, 0, nil
	}

	d, ok := parseHumanDuration(s)
	if !ok || d <= 0 {
		return 0, 0, fmt.Errorf("retention %q is neither a count nor a duration", s)
	}

	ageDays = int((d + 24*time.Hour - 1) / (24 * time.Hour))
	if ageDays < 1 {
		ageDays = 1
	}

	return 0, ageDays, nil
}

// parseHumanDuration accepts Go duration syntax ("24h") plus loguru-style
// "N unit" phrases ("1 day", "2 weeks", "30 minutes").
func parseHumanDuration(s string) (time.Duration, bool) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}

	fields := strings.Fields(strings.ToLower(s))
	if len(fields) != 2 {
		return 0, false
	}

	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}

	var unit time.Duration
	switch strings.TrimSuffix(fields[1], "s") {
	case "second", "sec":
		unit = time.Second
	case "minute", "min":
		unit = time.Minute
	case "hour", "hr":
		unit = time.Hour
	case "day":
		unit = 24 * time.Hour
	case "week":
		unit = 7 * 24 * time.Hour
	default:
		return 0, false
	}

	return time.Duration(n * float64(unit)), true
}
