package model

import (
	"regexp"
	"strconv"
	"time"

	"telegram-group-guardian/internal/domain"
)

// Lock duration literals are "<integer><unit>" with unit one of s, m, h, d.
var durationRe = regexp.MustCompile(`^(\d+)([smhd])$`)

var unitSize = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseLockDuration parses a user-supplied lock duration such as "10m" or
// "2d". A malformed literal is a validation error (domain.ErrInvalidDuration),
// never a fault.
func ParseLockDuration(s string) (time.Duration, error) {
	m := durationRe.FindStringSubmatch(s)
	if m == nil {
		return 0, domain.ErrInvalidDuration
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n == 0 {
		return 0, domain.ErrInvalidDuration
	}
	return time.Duration(n) * unitSize[m[2]], nil
}
