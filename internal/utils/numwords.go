package utils

import (
	"strconv"
	"strings"
)

// numberWords maps spelled-out counts to integers. Relative date phrases
// and guest counts only need the small range users actually type.
var numberWords = map[string]int{
	"zero":   0,
	"one":    1,
	"two":    2,
	"three":  3,
	"four":   4,
	"five":   5,
	"six":    6,
	"seven":  7,
	"eight":  8,
	"nine":   9,
	"ten":    10,
	"eleven": 11,
	"twelve": 12,
}

// ParseCount parses a digit string or a spelled-out number zero through
// twelve. Returns false when the token is neither.
func ParseCount(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if n, ok := numberWords[s]; ok {
		return n, true
	}
	return 0, false
}
