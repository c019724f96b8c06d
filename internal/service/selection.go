package service

import (
	"regexp"
	"strconv"
	"strings"

	"stayagent/internal/model"
)

var (
	selectionCmdRe = regexp.MustCompile(`^(?:book|select|choose|take)\s+(?:id\s+|#)?(\d+)$`)
	bareNumberRe   = regexp.MustCompile(`^#?(\d+)$`)
)

// ParseSelection interprets a choose-stage message against the shown
// results. "book 12" prefers a listing id of 12 and falls back to the
// 12th shown result; a bare number is always a 1-based position in the
// shown list. Returns the chosen listing id.
func ParseSelection(input string, results []model.ListingSearchResult) (int64, bool) {
	s := strings.ToLower(strings.TrimSpace(input))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" || len(results) == 0 {
		return 0, false
	}

	if m := selectionCmdRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		for _, r := range results {
			if r.ListingID == n {
				return n, true
			}
		}
		if n >= 1 && int(n) <= len(results) {
			return results[n-1].ListingID, true
		}
		return 0, false
	}

	if m := bareNumberRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > len(results) {
			return 0, false
		}
		return results[n-1].ListingID, true
	}

	return 0, false
}
