package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"stayagent/internal/model"
	"stayagent/internal/repository"
)

// Matched reason descriptions.
const (
	ReasonLocationMatch = "Location match"
	ReasonTypeMatch     = "Property type match"
	ReasonSleepsParty   = "Sleeps your party"
	ReasonHighlyRated   = "Highly rated"
)

// amenitySynonyms maps a requested amenity token to the patterns that
// count as providing it. Each matching pattern contributes one point,
// so a listing advertising both "wifi" and "wireless internet" outranks
// one advertising a single variant.
var amenitySynonyms = map[string][]string{
	"wifi":    {`\bwi-?fi\b`, `wireless internet`},
	"gym":     {`\bgym\b`, `fitness cent(?:er|re)`, `fitness room`},
	"pool":    {`\bpool\b`, `swimming pool`},
	"hot tub": {`hot ?tub`, `jacuzzi`},
	"parking": {`parking`},
}

var amenityPatterns = compileAmenityPatterns()

func compileAmenityPatterns() map[string][]*regexp.Regexp {
	out := make(map[string][]*regexp.Regexp, len(amenitySynonyms))
	for token, patterns := range amenitySynonyms {
		compiled := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			compiled = append(compiled, regexp.MustCompile(`(?i)`+p))
		}
		out[token] = compiled
	}
	return out
}

// Recommender ranks catalog listings against finalized criteria.
type Recommender struct {
	catalog     *repository.CatalogRepository
	defaultTopK int
	maxTopK     int
}

// NewRecommender creates a recommender over the given catalog.
func NewRecommender(catalog *repository.CatalogRepository, defaultTopK, maxTopK int) *Recommender {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	if maxTopK < defaultTopK {
		maxTopK = defaultTopK
	}
	return &Recommender{catalog: catalog, defaultTopK: defaultTopK, maxTopK: maxTopK}
}

// Recommend filters the catalog down to bookable candidates and ranks
// them. The pipeline: availability, location, property type, guest
// capacity, amenity scoring, stable ordering, truncation. An empty
// result is a normal outcome, not an error.
func (r *Recommender) Recommend(criteria *model.FinalizedCriteria, topK int) []model.ListingSearchResult {
	if topK <= 0 {
		topK = r.defaultTopK
	}
	if topK > r.maxTopK {
		topK = r.maxTopK
	}

	base := make([]model.Listing, 0)
	for _, l := range r.catalog.All() {
		if !l.IsAvailable() {
			continue
		}
		if !locationMatches(l.Location, criteria.Location) {
			continue
		}
		base = append(base, l)
	}

	// Property type is a soft preference: keep the type-matching subset
	// when there is one, otherwise fall back to the whole location set
	// rather than returning nothing.
	candidates := base
	typeMatched := false
	if wanted := strings.ToLower(strings.TrimSpace(criteria.PropertyType)); wanted != "" {
		typed := make([]model.Listing, 0, len(base))
		for _, l := range base {
			if typeMatches(l.PropertyType, wanted) {
				typed = append(typed, l)
			}
		}
		if len(typed) > 0 {
			candidates = typed
			typeMatched = true
		}
	}

	results := make([]model.ListingSearchResult, 0, topK)
	for _, listing := range candidates {
		l := listing
		if !sleepsParty(l.Bedrooms, criteria.NumberOfGuests) {
			continue
		}

		matches := scoreAmenities(l.Amenities, criteria.Amenities)
		results = append(results, model.ListingSearchResult{
			Listing:        l,
			AmenityMatches: matches,
			MatchedReasons: matchedReasons(&l, criteria, matches, typeMatched),
		})
	}

	// Stable so catalog order breaks remaining ties deterministically.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].AmenityMatches != results[j].AmenityMatches {
			return results[i].AmenityMatches > results[j].AmenityMatches
		}
		if results[i].Rating != results[j].Rating {
			return results[i].Rating > results[j].Rating
		}
		return results[i].ReviewsCount > results[j].ReviewsCount
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// locationMatches is a case-insensitive containment check: the
// requested place must appear in the listing's location, so "montreal"
// matches "Montreal, QC" but not the other way around.
func locationMatches(listingLocation, wanted string) bool {
	a := strings.ToLower(strings.TrimSpace(listingLocation))
	b := strings.ToLower(strings.TrimSpace(wanted))
	if b == "" {
		return true
	}
	return strings.Contains(a, b)
}

// typeMatches checks whether the requested type appears in the
// listing's type, so "serviced apartment" satisfies "apartment".
// wanted must already be lowercased and trimmed.
func typeMatches(listingType, wanted string) bool {
	return strings.Contains(strings.ToLower(strings.TrimSpace(listingType)), wanted)
}

// sleepsParty applies the two-guests-per-bedroom capacity rule, with
// every listing assumed to sleep at least two.
func sleepsParty(bedrooms, guests int) bool {
	if guests <= 0 {
		return true
	}
	needed := (guests + 1) / 2
	if needed < 1 {
		needed = 1
	}
	return bedrooms >= needed
}

// scoreAmenities counts how many requested-amenity patterns appear in
// the listing's amenity text. Tokens without a synonym table fall back
// to a plain substring check.
func scoreAmenities(amenityText string, requested []string) int {
	text := strings.ToLower(amenityText)
	score := 0
	for _, token := range requested {
		token = strings.ToLower(strings.TrimSpace(token))
		if token == "" {
			continue
		}
		if patterns, ok := amenityPatterns[token]; ok {
			for _, p := range patterns {
				if p.MatchString(text) {
					score++
				}
			}
			continue
		}
		if strings.Contains(text, token) {
			score++
		}
	}
	return score
}

func matchedReasons(l *model.Listing, criteria *model.FinalizedCriteria, amenityMatches int, typeMatched bool) []string {
	reasons := []string{ReasonLocationMatch}
	if typeMatched {
		reasons = append(reasons, ReasonTypeMatch)
	}
	if criteria.NumberOfGuests > 0 {
		reasons = append(reasons, ReasonSleepsParty)
	}
	if amenityMatches > 0 {
		noun := "amenities"
		if amenityMatches == 1 {
			noun = "amenity"
		}
		reasons = append(reasons, fmt.Sprintf("%d matched %s", amenityMatches, noun))
	}
	if l.Rating >= 4.5 {
		reasons = append(reasons, ReasonHighlyRated)
	}
	return reasons
}
