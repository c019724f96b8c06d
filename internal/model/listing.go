package model

import "strings"

// Availability flag values as stored in the catalog.
const (
	AvailabilityAvailable = "Available"
	AvailabilityBooked    = "Booked"
)

// Listing represents one row of the listing catalog. The csv tags match
// the catalog file schema; the catalog is read-only to the booking core
// except for the availability flag.
type Listing struct {
	ListingID     int64   `csv:"listing_id" json:"listing_id"`
	Name          string  `csv:"name" json:"name"`
	Location      string  `csv:"location" json:"location"`
	PropertyType  string  `csv:"property_type" json:"property_type"`
	PricePerNight float64 `csv:"price_per_night" json:"price_per_night"`
	Bedrooms      int     `csv:"bedrooms" json:"bedrooms"`
	Rating        float64 `csv:"rating" json:"rating"`
	ReviewsCount  int     `csv:"reviews_count" json:"reviews_count"`
	Amenities     string  `csv:"amenities" json:"amenities"`
	Availability  string  `csv:"availability" json:"availability"`
}

// IsAvailable reports whether the listing can currently be booked.
func (l *Listing) IsAvailable() bool {
	return strings.EqualFold(strings.TrimSpace(l.Availability), AvailabilityAvailable)
}

// ListingSearchResult is a ranked recommendation with scoring metadata.
type ListingSearchResult struct {
	Listing
	AmenityMatches int      `json:"amenity_matches"`
	MatchedReasons []string `json:"matched_reasons"`
}

// RecommendRequest represents a direct recommendation request.
type RecommendRequest struct {
	Criteria *FinalizedCriteria `json:"criteria" binding:"required"`
	TopK     int                `json:"top_k"`
}

// RecommendResponse represents a ranked recommendation response.
type RecommendResponse struct {
	Results []ListingSearchResult `json:"results"`
	Total   int                   `json:"total"`
	Took    int64                 `json:"took_ms"`
}
