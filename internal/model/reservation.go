package model

// ReservationStatus values.
const (
	ReservationStatusBooked = "Booked"
)

// CustomerInfo carries optional guest contact details; the account
// username is the primary identifier for a reservation.
type CustomerInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Reservation is an append-only booking record. It snapshots the
// listing's descriptive fields at booking time and is never mutated
// after creation.
type Reservation struct {
	ReservationID  string  `csv:"reservation_id" json:"reservation_id"`
	ListingID      int64   `csv:"listing_id" json:"listing_id"`
	Name           string  `csv:"name" json:"name"`
	Location       string  `csv:"location" json:"location"`
	PropertyType   string  `csv:"property_type" json:"property_type"`
	PricePerNight  float64 `csv:"price_per_night" json:"price_per_night"`
	Rating         float64 `csv:"rating" json:"rating"`
	ReviewsCount   int     `csv:"reviews_count" json:"reviews_count"`
	Amenities      string  `csv:"amenities" json:"amenities"`
	GuestName      string  `csv:"guest_name" json:"guest_name,omitempty"`
	GuestEmail     string  `csv:"guest_email" json:"guest_email,omitempty"`
	CheckinDate    string  `csv:"date_checkin" json:"date_checkin"`
	CheckoutDate   string  `csv:"date_checkout" json:"date_checkout"`
	NumberOfGuests int     `csv:"number_of_guests" json:"number_of_guests"`
	Nights         int     `csv:"nights" json:"nights"`
	EstimatedTotal float64 `csv:"estimated_total" json:"estimated_total"`
	Status         string  `csv:"status" json:"status"`
	CreatedUTC     string  `csv:"created_utc" json:"created_utc"`
	Username       string  `csv:"username" json:"username,omitempty"`
}

// ReserveRequest represents a booking request for a chosen listing.
type ReserveRequest struct {
	ListingID int64              `json:"listing_id" binding:"required"`
	Criteria  *FinalizedCriteria `json:"criteria" binding:"required"`
	Customer  *CustomerInfo      `json:"customer,omitempty"`
	Username  string             `json:"username,omitempty"`
}

// ReserveResponse wraps a confirmed reservation. Warning is set when the
// booking succeeded but the reservation log could not be written.
type ReserveResponse struct {
	Reservation *Reservation `json:"reservation"`
	Warning     string       `json:"warning,omitempty"`
}

// AdminResetRequest clears the reservation log and optionally flips all
// listings back to Available. Confirm must be exactly "CONFIRM".
type AdminResetRequest struct {
	Confirm        string `json:"confirm" binding:"required"`
	UnbookListings bool   `json:"unbook_listings"`
}
