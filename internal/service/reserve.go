package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"stayagent/internal/model"
	"stayagent/internal/repository"
	"stayagent/internal/utils"
)

// ErrInvalidStay is returned when the checkout date is not strictly
// after the check-in date.
var ErrInvalidStay = errors.New("checkout date must be after check-in date")

// ReservationService books a chosen listing against finalized criteria.
// Availability flips are delegated to the catalog, which performs the
// check and the flip under one lock; a listing can therefore be booked
// at most once even under concurrent requests.
type ReservationService struct {
	catalog *repository.CatalogRepository
	logbook *repository.ReservationLog
	loc     *time.Location
	now     func() time.Time
}

// NewReservationService creates a reservation service.
func NewReservationService(catalog *repository.CatalogRepository, logbook *repository.ReservationLog, loc *time.Location) *ReservationService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationService{
		catalog: catalog,
		logbook: logbook,
		loc:     loc,
		now:     time.Now,
	}
}

// Reserve books the requested listing. On success the catalog has been
// flipped and persisted; a reservation-log write failure does not void
// the booking and is reported through Warning instead.
func (s *ReservationService) Reserve(req *model.ReserveRequest) (*model.ReserveResponse, error) {
	listing, err := s.catalog.GetByID(req.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsAvailable() {
		return nil, repository.ErrListingUnavailable
	}

	checkin, err := time.ParseInLocation(utils.DateLayout, req.Criteria.CheckinDate, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid check-in date %q: %w", req.Criteria.CheckinDate, err)
	}
	checkout, err := time.ParseInLocation(utils.DateLayout, req.Criteria.CheckoutDate, s.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid checkout date %q: %w", req.Criteria.CheckoutDate, err)
	}
	nights := utils.DaysBetween(checkin, checkout)
	if nights <= 0 {
		return nil, ErrInvalidStay
	}

	total := math.Round(listing.PricePerNight*float64(nights)*100) / 100

	// Re-checks availability and flips atomically; the pre-check above
	// only exists to fail fast with a precise error.
	booked, err := s.catalog.Book(req.ListingID)
	if err != nil {
		return nil, err
	}

	createdAt := s.now().UTC()
	reservation := &model.Reservation{
		ReservationID:  fmt.Sprintf("R-%d-%s", booked.ListingID, createdAt.Format("20060102150405")),
		ListingID:      booked.ListingID,
		Name:           booked.Name,
		Location:       booked.Location,
		PropertyType:   booked.PropertyType,
		PricePerNight:  booked.PricePerNight,
		Rating:         booked.Rating,
		ReviewsCount:   booked.ReviewsCount,
		Amenities:      booked.Amenities,
		CheckinDate:    req.Criteria.CheckinDate,
		CheckoutDate:   req.Criteria.CheckoutDate,
		NumberOfGuests: req.Criteria.NumberOfGuests,
		Nights:         nights,
		EstimatedTotal: total,
		Status:         model.ReservationStatusBooked,
		CreatedUTC:     createdAt.Format(time.RFC3339),
		Username:       req.Username,
	}
	if req.Customer != nil {
		reservation.GuestName = req.Customer.Name
		reservation.GuestEmail = req.Customer.Email
	}

	resp := &model.ReserveResponse{Reservation: reservation}
	if err := s.logbook.Append(reservation); err != nil {
		log.Printf("⚠️ Reservation %s booked but log write failed: %v", reservation.ReservationID, err)
		resp.Warning = "Reservation confirmed, but writing the reservation log failed."
	}
	return resp, nil
}
