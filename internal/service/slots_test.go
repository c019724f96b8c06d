package service

import (
	"reflect"
	"testing"
	"time"
)

func testSlotStore() *SlotStore {
	s := NewSlotStore(time.UTC)
	// Wednesday.
	s.now = func() time.Time { return time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestSlotStoreApply(t *testing.T) {
	tests := []struct {
		name     string
		updates  map[string]any
		outcomes map[string]UpdateOutcome
		check    func(t *testing.T, s *SlotStore)
	}{
		{
			name:     "location trimmed",
			updates:  map[string]any{"location": "  Montreal  "},
			outcomes: map[string]UpdateOutcome{"location": UpdateApplied},
			check: func(t *testing.T, s *SlotStore) {
				if got := s.Criteria().Location; got != "Montreal" {
					t.Errorf("Location = %q, want Montreal", got)
				}
			},
		},
		{
			name:     "blank location ignored",
			updates:  map[string]any{"location": "   "},
			outcomes: map[string]UpdateOutcome{"location": UpdateIgnored},
		},
		{
			name:     "checkin phrase resolved",
			updates:  map[string]any{"date_checkin": "next friday"},
			outcomes: map[string]UpdateOutcome{"date_checkin": UpdateApplied},
			check: func(t *testing.T, s *SlotStore) {
				if got := s.Criteria().CheckinDate; got != "2025-08-22" {
					t.Errorf("CheckinDate = %q, want 2025-08-22", got)
				}
			},
		},
		{
			name:     "unresolvable date leaves slot untouched",
			updates:  map[string]any{"date_checkin": "whenever works"},
			outcomes: map[string]UpdateOutcome{"date_checkin": UpdateParseFailed},
			check: func(t *testing.T, s *SlotStore) {
				if got := s.Criteria().CheckinDate; got != "" {
					t.Errorf("CheckinDate = %q, want empty", got)
				}
			},
		},
		{
			name:     "hotel variants normalize",
			updates:  map[string]any{"property_type": "Boutique Hotel"},
			outcomes: map[string]UpdateOutcome{"property_type": UpdateApplied},
			check: func(t *testing.T, s *SlotStore) {
				if got := s.Criteria().PropertyType; got != "hotel" {
					t.Errorf("PropertyType = %q, want hotel", got)
				}
			},
		},
		{
			name:     "amenity string split and deduped",
			updates:  map[string]any{"amenities": "WiFi, Pool and wifi"},
			outcomes: map[string]UpdateOutcome{"amenities": UpdateApplied},
			check: func(t *testing.T, s *SlotStore) {
				want := []string{"wifi", "pool"}
				if got := s.Criteria().Amenities; !reflect.DeepEqual(got, want) {
					t.Errorf("Amenities = %v, want %v", got, want)
				}
			},
		},
		{
			name:     "amenity list accepted",
			updates:  map[string]any{"amenities": []any{"Gym", "hot tub"}},
			outcomes: map[string]UpdateOutcome{"amenities": UpdateApplied},
			check: func(t *testing.T, s *SlotStore) {
				want := []string{"gym", "hot tub"}
				if got := s.Criteria().Amenities; !reflect.DeepEqual(got, want) {
					t.Errorf("Amenities = %v, want %v", got, want)
				}
			},
		},
		{
			name:     "spelled guest count",
			updates:  map[string]any{"number_of_guests": "four"},
			outcomes: map[string]UpdateOutcome{"number_of_guests": UpdateApplied},
			check: func(t *testing.T, s *SlotStore) {
				if got := s.Criteria().NumberOfGuests; got != 4 {
					t.Errorf("NumberOfGuests = %d, want 4", got)
				}
			},
		},
		{
			name:     "guest phrase with digits",
			updates:  map[string]any{"number_of_guests": "4 guests"},
			outcomes: map[string]UpdateOutcome{"number_of_guests": UpdateApplied},
			check: func(t *testing.T, s *SlotStore) {
				if got := s.Criteria().NumberOfGuests; got != 4 {
					t.Errorf("NumberOfGuests = %d, want 4", got)
				}
			},
		},
		{
			name:     "json number guest count",
			updates:  map[string]any{"number_of_guests": float64(2)},
			outcomes: map[string]UpdateOutcome{"number_of_guests": UpdateApplied},
		},
		{
			name:     "unrecognizable guest count ignored",
			updates:  map[string]any{"number_of_guests": "a bunch"},
			outcomes: map[string]UpdateOutcome{"number_of_guests": UpdateIgnored},
		},
		{
			name:     "zero guests ignored",
			updates:  map[string]any{"number_of_guests": float64(0)},
			outcomes: map[string]UpdateOutcome{"number_of_guests": UpdateIgnored},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSlotStore()
			got := s.Apply(tt.updates)
			if !reflect.DeepEqual(got, tt.outcomes) {
				t.Errorf("Apply() outcomes = %v, want %v", got, tt.outcomes)
			}
			if tt.check != nil {
				tt.check(t, s)
			}
		})
	}
}

func TestSlotStoreUnknownKeysDropped(t *testing.T) {
	s := testSlotStore()
	got := s.Apply(map[string]any{"budget": 500, "location": "Quebec City"})
	if _, ok := got["budget"]; ok {
		t.Error("unknown key should not produce an outcome")
	}
	if got["location"] != UpdateApplied {
		t.Errorf("location outcome = %v, want applied", got["location"])
	}
}

func TestSlotStoreEmptyAmenityProposalClears(t *testing.T) {
	s := testSlotStore()
	s.Apply(map[string]any{"amenities": []any{"wifi"}})
	if len(s.Criteria().Amenities) != 1 {
		t.Fatal("expected amenities to be set")
	}
	s.Apply(map[string]any{"amenities": []any{}})
	if got := s.Criteria().Amenities; len(got) != 0 {
		t.Errorf("Amenities = %v, want cleared", got)
	}
}

func TestSlotStoreCheckoutRepair(t *testing.T) {
	tests := []struct {
		name         string
		updates      map[string]any
		wantCheckout string
	}{
		{
			name:         "checkout equal to checkin",
			updates:      map[string]any{"date_checkin": "2025-09-03", "date_checkout": "2025-09-03"},
			wantCheckout: "2025-09-04",
		},
		{
			name:         "checkout before checkin",
			updates:      map[string]any{"date_checkin": "2025-09-10", "date_checkout": "2025-09-08"},
			wantCheckout: "2025-09-11",
		},
		{
			name:         "valid range untouched",
			updates:      map[string]any{"date_checkin": "2025-09-03", "date_checkout": "2025-09-05"},
			wantCheckout: "2025-09-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSlotStore()
			s.Apply(tt.updates)
			if got := s.Criteria().CheckoutDate; got != tt.wantCheckout {
				t.Errorf("CheckoutDate = %q, want %q", got, tt.wantCheckout)
			}
		})
	}
}

func TestSlotStoreCompleteness(t *testing.T) {
	s := testSlotStore()
	if s.IsComplete() {
		t.Fatal("empty store should not be complete")
	}

	wantMissing := []string{"location", "date_checkin", "date_checkout", "property_type", "amenities", "number_of_guests"}
	if got := s.MissingFields(); !reflect.DeepEqual(got, wantMissing) {
		t.Errorf("MissingFields() = %v, want %v", got, wantMissing)
	}

	s.Apply(map[string]any{
		"location":      "Montreal",
		"date_checkin":  "2025-09-03",
		"property_type": "apartment",
	})
	wantMissing = []string{"date_checkout", "amenities", "number_of_guests"}
	if got := s.MissingFields(); !reflect.DeepEqual(got, wantMissing) {
		t.Errorf("MissingFields() = %v, want %v", got, wantMissing)
	}

	s.Apply(map[string]any{
		"date_checkout":    "2025-09-05",
		"amenities":        []any{"wifi"},
		"number_of_guests": float64(2),
	})
	if !s.IsComplete() {
		t.Errorf("store should be complete, missing %v", s.MissingFields())
	}
}
