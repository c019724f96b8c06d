package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"stayagent/internal/model"
	"stayagent/internal/utils"
)

// UpdateOutcome names what happened to one proposed slot value.
type UpdateOutcome string

const (
	UpdateApplied     UpdateOutcome = "applied"
	UpdateIgnored     UpdateOutcome = "ignored"
	UpdateParseFailed UpdateOutcome = "parse_failed"
)

var digitsRe = regexp.MustCompile(`\d+`)

// SlotStore owns the evolving booking criteria for one conversation.
// Each proposed update passes a per-field normalization gate: a value
// that fails its gate leaves the existing slot untouched. After every
// batch the store repairs a checkout on or before check-in to exactly
// one night.
type SlotStore struct {
	criteria model.BookingCriteria
	loc      *time.Location
	now      func() time.Time
}

// NewSlotStore creates an empty slot store. Date phrases are resolved
// against the current instant in loc.
func NewSlotStore(loc *time.Location) *SlotStore {
	if loc == nil {
		loc = time.UTC
	}
	return &SlotStore{loc: loc, now: time.Now}
}

// Criteria returns a copy of the current slot record.
func (s *SlotStore) Criteria() model.BookingCriteria {
	cp := s.criteria
	cp.Amenities = append([]string(nil), s.criteria.Amenities...)
	return cp
}

// Reset clears every slot.
func (s *SlotStore) Reset() {
	s.criteria = model.BookingCriteria{}
}

// IsComplete reports whether all six required slots are populated.
func (s *SlotStore) IsComplete() bool {
	return len(s.MissingFields()) == 0
}

// MissingFields returns the unset slots in canonical order. The first
// entry drives the next follow-up question.
func (s *SlotStore) MissingFields() []string {
	missing := make([]string, 0, len(model.RequiredSlots))
	for _, slot := range model.RequiredSlots {
		if !s.has(slot) {
			missing = append(missing, slot)
		}
	}
	return missing
}

func (s *SlotStore) has(slot string) bool {
	switch slot {
	case model.SlotLocation:
		return s.criteria.Location != ""
	case model.SlotCheckin:
		return s.criteria.CheckinDate != ""
	case model.SlotCheckout:
		return s.criteria.CheckoutDate != ""
	case model.SlotPropertyType:
		return s.criteria.PropertyType != ""
	case model.SlotAmenities:
		return len(s.criteria.Amenities) > 0
	case model.SlotGuests:
		return s.criteria.NumberOfGuests > 0
	}
	return false
}

// Apply runs one batch of proposed updates through the per-field gates
// and returns the outcome for each recognized slot. Unknown keys are
// dropped silently. The checkout repair runs once after the whole
// batch, so a single message carrying both dates is repaired against
// its own check-in.
func (s *SlotStore) Apply(updates map[string]any) map[string]UpdateOutcome {
	outcomes := make(map[string]UpdateOutcome, len(updates))
	for _, slot := range model.RequiredSlots {
		value, ok := updates[slot]
		if !ok {
			continue
		}
		outcomes[slot] = s.applyOne(slot, value)
	}
	s.repairCheckout()
	return outcomes
}

func (s *SlotStore) applyOne(slot string, value any) UpdateOutcome {
	switch slot {
	case model.SlotLocation:
		v := strings.TrimSpace(toString(value))
		if v == "" {
			return UpdateIgnored
		}
		s.criteria.Location = v
		return UpdateApplied

	case model.SlotCheckin, model.SlotCheckout:
		raw := strings.TrimSpace(toString(value))
		if raw == "" {
			return UpdateIgnored
		}
		d, err := utils.ResolveDate(raw, s.now(), s.loc)
		if err != nil {
			return UpdateParseFailed
		}
		if slot == model.SlotCheckin {
			s.criteria.CheckinDate = utils.FormatDate(d)
		} else {
			s.criteria.CheckoutDate = utils.FormatDate(d)
		}
		return UpdateApplied

	case model.SlotPropertyType:
		v := strings.ToLower(strings.TrimSpace(toString(value)))
		if v == "" {
			return UpdateIgnored
		}
		// "boutique hotel", "hotel room" and friends all mean hotel.
		if strings.Contains(v, "hotel") {
			v = "hotel"
		}
		s.criteria.PropertyType = v
		return UpdateApplied

	case model.SlotAmenities:
		tokens, ok := normalizeAmenities(value)
		if !ok {
			return UpdateIgnored
		}
		// An explicit empty proposal clears the slot back to unset.
		s.criteria.Amenities = tokens
		return UpdateApplied

	case model.SlotGuests:
		n, ok := parseGuests(value)
		if !ok || n <= 0 {
			return UpdateIgnored
		}
		s.criteria.NumberOfGuests = n
		return UpdateApplied
	}
	return UpdateIgnored
}

// repairCheckout bumps a checkout on or before check-in to the day
// after check-in.
func (s *SlotStore) repairCheckout() {
	if s.criteria.CheckinDate == "" || s.criteria.CheckoutDate == "" {
		return
	}
	in, err := time.ParseInLocation(utils.DateLayout, s.criteria.CheckinDate, s.loc)
	if err != nil {
		return
	}
	out, err := time.ParseInLocation(utils.DateLayout, s.criteria.CheckoutDate, s.loc)
	if err != nil {
		return
	}
	if !out.After(in) {
		s.criteria.CheckoutDate = utils.FormatDate(in.AddDate(0, 0, 1))
	}
}

// normalizeAmenities accepts a list or a comma/"and"-delimited string
// and returns lowercase trimmed tokens. ok is false only when the value
// has an unusable type; an empty result with ok=true means "clear".
func normalizeAmenities(value any) ([]string, bool) {
	var raw []string
	switch v := value.(type) {
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			raw = append(raw, toString(item))
		}
	case string:
		parts := strings.FieldsFunc(v, func(r rune) bool {
			return r == ',' || r == ';'
		})
		for _, p := range parts {
			for _, sub := range strings.Split(p, " and ") {
				raw = append(raw, sub)
			}
		}
	case nil:
		raw = nil
	default:
		return nil, false
	}

	tokens := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tokens = append(tokens, t)
	}
	return tokens, true
}

// parseGuests accepts ints, JSON numbers, digit strings, spelled-out
// small numbers and phrases like "4 guests".
func parseGuests(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		s := strings.TrimSpace(v)
		if n, ok := utils.ParseCount(s); ok {
			return n, true
		}
		if m := digitsRe.FindString(s); m != "" {
			var n int
			if _, err := fmt.Sscanf(m, "%d", &n); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
