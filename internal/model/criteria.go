package model

// Slot field names. The order of RequiredSlots drives follow-up question
// selection: the first missing slot is the one the agent asks about next.
const (
	SlotLocation     = "location"
	SlotCheckin      = "date_checkin"
	SlotCheckout     = "date_checkout"
	SlotPropertyType = "property_type"
	SlotAmenities    = "amenities"
	SlotGuests       = "number_of_guests"
)

// RequiredSlots is the canonical slot order.
var RequiredSlots = []string{
	SlotLocation,
	SlotCheckin,
	SlotCheckout,
	SlotPropertyType,
	SlotAmenities,
	SlotGuests,
}

// BookingCriteria is the evolving slot record for one conversation.
// Zero values mean "unset"; dates are canonical YYYY-MM-DD strings once set.
type BookingCriteria struct {
	Location       string   `json:"location,omitempty"`
	CheckinDate    string   `json:"date_checkin,omitempty"`
	CheckoutDate   string   `json:"date_checkout,omitempty"`
	PropertyType   string   `json:"property_type,omitempty"`
	Amenities      []string `json:"amenities,omitempty"`
	NumberOfGuests int      `json:"number_of_guests,omitempty"`
}

// FinalizedCriteria is the immutable snapshot taken the moment every
// required slot is populated. Its JSON shape is the handoff contract
// between the dialogue controller and the recommender.
type FinalizedCriteria struct {
	Location       string   `json:"location"`
	CheckinDate    string   `json:"date_checkin"`
	CheckoutDate   string   `json:"date_checkout"`
	PropertyType   string   `json:"property_type"`
	Amenities      []string `json:"amenities"`
	NumberOfGuests int      `json:"number_of_guests"`
}

// Finalize snapshots the current criteria. Callers must only invoke it
// once the record is complete.
func (c *BookingCriteria) Finalize() *FinalizedCriteria {
	amenities := make([]string, len(c.Amenities))
	copy(amenities, c.Amenities)
	return &FinalizedCriteria{
		Location:       c.Location,
		CheckinDate:    c.CheckinDate,
		CheckoutDate:   c.CheckoutDate,
		PropertyType:   c.PropertyType,
		Amenities:      amenities,
		NumberOfGuests: c.NumberOfGuests,
	}
}

// ExtractionResult is the structured output of the external extraction
// capability for one utterance: zero or more proposed raw slot values
// (dates as the user phrased them, not yet normalized), or a follow-up
// question when nothing was extractable.
type ExtractionResult struct {
	Updates  map[string]any `json:"updates,omitempty"`
	Question string         `json:"question,omitempty"`
}

// TurnKind discriminates the outcome of one dialogue turn.
type TurnKind string

const (
	TurnFinalized TurnKind = "finalized"
	TurnAsk       TurnKind = "ask"
)

// TurnResult is the tagged result of a dialogue turn: either the
// finalized criteria or a single next question, never both.
type TurnResult struct {
	Kind     TurnKind           `json:"kind"`
	Criteria *FinalizedCriteria `json:"criteria,omitempty"`
	Question string             `json:"question,omitempty"`
}
