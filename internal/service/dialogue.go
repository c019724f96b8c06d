package service

import (
	"context"
	"log"
	"time"

	"stayagent/internal/model"
)

// DialogueState is the controller's coarse lifecycle.
type DialogueState string

const (
	StateCollecting DialogueState = "collecting"
	StateComplete   DialogueState = "complete"
)

// Follow-up questions keyed by slot. One question per turn, aimed at
// the first missing slot in canonical order.
var slotQuestions = map[string]string{
	model.SlotLocation:     "Which city would you like to stay in?",
	model.SlotCheckin:      "When would you like to check in?",
	model.SlotCheckout:     "And when will you check out?",
	model.SlotPropertyType: "What kind of place are you after - apartment, house, studio, cabin, penthouse or hotel?",
	model.SlotAmenities:    "Any must-have amenities, like wifi, a pool or parking?",
	model.SlotGuests:       "How many guests will be staying?",
}

// DialogueController drives slot collection for one conversation. It
// runs the extractor on each utterance, feeds proposed updates through
// the slot store, and either finalizes the criteria or returns exactly
// one follow-up question. Extractor failures never surface to the user;
// they degrade to a question about the first missing slot.
type DialogueController struct {
	slots     *SlotStore
	extractor SlotExtractor
	timeout   time.Duration

	state     DialogueState
	finalized *model.FinalizedCriteria
}

// NewDialogueController creates a controller in the collecting state.
func NewDialogueController(slots *SlotStore, extractor SlotExtractor, timeout time.Duration) *DialogueController {
	return &DialogueController{
		slots:     slots,
		extractor: extractor,
		timeout:   timeout,
		state:     StateCollecting,
	}
}

// State returns the current lifecycle state.
func (d *DialogueController) State() DialogueState {
	return d.state
}

// Criteria returns the current (possibly partial) slot record.
func (d *DialogueController) Criteria() model.BookingCriteria {
	return d.slots.Criteria()
}

// Reset returns the controller to an empty collecting state.
func (d *DialogueController) Reset() {
	d.slots.Reset()
	d.finalized = nil
	d.state = StateCollecting
}

// Turn processes one user utterance. Once complete, the controller is
// idempotent: it returns the same finalized snapshot without calling
// the extractor again.
func (d *DialogueController) Turn(ctx context.Context, utterance string) *model.TurnResult {
	if d.state == StateComplete {
		return &model.TurnResult{Kind: model.TurnFinalized, Criteria: d.finalized}
	}

	known := d.slots.Criteria()

	extractCtx := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	result, err := d.extractor.Extract(extractCtx, &known, utterance)
	if err != nil {
		log.Printf("⚠️ Extraction failed, falling back to slot question: %v", err)
		return &model.TurnResult{Kind: model.TurnAsk, Question: d.nextQuestion("")}
	}

	d.slots.Apply(result.Updates)

	if d.slots.IsComplete() {
		criteria := d.slots.Criteria()
		d.finalized = criteria.Finalize()
		d.state = StateComplete
		return &model.TurnResult{Kind: model.TurnFinalized, Criteria: d.finalized}
	}

	question := ""
	if len(result.Updates) == 0 {
		// Nothing extracted; the model's own clarification, if any,
		// reads more naturally than a canned slot prompt.
		question = result.Question
	}
	return &model.TurnResult{Kind: model.TurnAsk, Question: d.nextQuestion(question)}
}

// nextQuestion picks the follow-up for the first missing slot unless a
// preferred question is supplied.
func (d *DialogueController) nextQuestion(preferred string) string {
	if preferred != "" {
		return preferred
	}
	missing := d.slots.MissingFields()
	if len(missing) == 0 {
		return ""
	}
	if q, ok := slotQuestions[missing[0]]; ok {
		return q
	}
	return "Could you tell me more about your stay?"
}
