package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"stayagent/internal/model"
	"stayagent/internal/repository"
	"stayagent/internal/utils"
)

// Greeting opens every new conversation.
const Greeting = "Hi! I can help you find and book a stay. Where would you like to go?"

const choosePrompt = "Reply with a result number or 'book <listing id>' to pick one, or 'restart' to start over."

// AgentService orchestrates a full booking conversation: slot
// collection, recommendation, selection, confirmation and booking.
// Analytics writes are fire-and-forget and never affect the reply.
type AgentService struct {
	sessions    *SessionManager
	recommender *Recommender
	reserver    *ReservationService
	analytics   *repository.AnalyticsRepository
	loc         *time.Location
}

// NewAgentService creates the conversation orchestrator. analytics may
// be nil.
func NewAgentService(sessions *SessionManager, recommender *Recommender, reserver *ReservationService, analytics *repository.AnalyticsRepository, loc *time.Location) *AgentService {
	if loc == nil {
		loc = time.UTC
	}
	return &AgentService{
		sessions:    sessions,
		recommender: recommender,
		reserver:    reserver,
		analytics:   analytics,
		loc:         loc,
	}
}

// OpenSession starts a new conversation.
func (a *AgentService) OpenSession(username string) *model.SessionResponse {
	conv := a.sessions.Open(username)
	return &model.SessionResponse{SessionID: conv.ID, Greeting: Greeting}
}

// ResetSession clears a conversation back to an empty collection stage.
func (a *AgentService) ResetSession(id string) (*model.SessionResponse, error) {
	conv, err := a.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	conv.mu.Lock()
	conv.resetLocked()
	conv.mu.Unlock()
	return &model.SessionResponse{SessionID: conv.ID, Greeting: Greeting}, nil
}

// HandleTurn processes one user message for a conversation.
func (a *AgentService) HandleTurn(ctx context.Context, sessionID, message string) (*model.ChatResponse, error) {
	conv, err := a.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	start := time.Now()
	resp := a.handleTurnLocked(ctx, conv, message)
	resp.SessionID = conv.ID
	resp.Stage = conv.stage

	if a.analytics != nil {
		go func(utterance, outcome string, missing []string, took int) {
			logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.analytics.LogTurn(logCtx, conv.ID, utterance, outcome, missing, took); err != nil {
				log.Printf("⚠️ Failed to log turn: %v", err)
			}
		}(message, string(resp.Type), conv.controller.slots.MissingFields(), int(time.Since(start).Milliseconds()))
	}
	return resp, nil
}

func (a *AgentService) handleTurnLocked(ctx context.Context, conv *Conversation, message string) *model.ChatResponse {
	trimmed := strings.ToLower(strings.TrimSpace(message))

	switch trimmed {
	case "restart", "start over", "new search":
		conv.resetLocked()
		return &model.ChatResponse{Type: model.ReplyMessage, Message: Greeting}
	case "quit", "exit", "bye":
		conv.stage = model.StageIdle
		return &model.ChatResponse{Type: model.ReplyMessage, Message: "Thanks for stopping by. Type 'restart' whenever you want to plan another stay."}
	}

	switch conv.stage {
	case model.StageCollect:
		return a.collectTurn(ctx, conv, message)
	case model.StageChoose:
		return a.chooseTurn(conv, message)
	case model.StageConfirm:
		return a.confirmTurn(conv, message)
	default: // idle
		return &model.ChatResponse{Type: model.ReplyMessage, Message: "We're all set. Type 'restart' to begin a new search."}
	}
}

func (a *AgentService) collectTurn(ctx context.Context, conv *Conversation, message string) *model.ChatResponse {
	turn := conv.controller.Turn(ctx, message)
	if turn.Kind == model.TurnAsk {
		return &model.ChatResponse{Type: model.ReplyQuestion, Message: turn.Question}
	}

	start := time.Now()
	results := a.recommender.Recommend(turn.Criteria, 0)
	a.logSearch(conv.ID, turn.Criteria, results, time.Since(start))

	if len(results) == 0 {
		conv.stage = model.StageIdle
		return &model.ChatResponse{
			Type:     model.ReplyMessage,
			Criteria: turn.Criteria,
			Message:  "No available listings matched all of your criteria. Type 'restart' to try a different search.",
		}
	}

	conv.results = results
	conv.stage = model.StageChoose
	return &model.ChatResponse{
		Type:     model.ReplyRecommendations,
		Criteria: turn.Criteria,
		Results:  results,
		Message:  fmt.Sprintf("Here are the top %d matches. %s", len(results), choosePrompt),
	}
}

func (a *AgentService) chooseTurn(conv *Conversation, message string) *model.ChatResponse {
	id, ok := ParseSelection(message, conv.results)
	if !ok {
		return &model.ChatResponse{
			Type:    model.ReplyMessage,
			Results: conv.results,
			Message: fmt.Sprintf("Sorry, I didn't catch a choice. %s", choosePrompt),
		}
	}

	var chosen *model.ListingSearchResult
	for i := range conv.results {
		if conv.results[i].ListingID == id {
			chosen = &conv.results[i]
			break
		}
	}
	if chosen == nil {
		return &model.ChatResponse{
			Type:    model.ReplyMessage,
			Results: conv.results,
			Message: fmt.Sprintf("That listing isn't in the results above. %s", choosePrompt),
		}
	}

	conv.pendingID = id
	conv.stage = model.StageConfirm

	criteria := conv.controller.finalized
	nights := a.nights(criteria)
	total := chosen.PricePerNight * float64(nights)
	return &model.ChatResponse{
		Type: model.ReplyConfirm,
		Message: fmt.Sprintf("Book %q in %s for %d night(s), %s to %s, at $%.2f/night (estimated total $%.2f)? (yes/no)",
			chosen.Name, chosen.Location, nights, criteria.CheckinDate, criteria.CheckoutDate, chosen.PricePerNight, total),
	}
}

func (a *AgentService) confirmTurn(conv *Conversation, message string) *model.ChatResponse {
	switch strings.ToLower(strings.TrimSpace(message)) {
	case "yes", "y", "yes please", "confirm", "book it", "sure", "ok", "okay":
		return a.finalizeBooking(conv)
	case "no", "n", "nope", "cancel":
		conv.stage = model.StageChoose
		conv.pendingID = 0
		return &model.ChatResponse{
			Type:    model.ReplyMessage,
			Results: conv.results,
			Message: fmt.Sprintf("No problem, nothing was booked. %s", choosePrompt),
		}
	default:
		return &model.ChatResponse{Type: model.ReplyConfirm, Message: "Please answer 'yes' to book it or 'no' to go back to the results."}
	}
}

func (a *AgentService) finalizeBooking(conv *Conversation) *model.ChatResponse {
	resp, err := a.reserver.Reserve(&model.ReserveRequest{
		ListingID: conv.pendingID,
		Criteria:  conv.controller.finalized,
		Username:  conv.Username,
	})
	if err != nil {
		conv.stage = model.StageChoose
		conv.pendingID = 0
		return &model.ChatResponse{
			Type:    model.ReplyMessage,
			Results: conv.results,
			Message: fmt.Sprintf("I couldn't book that one (%v). %s", err, choosePrompt),
		}
	}

	conv.stage = model.StageIdle
	conv.pendingID = 0

	if a.analytics != nil {
		go func(reservationID string, listingID int64) {
			logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.analytics.LogBooking(logCtx, conv.ID, reservationID, listingID); err != nil {
				log.Printf("⚠️ Failed to log booking: %v", err)
			}
		}(resp.Reservation.ReservationID, resp.Reservation.ListingID)
	}

	r := resp.Reservation
	return &model.ChatResponse{
		Type:        model.ReplyReservation,
		Reservation: r,
		Warning:     resp.Warning,
		Message: fmt.Sprintf("Booked! %s at %q, %s to %s, %d night(s), estimated total $%.2f. Your reservation id is %s.",
			r.Location, r.Name, r.CheckinDate, r.CheckoutDate, r.Nights, r.EstimatedTotal, r.ReservationID),
	}
}

func (a *AgentService) logSearch(sessionID string, criteria *model.FinalizedCriteria, results []model.ListingSearchResult, took time.Duration) {
	if a.analytics == nil {
		return
	}
	ids := make([]int64, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ListingID)
	}
	go func() {
		logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.analytics.LogSearch(logCtx, sessionID, criteria, len(results), ids, int(took.Milliseconds())); err != nil {
			log.Printf("⚠️ Failed to log search: %v", err)
		}
	}()
}

func (a *AgentService) nights(criteria *model.FinalizedCriteria) int {
	in, err := time.ParseInLocation(utils.DateLayout, criteria.CheckinDate, a.loc)
	if err != nil {
		return 1
	}
	out, err := time.ParseInLocation(utils.DateLayout, criteria.CheckoutDate, a.loc)
	if err != nil {
		return 1
	}
	n := utils.DaysBetween(in, out)
	if n < 1 {
		n = 1
	}
	return n
}
