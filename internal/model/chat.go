package model

// Conversation stages. A conversation collects slots, lets the user
// choose from ranked results, asks for a yes/no confirmation, and goes
// idle after a completed or abandoned booking.
const (
	StageCollect = "collect"
	StageChoose  = "choose"
	StageConfirm = "confirm"
	StageIdle    = "idle"
)

// ChatRequest is one user turn in a conversation.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ChatReplyType discriminates what the assistant is sending back.
type ChatReplyType string

const (
	ReplyMessage         ChatReplyType = "message"
	ReplyQuestion        ChatReplyType = "question"
	ReplyRecommendations ChatReplyType = "recommendations"
	ReplyConfirm         ChatReplyType = "confirm"
	ReplyReservation     ChatReplyType = "reservation"
)

// ChatResponse is the assistant's reply for one turn.
type ChatResponse struct {
	SessionID   string                `json:"session_id"`
	Stage       string                `json:"stage"`
	Type        ChatReplyType         `json:"type"`
	Message     string                `json:"message"`
	Criteria    *FinalizedCriteria    `json:"criteria,omitempty"`
	Results     []ListingSearchResult `json:"results,omitempty"`
	Reservation *Reservation          `json:"reservation,omitempty"`
	Warning     string                `json:"warning,omitempty"`
}

// SessionResponse is returned when a new conversation is opened.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Greeting  string `json:"greeting"`
}
