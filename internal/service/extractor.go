package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"stayagent/internal/model"
	"stayagent/internal/utils"
)

// ErrExtractorUnavailable signals that no extraction backend is
// configured or the backend call failed. The dialogue controller treats
// it as "nothing extracted" and falls back to its own question.
var ErrExtractorUnavailable = errors.New("slot extractor unavailable")

// SlotExtractor turns one free-form utterance into proposed slot
// updates, given the slots already known. Implementations return raw
// values (dates as the user phrased them); normalization belongs to the
// slot store.
type SlotExtractor interface {
	Extract(ctx context.Context, known *model.BookingCriteria, utterance string) (*model.ExtractionResult, error)
}

const extractionSystemPrompt = `You are the understanding layer of a stay-booking assistant.
Given the slots already known and the user's latest message, extract any NEW or CHANGED slot values.

Slots:
- "location": city or area name, as stated
- "date_checkin": the check-in date EXACTLY as the user phrased it (e.g. "next friday", "Sep 3")
- "date_checkout": the check-out date exactly as phrased
- "property_type": one of apartment, house, studio, cabin, penthouse, hotel (or close variant)
- "amenities": list of requested amenities (e.g. ["wifi", "pool"])
- "number_of_guests": the number of guests as stated (e.g. "4" or "four")

Respond with ONLY a JSON object, no prose:
{"updates": {"<slot>": <value>, ...}}

If the message contains no slot information at all, respond instead with:
{"question": "<one short follow-up question about what you still need>"}

Never invent values the user did not state. Never repeat slots that are already known unless the user changed them.`

// OpenAIExtractor implements SlotExtractor on top of an
// OpenAI-compatible chat completion endpoint.
type OpenAIExtractor struct {
	client *OpenAIClient
}

// NewOpenAIExtractor creates an extractor backed by the given client.
func NewOpenAIExtractor(client *OpenAIClient) *OpenAIExtractor {
	return &OpenAIExtractor{client: client}
}

// Extract sends one utterance to the model and parses the structured
// reply. Model output is untrusted: it goes through the tolerant JSON
// recovery path before anything else.
func (e *OpenAIExtractor) Extract(ctx context.Context, known *model.BookingCriteria, utterance string) (*model.ExtractionResult, error) {
	if e == nil || !e.client.IsEnabled() {
		return nil, ErrExtractorUnavailable
	}

	knownJSON, err := json.Marshal(known)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal known slots: %w", err)
	}

	userPrompt := fmt.Sprintf("Known slots: %s\nUser message: %s", string(knownJSON), utterance)

	resp, err := e.client.ChatCompletion(ctx, ChatCompletionRequest{
		Messages: []ChatMessage{
			{Role: "system", Content: extractionSystemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		log.Printf("⚠️ Slot extraction request failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrExtractorUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrExtractorUnavailable)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	return parseExtraction(content)
}

// parseExtraction decodes the model reply into an ExtractionResult. It
// accepts the documented {"updates": ...} / {"question": ...} envelope
// as well as a bare slot map, which some models emit despite the prompt.
func parseExtraction(content string) (*model.ExtractionResult, error) {
	var result model.ExtractionResult
	if err := utils.ParseAIJSON(content, &result); err != nil {
		return nil, fmt.Errorf("failed to parse extraction reply: %w", err)
	}

	if len(result.Updates) == 0 && result.Question == "" && utils.LooksLikeJSONObject(content) {
		// Bare slot map without the envelope.
		var flat map[string]any
		if err := utils.ParseAIJSON(content, &flat); err == nil {
			updates := make(map[string]any)
			for _, slot := range model.RequiredSlots {
				if v, ok := flat[slot]; ok {
					updates[slot] = v
				}
			}
			if len(updates) > 0 {
				result.Updates = updates
			}
		}
	}

	return &result, nil
}
