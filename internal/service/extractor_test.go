package service

import (
	"testing"
)

func TestParseExtraction(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantUpdates  map[string]any
		wantQuestion string
		wantErr      bool
	}{
		{
			name:    "clean envelope",
			content: `{"updates": {"location": "Montreal", "number_of_guests": "2"}}`,
			wantUpdates: map[string]any{
				"location":         "Montreal",
				"number_of_guests": "2",
			},
		},
		{
			name:    "markdown fenced reply",
			content: "```json\n{\"updates\": {\"date_checkin\": \"next friday\"}}\n```",
			wantUpdates: map[string]any{
				"date_checkin": "next friday",
			},
		},
		{
			name:    "prose around the object",
			content: `Sure! Here is what I found: {"updates": {"property_type": "apartment"}} Hope that helps.`,
			wantUpdates: map[string]any{
				"property_type": "apartment",
			},
		},
		{
			name:         "question envelope",
			content:      `{"question": "Which city are you visiting?"}`,
			wantQuestion: "Which city are you visiting?",
		},
		{
			name:    "bare slot map without envelope",
			content: `{"location": "Quebec City", "amenities": ["wifi"]}`,
			wantUpdates: map[string]any{
				"location":  "Quebec City",
				"amenities": []any{"wifi"},
			},
		},
		{
			name:    "no json at all",
			content: "I could not understand that.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExtraction(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseExtraction(%q) expected error, got %+v", tt.content, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseExtraction(%q) error = %v", tt.content, err)
			}
			if got.Question != tt.wantQuestion {
				t.Errorf("Question = %q, want %q", got.Question, tt.wantQuestion)
			}
			if len(got.Updates) != len(tt.wantUpdates) {
				t.Fatalf("Updates = %v, want %v", got.Updates, tt.wantUpdates)
			}
			for k := range tt.wantUpdates {
				if _, ok := got.Updates[k]; !ok {
					t.Errorf("Updates missing key %q: %v", k, got.Updates)
				}
			}
		})
	}
}
