package utils

import (
	"testing"
)

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"location": "Montreal", "number_of_guests": 2}`,
			want: map[string]interface{}{
				"location":         "Montreal",
				"number_of_guests": float64(2),
			},
			wantErr: false,
		},
		{
			name: "JSON in markdown code block",
			input: "```json\n" +
				`{"property_type": "hotel", "number_of_guests": 4}` + "\n```",
			want: map[string]interface{}{
				"property_type":    "hotel",
				"number_of_guests": float64(4),
			},
			wantErr: false,
		},
		{
			name:  "JSON with surrounding text",
			input: `Here are the extracted preferences: {"location": "Toronto", "date_checkin": "next friday"} hope that helps!`,
			want: map[string]interface{}{
				"location":     "Toronto",
				"date_checkin": "next friday",
			},
			wantErr: false,
		},
		{
			name:  "JSON with trailing comma",
			input: `{"location": "Magog", "number_of_guests": 3,}`,
			want: map[string]interface{}{
				"location":         "Magog",
				"number_of_guests": float64(3),
			},
			wantErr: false,
		},
		{
			name:  "JSON with unquoted keys",
			input: `{location: "Ottawa", property_type: "cabin"}`,
			want: map[string]interface{}{
				"location":      "Ottawa",
				"property_type": "cabin",
			},
			wantErr: false,
		},
		{
			name:    "Empty string",
			input:   "",
			want:    nil,
			wantErr: true,
		},
		{
			name:    "Plain question, no JSON",
			input:   "Which city would you like to stay in?",
			want:    nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]interface{}
			err := ParseAIJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseAIJSON() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				return
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseAIJSON() key %q = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestLooksLikeJSONObject(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{`{"location": "Montreal"}`, true},
		{"  {\"a\": 1}\n", true},
		{"How many guests?", false},
		{`["a", "b"]`, false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := LooksLikeJSONObject(tt.input); got != tt.want {
				t.Errorf("LooksLikeJSONObject(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestExtractFromMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "JSON code block with json tag",
			input: "```json\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "JSON code block without tag",
			input: "```\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "No code block",
			input: `{"test": true}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractFromMarkdown(tt.input)
			if got != tt.want {
				t.Errorf("extractFromMarkdown() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractBalancedBraces(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Nested objects",
			input: `{"a": {"b": 1}} trailing`,
			want:  `{"a": {"b": 1}}`,
		},
		{
			name:  "Braces inside strings ignored",
			input: `{"q": "ask {politely}"}`,
			want:  `{"q": "ask {politely}"}`,
		},
		{
			name:  "Unbalanced",
			input: `{"a": 1`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractBalancedBraces(tt.input, '{', '}')
			if got != tt.want {
				t.Errorf("extractBalancedBraces() = %v, want %v", got, tt.want)
			}
		})
	}
}
