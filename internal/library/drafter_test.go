package library

import (
	"encoding/json"
	"testing"
)

func TestExtractSenderName(t *testing.T) {
	cases := []struct {
		name  string
		email string
		want  string
	}{
		{
			name:  "thanks signature",
			email: "Hi Candice,\n\nWould love to grab 30 minutes next week.\n\nThanks,\nJordan",
			want:  "Jordan",
		},
		{
			name:  "best regards signature",
			email: "Hi there,\n\nCan we chat?\n\nBest regards,\nPriya",
			want:  "Priya",
		},
		{
			name:  "greeting is not the sender",
			email: "Hi Candice,\n\nLooking forward to it.\n\nCheers,\nMarcus",
			want:  "Marcus",
		},
		{
			name:  "bare last line name",
			email: "Quick question about scheduling.\nAlex",
			want:  "Alex",
		},
		{
			name:  "no signature",
			email: "can we meet sometime",
			want:  "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractSenderName(tc.email); got != tc.want {
				t.Errorf("ExtractSenderName = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced with tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.in); got != tc.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParsedRequestAccessors(t *testing.T) {
	var p ParsedRequest
	payload := `{"sender_name":"Jordan","duration":30,"timezone":"PST","start_date":"2026-02-09","end_date":"2026-02-14"}`
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if d, ok := p.DurationMinutes(); !ok || d != 30 {
		t.Errorf("DurationMinutes = %d, %v; want 30, true", d, ok)
	}
	if tz, ok := p.TimezoneCode(); !ok || tz != "PST" {
		t.Errorf("TimezoneCode = %q, %v; want PST, true", tz, ok)
	}
	if start, end, ok := p.DateBounds(); !ok || start != "2026-02-09" || end != "2026-02-14" {
		t.Errorf("DateBounds = %q, %q, %v", start, end, ok)
	}
}

func TestParsedRequestNullHandling(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"json null", `{"duration":null,"timezone":null,"start_date":null,"end_date":null}`},
		{"quoted null strings", `{"duration":"null","timezone":"null","start_date":"null","end_date":"null"}`},
		{"absent fields", `{"sender_name":"Jordan"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p ParsedRequest
			if err := json.Unmarshal([]byte(tc.payload), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if _, ok := p.DurationMinutes(); ok {
				t.Error("DurationMinutes should report absent")
			}
			if _, ok := p.TimezoneCode(); ok {
				t.Error("TimezoneCode should report absent")
			}
			if _, _, ok := p.DateBounds(); ok {
				t.Error("DateBounds should report absent")
			}
		})
	}
}

func TestParsedRequestQuotedDuration(t *testing.T) {
	var p ParsedRequest
	if err := json.Unmarshal([]byte(`{"duration":"45"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d, ok := p.DurationMinutes(); !ok || d != 45 {
		t.Errorf("DurationMinutes = %d, %v; want 45, true", d, ok)
	}
}
