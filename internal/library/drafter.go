package library

// Drafting via Gemini: structured extraction of scheduling details from an
// inbound email, and natural-language reply/compose/refine generation. The
// model is best-effort; reply and compose fall back to fixed templates so
// slot computation is never blocked by the model.

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"coffeechat/internal/env"
	"coffeechat/internal/schedule"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Drafter generates email text with Gemini.
type Drafter struct {
	apiKey string
	model  string
	owner  string
}

// NewDrafter reads GEMINI_API_KEY and OWNER_NAME from the environment.
// OWNER_NAME is the sign-off on every drafted email.
func NewDrafter() *Drafter {
	return &Drafter{
		apiKey: env.GetAsString("GEMINI_API_KEY"),
		model:  "gemini-1.5-pro",
		owner:  env.GetAsStringElseAlt("OWNER_NAME", "Candice"),
	}
}

// generate runs one prompt through the model and returns the joined text
// parts of the last candidate.
func (d *Drafter) generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(d.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create genai client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(d.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				b.WriteString(string(txt))
			}
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("model returned no text")
	}
	return out, nil
}

// ParsedRequest holds the scheduling fields extracted from an inbound
// email. Raw JSON is kept for fields the model may return as null, a
// quoted "null", a number, or a quoted number.
type ParsedRequest struct {
	SenderName string          `json:"sender_name"`
	Duration   json.RawMessage `json:"duration"`
	Timezone   string          `json:"timezone"`
	StartDate  string          `json:"start_date"`
	EndDate    string          `json:"end_date"`
}

// DurationMinutes returns the extracted duration, false when absent.
func (p *ParsedRequest) DurationMinutes() (int, bool) {
	raw := strings.TrimSpace(string(p.Duration))
	raw = strings.Trim(raw, `"`)
	if raw == "" || raw == "null" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// TimezoneCode returns the extracted timezone code, false when absent.
func (p *ParsedRequest) TimezoneCode() (string, bool) {
	tz := strings.TrimSpace(p.Timezone)
	if tz == "" || tz == "null" {
		return "", false
	}
	return tz, true
}

// DateBounds returns the extracted start/end dates, false unless both are
// present.
func (p *ParsedRequest) DateBounds() (string, string, bool) {
	start := strings.TrimSpace(p.StartDate)
	end := strings.TrimSpace(p.EndDate)
	if start == "" || start == "null" || end == "" || end == "null" {
		return "", "", false
	}
	return start, end, true
}

// ParseScheduleRequest extracts scheduling details from the email. Returns
// nil (not an error) when the model is unavailable so callers can fall back
// to asking for clarification.
func (d *Drafter) ParseScheduleRequest(ctx context.Context, emailText string, now time.Time) *ParsedRequest {
	today := now.In(schedule.Eastern())
	nextMonday := schedule.NextMonday(today)
	nextFriday := nextMonday.AddDate(0, 0, 4)
	nextSaturday := nextFriday.AddDate(0, 0, 1)

	prompt := fmt.Sprintf(`Today is %s. Next week runs from Monday %s to Friday %s.

Analyze this email and extract meeting scheduling information. Return ONLY a JSON object with these fields:

1. "sender_name": The first name of the person who WROTE/SENT the email (look at the signature at the bottom, NOT the greeting "Hi [Name]")

2. "duration": Meeting duration in minutes. ONLY set this if explicitly mentioned (e.g., "30-minute call", "1 hour meeting", "45 min chat").
   - If duration is explicitly stated, extract it (e.g., "30-minute" = 30, "1 hour" = 60)
   - If NOT explicitly mentioned, set to null

3. "timezone": Infer from location/company mentions:
   - NYC, New York, East Coast, Eastern = "ET"
   - Chicago, Central = "CST"
   - LA, San Francisco, Seattle, Pacific, West Coast = "PST"
   - If no location clues, set to null

4. "start_date": The FIRST day they want to meet (YYYY-MM-DD format)
   - "next week" = %s (Monday of next week)
   - "next Wednesday-Friday" = calculate next Wednesday's date
   - "this week" = tomorrow's date
   - If no date mentioned, set to null

5. "end_date": The day AFTER the last day they want to meet (YYYY-MM-DD format, exclusive)
   - "next week" = the Saturday after next Friday (%s)
   - "next Wednesday-Friday" = the Saturday after that Friday
   - If no date mentioned, set to null

IMPORTANT:
- Only extract what is EXPLICITLY stated or can be CLEARLY inferred
- Use null for any field that cannot be determined from the email
- "next week" means the ENTIRE week (Mon-Fri), not a subset

Email:
%s

Return ONLY valid JSON, no explanation.`,
		today.Format("Monday, January 02, 2006"),
		nextMonday.Format("2006-01-02"),
		nextFriday.Format("2006-01-02"),
		nextMonday.Format("2006-01-02"),
		nextSaturday.Format("2006-01-02"),
		emailText)

	out, err := d.generate(ctx, prompt)
	if err != nil {
		log.Printf("AI parsing error: %v", err)
		return nil
	}

	var parsed ParsedRequest
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &parsed); err != nil {
		log.Printf("AI parsing returned undecodable JSON: %v", err)
		return nil
	}
	return &parsed
}

// stripCodeFence removes a surrounding markdown code fence, with or without
// a "json" language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) < 2 {
		return s
	}
	body := parts[1]
	body = strings.TrimPrefix(body, "json")
	return strings.TrimSpace(body)
}

// DraftReply writes a reply to the inbound email listing the slots. On any
// model failure a deterministic template is returned instead.
func (d *Drafter) DraftReply(ctx context.Context, originalEmail, senderName, slotList string) string {
	prompt := fmt.Sprintf(`Write a friendly, natural email reply to schedule a meeting.

ORIGINAL EMAIL FROM %[1]s:
%[2]s

MY AVAILABLE TIME SLOTS:
%[3]s

INSTRUCTIONS:
- Start with "Hi %[1]s,"
- Be warm and human - match the tone of their email
- If they apologized or mentioned inconvenience, acknowledge it naturally (e.g., "No worries at all!", "Totally understand!")
- If they expressed excitement, mirror that energy
- If it's a job/recruiting email, be professionally enthusiastic
- Keep it concise - 2-3 short paragraphs max
- Include the time slots as a bulleted list
- End with something like "Let me know what works!" and sign off as "%[4]s"
- Don't be overly formal or stiff - write like a real person

Return ONLY the email text, no explanation.`, senderName, originalEmail, slotList, d.owner)

	out, err := d.generate(ctx, prompt)
	if err != nil {
		log.Printf("AI reply generation error: %v", err)
		return fmt.Sprintf(`Hi %s,

Thanks for reaching out! I'd be happy to chat.

Here are some times that work for me:

%s

Let me know what works best for you!

Best,
%s`, senderName, slotList, d.owner)
	}
	return out
}

// DraftCompose writes an outbound meeting-request email. On any model
// failure a deterministic template is returned instead.
func (d *Drafter) DraftCompose(ctx context.Context, recipientName, purpose, slotList string) string {
	prompt := fmt.Sprintf(`Write a friendly, natural email to request a meeting.

RECIPIENT: %[1]s
PURPOSE/CONTEXT: %[2]s

MY AVAILABLE TIME SLOTS:
%[3]s

INSTRUCTIONS:
- Start with "Hi %[1]s,"
- Be warm and natural - write like a real person, not a corporate robot
- Briefly explain why you want to meet (based on the context provided)
- Include the time slots as a bulleted list
- Ask them to let you know what works or suggest alternatives
- Keep it concise - 2-3 short paragraphs max
- Sign off as "%[4]s"
- Don't be overly formal or stiff

Return ONLY the email text, no explanation.`, recipientName, purpose, slotList, d.owner)

	out, err := d.generate(ctx, prompt)
	if err != nil {
		log.Printf("AI compose generation error: %v", err)
		return fmt.Sprintf(`Hi %s,

I hope you're doing well! %s

I'd love to find a time to chat. Here are some slots that work for me:

%s

Let me know what works for you, or feel free to suggest another time!

Best,
%s`, recipientName, purpose, slotList, d.owner)
	}
	return out
}

// RefineDraft rewrites the current draft per the feedback. Unlike reply and
// compose there is no sensible fallback, so model failure is an error.
func (d *Drafter) RefineDraft(ctx context.Context, currentReply, feedback string) (string, error) {
	prompt := fmt.Sprintf(`Here is an email reply I'm drafting:

%s

Please modify this email based on the following feedback:
%s

Return ONLY the modified email text, nothing else. Keep the same general structure and time slots unless the feedback specifically asks to change them.`, currentReply, feedback)

	out, err := d.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("AI refinement failed: %w", err)
	}
	return out, nil
}

var signaturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:thank you|thanks|best regards|kind regards|warm regards|best|regards|cheers|sincerely)[,.]?[ \t]*\n+[ \t]*([A-Z][a-z]+)`),
	regexp.MustCompile(`(?m)\n([A-Z][a-z]+)[ \t]*$`),
}

// ExtractSenderName pulls the sender's first name from a signature line.
// The sender signs at the bottom; the greeting names the recipient. Returns
// "" when no signature is found.
func ExtractSenderName(emailText string) string {
	for _, pattern := range signaturePatterns {
		if m := pattern.FindStringSubmatch(emailText); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}
