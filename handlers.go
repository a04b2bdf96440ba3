package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"coffeechat/database/store"
	"coffeechat/internal/env"
	"coffeechat/internal/flash"
	"coffeechat/internal/library"
	"coffeechat/internal/schedule"
	"coffeechat/middleware"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/sqlc-dev/pqtype"
)

var (
	portal = template.Must(template.ParseFiles("templates/portal.tmpl.html"))
)

const calendarNotConnectedMessage = "Calendar not connected. Check that GOOGLE_CREDENTIALS is set correctly in environment variables, or run locally to authenticate."

func catchAllAndRouteToStatic() func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			http.ServeFile(w, r, "static/index.html")
		case r.URL.Path == "/robots.txt":
			http.ServeFile(w, r, "static/robots.txt")
		case r.URL.Path == "/favicon.ico":
			http.ServeFile(w, r, "static/favicon.ico")
		default:
			filePath := "static" + r.URL.Path
			if _, err := os.Stat(filePath); err == nil {
				http.ServeFile(w, r, filePath)
				return
			}
			if _, err := os.Stat("static/" + r.URL.Path + ".html"); err == nil {
				http.ServeFile(w, r, "static/"+r.URL.Path+".html")
				return
			}
			http.NotFound(w, r)
		}
	}
}

func ServeLoginPage(w http.ResponseWriter, r *http.Request) {
	tmpl, err := template.ParseFiles("templates/login.tmpl.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := tmpl.Execute(w, nil); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		logger.Error("executing login template", "error", err)
		return
	}
}

func AdminHandler(q store.Queries) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("loggedIn")
		if err != nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		user, err := q.GetUserByGoogleID(r.Context(), cookie.Value)
		if err != nil {
			logger.Error("looking up portal user", "error", err)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		data := map[string]interface{}{
			"User":      user,
			"csrfToken": csrf.Token(r),
		}

		if err := portal.Execute(w, data); err != nil {
			logger.Error("executing portal template", "error", err)
			http.Error(w, "Error rendering template", http.StatusInternalServerError)
			return
		}
	}
}

// LogoutHandler clears the login cookie.
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Name:     "loggedIn",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		MaxAge:   0,
		Domain:   env.GetAsString("DOMAIN"),
	}

	http.SetCookie(w, cookie)
	flash.Set(w, flash.Success, "Signed out", "Your session has ended.")
	http.Redirect(w, r, "/", http.StatusFound)
}

func Unlink(q store.Queries) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			UserID string `json:"user_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		userID, err := uuid.Parse(reqBody.UserID)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		if _, err := q.RemoveTokens(r.Context(), userID); err != nil {
			http.Error(w, "Failed to unlink calendar", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Calendar unlinked successfully",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding JSON response", "error", err)
	}
}

// resolveCalendarClient builds a calendar client for the request. A logged-in
// user gets a client from their stored (refreshed) OAuth token; otherwise the
// GOOGLE_CREDENTIALS environment fallback is tried so a single-user cloud
// deployment works without the login flow.
func resolveCalendarClient(r *http.Request, q *store.Queries) (*library.CalendarClient, uuid.NullUUID, error) {
	ctx := r.Context()

	if cookie, err := r.Cookie("loggedIn"); err == nil && cookie.Value != "" {
		user, err := q.GetUserByGoogleID(ctx, cookie.Value)
		if err == nil {
			token, err := middleware.HandleRefreshToken(user.ID, q)
			if err != nil {
				logger.Warn("refreshing stored token", "user_id", user.ID, "error", err)
			} else {
				client, err := library.NewCalendarClient(ctx, token)
				if err == nil {
					return client, uuid.NullUUID{UUID: user.ID, Valid: true}, nil
				}
				logger.Warn("building calendar client from stored token", "error", err)
			}
		}
	}

	client, err := library.NewCalendarClientFromEnv(ctx)
	if err != nil {
		return nil, uuid.NullUUID{}, err
	}
	return client, uuid.NullUUID{}, nil
}

// computeAvailability runs the scheduling pipeline: busy times from the
// calendar, blocked-set construction, slot enumeration, window combining, day
// selection and formatting. An empty result means no slots, not an error.
func computeAvailability(r *http.Request, client *library.CalendarClient, zone schedule.Zone, durationMin int, from, to, now time.Time) ([]schedule.DayLine, error) {
	busy, err := client.BusyTimes(r.Context(), from, to)
	if err != nil {
		return nil, fmt.Errorf("fetching busy times: %w", err)
	}

	blocked := schedule.NewBlockedSet(busy)
	starts := schedule.FindMeetingStarts(blocked, from, to, zone, durationMin, now)
	if len(starts) == 0 {
		return nil, nil
	}

	windows := schedule.CombineWindows(starts, zone, durationMin)
	days := schedule.GroupByDay(windows)
	days = schedule.SelectBestDays(days, schedule.MaxSuggestedDays)
	return schedule.FormatDays(days), nil
}

type generateRequest struct {
	EmailText string      `json:"email_text"`
	Timezone  string      `json:"timezone"`
	Duration  json.Number `json:"duration"`
	DateRange string      `json:"date_range"`
}

// scheduleFields is the resolved input to the availability pipeline, merged
// from the AI-parsed email and any user-supplied clarification values.
type scheduleFields struct {
	Timezone    string
	Duration    int
	SenderName  string
	CustomStart string
	CustomEnd   string
	DateRange   string
}

// resolveScheduleFields merges AI-parsed fields with clarification values
// from the request. AI wins where it produced a value; the request fills the
// gaps; anything still unresolved lands in the missing list.
func resolveScheduleFields(parsed *library.ParsedRequest, req generateRequest) (scheduleFields, []string) {
	var fields scheduleFields
	var missing []string

	reqDuration := 0
	if n, err := req.Duration.Int64(); err == nil && n > 0 {
		reqDuration = int(n)
	}

	if parsed != nil {
		if tz, ok := parsed.TimezoneCode(); ok {
			fields.Timezone = tz
		} else if req.Timezone != "" {
			fields.Timezone = req.Timezone
		} else {
			missing = append(missing, "timezone")
		}

		if d, ok := parsed.DurationMinutes(); ok {
			fields.Duration = d
		} else if reqDuration > 0 {
			fields.Duration = reqDuration
		} else {
			missing = append(missing, "duration")
		}

		if name := strings.TrimSpace(parsed.SenderName); name != "" && name != "null" {
			fields.SenderName = name
		} else if name := library.ExtractSenderName(req.EmailText); name != "" {
			fields.SenderName = name
		} else {
			fields.SenderName = "there"
		}

		if start, end, ok := parsed.DateBounds(); ok {
			fields.CustomStart = start
			fields.CustomEnd = end
		} else if req.DateRange != "" {
			fields.DateRange = req.DateRange
		} else {
			missing = append(missing, "date_range")
		}
	} else {
		if req.Timezone != "" {
			fields.Timezone = req.Timezone
		} else {
			missing = append(missing, "timezone")
		}

		if reqDuration > 0 {
			fields.Duration = reqDuration
		} else {
			missing = append(missing, "duration")
		}

		if name := library.ExtractSenderName(req.EmailText); name != "" {
			fields.SenderName = name
		} else {
			fields.SenderName = "there"
		}

		if req.DateRange != "" {
			fields.DateRange = req.DateRange
		} else {
			missing = append(missing, "date_range")
		}
	}

	if fields.DateRange == "" {
		fields.DateRange = schedule.RangeTwoWeeks
	}

	return fields, missing
}

// recordDraftRequest writes an audit row for a generate/compose call. Best
// effort: a failed insert is logged, never surfaced to the caller.
func recordDraftRequest(r *http.Request, q *store.Queries, userID uuid.NullUUID, kind string, parsed interface{}, tz string, durationMin, slotDays int) {
	var raw pqtype.NullRawMessage
	if parsed != nil {
		if b, err := json.Marshal(parsed); err == nil {
			raw = pqtype.NullRawMessage{RawMessage: b, Valid: true}
		}
	}

	_, err := q.InsertDraftRequest(r.Context(), store.InsertDraftRequestParams{
		UserID:   userID,
		Kind:     kind,
		Parsed:   raw,
		Timezone: sql.NullString{String: tz, Valid: tz != ""},
		Duration: sql.NullInt32{Int32: int32(durationMin), Valid: true},
		SlotDays: sql.NullInt32{Int32: int32(slotDays), Valid: true},
	})
	if err != nil {
		logger.Warn("recording draft request", "kind", kind, "error", err)
	}
}

// GenerateHandler drafts a reply to an inbound meeting-request email.
func GenerateHandler(q store.Queries, drafter *library.Drafter) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}

		now := time.Now()

		var parsed *library.ParsedRequest
		if strings.TrimSpace(req.EmailText) != "" {
			parsed = drafter.ParseScheduleRequest(r.Context(), req.EmailText, now)
		}

		fields, missing := resolveScheduleFields(parsed, req)
		if len(missing) > 0 {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"needs_clarification": true,
				"missing_fields":      missing,
				"ai_parsed":           parsed,
			})
			return
		}

		client, userID, err := resolveCalendarClient(r, &q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": calendarNotConnectedMessage})
			return
		}

		zone, ok := schedule.ResolveZone(fields.Timezone)
		if !ok {
			zone, _ = schedule.ResolveZone("ET")
		}

		from, to := schedule.ResolveDateRange(fields.DateRange, fields.CustomStart, fields.CustomEnd, now)

		days, err := computeAvailability(r, client, zone, fields.Duration, from, to, now)
		if err != nil {
			logger.Error("computing availability", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": calendarNotConnectedMessage})
			return
		}
		if len(days) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("No available slots found for %d-minute meetings with 30-min buffer.", fields.Duration),
			})
			return
		}

		reply := drafter.DraftReply(r.Context(), req.EmailText, fields.SenderName, schedule.BulletList(days))

		recordDraftRequest(r, &q, userID, "generate", parsed, fields.Timezone, fields.Duration, len(days))

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"reply":     reply,
			"blocks":    days,
			"timezone":  fields.Timezone,
			"duration":  fields.Duration,
			"ai_parsed": parsed,
		})
	}
}

type composeRequest struct {
	RecipientName string      `json:"recipient_name"`
	Timezone      string      `json:"timezone"`
	Duration      json.Number `json:"duration"`
	DateRange     string      `json:"date_range"`
	Context       string      `json:"context"`
}

// ComposeHandler drafts an outbound meeting-request email.
func ComposeHandler(q store.Queries, drafter *library.Drafter) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req composeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}

		recipient := strings.TrimSpace(req.RecipientName)
		if recipient == "" {
			recipient = "there"
		}
		tz := req.Timezone
		if tz == "" {
			tz = "ET"
		}
		durationMin := 30
		if n, err := req.Duration.Int64(); err == nil && n > 0 {
			durationMin = int(n)
		}
		dateRange := req.DateRange
		if dateRange == "" {
			dateRange = schedule.RangeTwoWeeks
		}

		client, userID, err := resolveCalendarClient(r, &q)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": calendarNotConnectedMessage})
			return
		}

		zone, ok := schedule.ResolveZone(tz)
		if !ok {
			zone, _ = schedule.ResolveZone("ET")
		}

		now := time.Now()
		from, to := schedule.ResolveDateRange(dateRange, "", "", now)

		days, err := computeAvailability(r, client, zone, durationMin, from, to, now)
		if err != nil {
			logger.Error("computing availability", "error", err)
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": calendarNotConnectedMessage})
			return
		}
		if len(days) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("No available slots found for %d-minute meetings with 30-min buffer.", durationMin),
			})
			return
		}

		reply := drafter.DraftCompose(r.Context(), recipient, req.Context, schedule.BulletList(days))

		recordDraftRequest(r, &q, userID, "compose", req, tz, durationMin, len(days))

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"reply":    reply,
			"blocks":   days,
			"timezone": tz,
			"duration": durationMin,
		})
	}
}

type refineRequest struct {
	CurrentReply string `json:"current_reply"`
	Feedback     string `json:"feedback"`
}

// RefineHandler rewrites a draft per free-text feedback.
func RefineHandler(drafter *library.Drafter) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refineRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
			return
		}

		if strings.TrimSpace(req.Feedback) == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Please provide feedback"})
			return
		}

		refined, err := drafter.RefineDraft(r.Context(), req.CurrentReply, req.Feedback)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"reply": refined})
	}
}

// CalendarStatusHandler reports whether a calendar is reachable.
func CalendarStatusHandler(q store.Queries) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		client, _, err := resolveCalendarClient(r, &q)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"connected": false})
			return
		}

		id, err := client.PrimaryCalendar(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"connected": false,
				"error":     err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"connected": true,
			"calendar":  id,
		})
	}
}
