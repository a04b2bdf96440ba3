package library

// Calendar access for the availability pipeline: builds a Google Calendar
// service from a user's OAuth token or from deployment credentials, and
// turns calendar events into busy intervals.

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coffeechat/internal/env"
	"coffeechat/internal/schedule"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrCalendarNotConnected is surfaced when no usable calendar credential
// exists; handlers report it without failing the rest of the pipeline.
var ErrCalendarNotConnected = errors.New("calendar not connected")

var config *oauth2.Config

var calendarScopes = []string{
	"email",
	"profile",
	"https://www.googleapis.com/auth/calendar.readonly",
}

// InitializeOAuth initializes the OAuth2 configuration using environment variables.
func InitializeOAuth() error {
	clientID := env.GetAsString("GOOGLE_CLIENT_ID")
	clientSecret := env.GetAsString("GOOGLE_CLIENT_SECRET")
	redirectURI := env.GetAsString("GOOGLE_REDIRECT_URI")

	if clientID == "" || clientSecret == "" || redirectURI == "" {
		return fmt.Errorf("missing required environment variables: GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, or GOOGLE_REDIRECT_URI")
	}

	config = &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       calendarScopes,
		Endpoint:     google.Endpoint,
	}

	return nil
}

// CalendarClient wraps the Google Calendar API for the primary calendar.
type CalendarClient struct {
	svc *calendar.Service
}

// NewCalendarClient builds a client from a user's OAuth token.
func NewCalendarClient(ctx context.Context, token *oauth2.Token) (*CalendarClient, error) {
	if config == nil {
		if err := InitializeOAuth(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCalendarNotConnected, err)
		}
	}
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarClient{svc: svc}, nil
}

// envCredentials is the GOOGLE_CREDENTIALS payload for single-user cloud
// deployment: a refresh token plus the client it was minted for, as plain
// or base64-encoded JSON.
type envCredentials struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	TokenURI     string `json:"token_uri"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func parseEnvCredentials(raw string) (*envCredentials, error) {
	if raw == "" {
		return nil, errors.New("GOOGLE_CREDENTIALS is empty")
	}

	payload := []byte(raw)
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		payload = decoded
	}

	var creds envCredentials
	if err := json.Unmarshal(payload, &creds); err != nil {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS is not valid JSON: %w", err)
	}

	var missing []string
	if creds.RefreshToken == "" {
		missing = append(missing, "refresh_token")
	}
	if creds.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if creds.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS missing required fields: %v", missing)
	}

	return &creds, nil
}

// NewCalendarClientFromEnv builds a client from the GOOGLE_CREDENTIALS
// environment variable. Returns ErrCalendarNotConnected when the variable
// is absent or unusable.
func NewCalendarClientFromEnv(ctx context.Context) (*CalendarClient, error) {
	creds, err := parseEnvCredentials(env.GetAsString("GOOGLE_CREDENTIALS"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCalendarNotConnected, err)
	}

	endpoint := google.Endpoint
	if creds.TokenURI != "" {
		endpoint.TokenURL = creds.TokenURI
	}
	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Scopes:       calendarScopes,
		Endpoint:     endpoint,
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  creds.Token,
		RefreshToken: creds.RefreshToken,
	})

	svc, err := calendar.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &CalendarClient{svc: svc}, nil
}

// BusyTimes lists the primary calendar's commitments inside [from, to) as
// raw busy intervals, ordered by start. All-day entries carry only a date
// and are skipped: a full-day block is not a meeting conflict.
func (c *CalendarClient) BusyTimes(ctx context.Context, from, to time.Time) ([]schedule.BusyInterval, error) {
	events, err := c.svc.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	return busyFromEvents(events.Items), nil
}

func busyFromEvents(items []*calendar.Event) []schedule.BusyInterval {
	var busy []schedule.BusyInterval
	for _, ev := range items {
		if ev.Start == nil || ev.End == nil {
			continue
		}
		if ev.Start.DateTime == "" {
			// All-day event: Start.Date is set instead.
			continue
		}
		start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, ev.End.DateTime)
		if err != nil {
			continue
		}
		busy = append(busy, schedule.BusyInterval{Start: start, End: end})
	}
	return busy
}

// PrimaryCalendar returns the id of the first calendar on the user's list,
// used by the status endpoint as a connectivity probe.
func (c *CalendarClient) PrimaryCalendar(ctx context.Context) (string, error) {
	list, err := c.svc.CalendarList.List().MaxResults(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list calendars: %w", err)
	}
	if len(list.Items) == 0 {
		return "", nil
	}
	return list.Items[0].Id, nil
}
