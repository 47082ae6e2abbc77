package activitylog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/features/activitylog"
	logstore "github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/store/activitylogs"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/system/auditlog"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/timeline"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/domain/models"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newTestHandler(t *testing.T) (*activitylog.Handler, *logstore.InMemoryStore, *fixedClock) {
	t.Helper()
	store := logstore.NewInMemoryStore()
	clock := &fixedClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	engine := timeline.New(store, zap.NewNop(), timeline.Config{Now: clock.Now})
	return activitylog.NewHandler(engine, nil, nil, zap.NewNop()), store, clock
}

func TestRecord_Login(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/api/activity-log", map[string]string{
		"username": "jdoe",
		"email":    "jdoe@hvc.example",
		"action":   "login",
	})
	rec := httptest.NewRecorder()
	handler.Record(rec, req)

	testutil.AssertStatus(t, rec, 201)

	var resp struct {
		Message         string             `json:"message"`
		Log             models.ActivityLog `json:"log"`
		SessionDuration *int               `json:"sessionDuration"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if resp.Log.Username != "jdoe" {
		t.Errorf("Username: got %q, want %q", resp.Log.Username, "jdoe")
	}
	if resp.Log.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if resp.Log.Timestamp.IsZero() {
		t.Error("expected an assigned timestamp")
	}
	if resp.SessionDuration != nil {
		t.Errorf("expected null sessionDuration on login, got %d", *resp.SessionDuration)
	}
}

func TestRecord_FillsClientIPFromRequest(t *testing.T) {
	handler, store, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/api/activity-log", map[string]string{
		"username": "jdoe",
		"email":    "jdoe@hvc.example",
		"action":   "login",
	})
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	rec := httptest.NewRecorder()
	handler.Record(rec, req)

	testutil.AssertStatus(t, rec, 201)

	recs, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if recs[0].IPAddress != "203.0.113.9" {
		t.Errorf("IPAddress: got %q, want %q", recs[0].IPAddress, "203.0.113.9")
	}
}

func TestRecord_ValidationFailures(t *testing.T) {
	handler, store, _ := newTestHandler(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing username", map[string]string{"email": "a@b.c", "action": "login"}},
		{"missing email", map[string]string{"username": "jdoe", "action": "login"}},
		{"missing action", map[string]string{"username": "jdoe", "email": "a@b.c"}},
		{"unsupported action", map[string]string{"username": "jdoe", "email": "a@b.c", "action": "paused"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, "POST", "/api/activity-log", tc.body)
			rec := httptest.NewRecorder()
			handler.Record(rec, req)
			testutil.AssertStatus(t, rec, 400)

			var resp struct {
				Error string `json:"error"`
			}
			testutil.DecodeJSON(t, rec, &resp)
			if resp.Error == "" {
				t.Error("expected an error description")
			}
		})
	}

	recs, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no persisted events, got %d", len(recs))
	}
}

func TestRecord_LogoutReturnsDuration(t *testing.T) {
	handler, _, clock := newTestHandler(t)

	login := testutil.NewJSONRequest(t, "POST", "/api/activity-log", map[string]string{
		"username":  "jdoe",
		"email":     "jdoe@hvc.example",
		"action":    "login",
		"sessionId": "S",
	})
	rec := httptest.NewRecorder()
	handler.Record(rec, login)
	testutil.AssertStatus(t, rec, 201)

	clock.now = clock.now.Add(5 * time.Minute)

	logout := testutil.NewJSONRequest(t, "POST", "/api/activity-log", map[string]string{
		"username":  "jdoe",
		"email":     "jdoe@hvc.example",
		"action":    "logout",
		"sessionId": "S",
	})
	rec = httptest.NewRecorder()
	handler.Record(rec, logout)
	testutil.AssertStatus(t, rec, 201)

	var resp struct {
		SessionDuration *int `json:"sessionDuration"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.SessionDuration == nil || *resp.SessionDuration != 5 {
		t.Errorf("sessionDuration: got %v, want 5", resp.SessionDuration)
	}
}

func TestRecord_SanitizesFreeText(t *testing.T) {
	handler, store, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, "POST", "/api/activity-log", map[string]string{
		"username":   "jdoe",
		"email":      "jdoe@hvc.example",
		"action":     "login",
		"department": `<script>alert("x")</script>Radiology`,
	})
	rec := httptest.NewRecorder()
	handler.Record(rec, req)
	testutil.AssertStatus(t, rec, 201)

	recs, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if recs[0].Department != "Radiology" {
		t.Errorf("Department: got %q, want HTML stripped", recs[0].Department)
	}
}

// failingStore errors on every operation, standing in for an unreachable
// database.
type failingStore struct{}

var errStoreDown = errors.New("connection refused")

func (failingStore) Append(context.Context, models.ActivityLog) (models.ActivityLog, error) {
	return models.ActivityLog{}, errStoreDown
}

func (failingStore) Recent(context.Context, int64) ([]models.ActivityLog, error) {
	return nil, errStoreDown
}

func (failingStore) RecentByUser(context.Context, string, int64) ([]models.ActivityLog, error) {
	return nil, errStoreDown
}

func (failingStore) LastSessionLogin(context.Context, string, string) (*models.ActivityLog, error) {
	return nil, errStoreDown
}

func TestRecord_StoreFailureEmitsAuditEvent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	observed := zap.New(core)

	engine := timeline.New(failingStore{}, zap.NewNop(), timeline.Config{})
	auditLog := auditlog.New(nil, observed, auditlog.Config{Activity: "log"})
	handler := activitylog.NewHandler(engine, auditLog, nil, zap.NewNop())

	req := testutil.NewJSONRequest(t, "POST", "/api/activity-log", map[string]string{
		"username": "jdoe",
		"email":    "jdoe@hvc.example",
		"action":   "login",
	})
	rec := httptest.NewRecorder()
	handler.Record(rec, req)

	testutil.AssertStatus(t, rec, 503)

	var resp struct {
		Error string `json:"error"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Error == "" {
		t.Error("expected an error description")
	}

	found := false
	for _, entry := range logs.All() {
		if entry.Message != "audit event" {
			continue
		}
		fields := entry.ContextMap()
		if fields["event_type"] == "store_unavailable" {
			found = true
			if fields["success"] != false {
				t.Error("expected success=false on the audit event")
			}
		}
	}
	if !found {
		t.Error("expected a store_unavailable audit event")
	}
}

func TestListActive(t *testing.T) {
	handler, store, clock := newTestHandler(t)
	base := clock.Now()

	mustAppend(t, store, "u1", models.ActionLogin, "s1", base.Add(-10*time.Minute))
	mustAppend(t, store, "u2", models.ActionLogin, "s2", base.Add(-8*time.Minute))
	mustAppend(t, store, "u2", models.ActionLogout, "s2", base.Add(-4*time.Minute))

	req := httptest.NewRequest("GET", "/api/activity-log", nil)
	rec := httptest.NewRecorder()
	handler.ListActive(rec, req)

	testutil.AssertStatus(t, rec, 200)

	var resp struct {
		Logs         []json.RawMessage `json:"logs"`
		UserSessions []struct {
			Username               string `json:"username"`
			IsCurrentlyLoggedIn    bool   `json:"isCurrentlyLoggedIn"`
			CurrentSessionDuration *int   `json:"currentSessionDuration"`
		} `json:"userSessions"`
		Statistics struct {
			CurrentlyLoggedIn int `json:"currentlyLoggedIn"`
			TotalLogs         int `json:"totalLogs"`
			ActiveSessions    int `json:"activeSessions"`
		} `json:"statistics"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if len(resp.UserSessions) != 1 || resp.UserSessions[0].Username != "u1" {
		t.Fatalf("expected only u1 active, got %+v", resp.UserSessions)
	}
	if d := resp.UserSessions[0].CurrentSessionDuration; d == nil || *d != 10 {
		t.Errorf("duration: got %v, want 10", d)
	}
	if resp.Statistics.CurrentlyLoggedIn != 1 || resp.Statistics.ActiveSessions != 1 {
		t.Errorf("statistics: %+v", resp.Statistics)
	}
	if resp.Statistics.TotalLogs != 3 {
		t.Errorf("TotalLogs: got %d, want 3", resp.Statistics.TotalLogs)
	}
	if len(resp.Logs) != 3 {
		t.Errorf("logs length: got %d, want 3", len(resp.Logs))
	}
}

func TestUserStats_MissingUsername(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/api/activity-log/user", nil)
	rec := httptest.NewRecorder()
	handler.UserStats(rec, req)

	testutil.AssertStatus(t, rec, 400)
}

func TestUserStats(t *testing.T) {
	handler, store, clock := newTestHandler(t)
	base := clock.Now()

	mustAppend(t, store, "u1", models.ActionLogin, "s1", base.Add(-30*time.Minute))

	req := httptest.NewRequest("GET", "/api/activity-log/user?username=u1", nil)
	rec := httptest.NewRecorder()
	handler.UserStats(rec, req)

	testutil.AssertStatus(t, rec, 200)

	var resp struct {
		UserStats struct {
			Username               string `json:"username"`
			TotalLogins            int    `json:"totalLogins"`
			TotalLogouts           int    `json:"totalLogouts"`
			IsCurrentlyLoggedIn    bool   `json:"isCurrentlyLoggedIn"`
			CurrentSessionDuration *int   `json:"currentSessionDuration"`
		} `json:"userStats"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	stats := resp.UserStats
	if !stats.IsCurrentlyLoggedIn {
		t.Error("expected logged in")
	}
	if stats.TotalLogins != 1 || stats.TotalLogouts != 0 {
		t.Errorf("counts: got %d/%d, want 1/0", stats.TotalLogins, stats.TotalLogouts)
	}
	if stats.CurrentSessionDuration == nil || *stats.CurrentSessionDuration != 30 {
		t.Errorf("duration: got %v, want 30", stats.CurrentSessionDuration)
	}
}

func mustAppend(t *testing.T, store *logstore.InMemoryStore, username, action, sessionID string, at time.Time) {
	t.Helper()
	_, err := store.Append(context.Background(), models.ActivityLog{
		Username:  username,
		Email:     username + "@hvc.example",
		Action:    action,
		SessionID: sessionID,
		Timestamp: at,
	})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
}
