package auditlog_test

import (
	"net/http/httptest"
	"testing"
	"time"

	auditfeature "github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/features/auditlog"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/store/audit"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/testutil"
	"go.uber.org/zap"
)

func seedEvents(t *testing.T, store *audit.Store) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seed := []audit.Event{
		{Category: audit.CategoryActivity, EventType: audit.EventLoginRecorded, Username: "jdoe", Success: true, Timestamp: base},
		{Category: audit.CategoryActivity, EventType: audit.EventLogoutRecorded, Username: "jdoe", Success: true, Timestamp: base.Add(time.Hour)},
		{Category: audit.CategoryActivity, EventType: audit.EventRequestRejected, Username: "mallory", Success: false, Timestamp: base.Add(2 * time.Hour)},
	}
	for _, ev := range seed {
		if err := store.Log(ctx, ev); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
}

func TestList_ReturnsEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	seedEvents(t, store)

	handler := auditfeature.NewHandler(store, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	testutil.AssertStatus(t, rec, 200)

	var resp struct {
		Events []audit.Event `json:"events"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if len(resp.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(resp.Events))
	}
	if resp.Events[0].EventType != audit.EventRequestRejected {
		t.Errorf("expected most recent first, got %q", resp.Events[0].EventType)
	}
}

func TestList_FiltersByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	seedEvents(t, store)

	handler := auditfeature.NewHandler(store, zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit?username=jdoe", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	testutil.AssertStatus(t, rec, 200)

	var resp struct {
		Events []audit.Event `json:"events"`
	}
	testutil.DecodeJSON(t, rec, &resp)

	if len(resp.Events) != 2 {
		t.Fatalf("expected 2 events for jdoe, got %d", len(resp.Events))
	}
	for _, ev := range resp.Events {
		if ev.Username != "jdoe" {
			t.Errorf("unexpected username %q", ev.Username)
		}
	}
}

func TestList_RejectsBadParams(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := auditfeature.NewHandler(audit.New(db), zap.NewNop())

	cases := []struct {
		name   string
		target string
	}{
		{"bad limit", "/api/audit?limit=abc"},
		{"negative limit", "/api/audit?limit=-5"},
		{"bad start date", "/api/audit?start_date=March+1"},
		{"bad end date", "/api/audit?end_date=2026-13-99"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.target, nil)
			rec := httptest.NewRecorder()
			handler.List(rec, req)
			testutil.AssertStatus(t, rec, 400)
		})
	}
}

func TestList_EmptyStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := auditfeature.NewHandler(audit.New(db), zap.NewNop())

	req := httptest.NewRequest("GET", "/api/audit", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	testutil.AssertStatus(t, rec, 200)

	var resp struct {
		Events []audit.Event `json:"events"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Events == nil {
		t.Error("expected an empty array, not null")
	}
}
