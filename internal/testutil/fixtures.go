package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/store/activitylogs"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/domain/models"
)

// Fixtures provides helper methods for seeding activity log test data.
type Fixtures struct {
	store *activitylogs.Store
	t     *testing.T
}

// NewFixtures creates a Fixtures instance over the given store.
func NewFixtures(t *testing.T, store *activitylogs.Store) *Fixtures {
	t.Helper()
	return &Fixtures{store: store, t: t}
}

// Login appends a login record for username at the given time.
func (f *Fixtures) Login(ctx context.Context, username, sessionID string, at time.Time) models.ActivityLog {
	return f.append(ctx, username, models.ActionLogin, sessionID, at)
}

// Logout appends a logout record for username at the given time.
func (f *Fixtures) Logout(ctx context.Context, username, sessionID string, at time.Time) models.ActivityLog {
	return f.append(ctx, username, models.ActionLogout, sessionID, at)
}

func (f *Fixtures) append(ctx context.Context, username, action, sessionID string, at time.Time) models.ActivityLog {
	f.t.Helper()

	rec, err := f.store.Append(ctx, models.ActivityLog{
		Username:   username,
		Email:      username + "@hvc.example",
		Department: "Cardiology",
		Action:     action,
		SessionID:  sessionID,
		Timestamp:  at,
		IPAddress:  "192.0.2.10",
		UserAgent:  "fixtures/1.0",
	})
	if err != nil {
		f.t.Fatalf("fixture append failed: %v", err)
	}
	return rec
}
