// internal/app/timeline/types.go
package timeline

import (
	"context"
	"time"

	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/domain/models"
)

// EventStore is the persistence collaborator the engine derives from.
// Implementations must guarantee read-after-write visibility and a stable
// ordering: timestamp descending, arrival order breaking ties.
type EventStore interface {
	Append(ctx context.Context, rec models.ActivityLog) (models.ActivityLog, error)
	Recent(ctx context.Context, limit int64) ([]models.ActivityLog, error)
	RecentByUser(ctx context.Context, username string, limit int64) ([]models.ActivityLog, error)
	LastSessionLogin(ctx context.Context, username, sessionID string) (*models.ActivityLog, error)
}

// RecordInput carries the fields of an incoming login/logout event.
// Username, Email, and Action are required; everything else is optional
// provenance or display metadata.
type RecordInput struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Action     string `json:"action"`
	Department string `json:"department,omitempty"`
	Role       string `json:"role,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	IPAddress  string `json:"ipAddress,omitempty"`
	UserAgent  string `json:"userAgent,omitempty"`
}

// RecordResult is the outcome of recording one event. SessionDuration is
// set only for a logout that matched a prior login on the same session id,
// in whole minutes.
type RecordResult struct {
	Log             models.ActivityLog `json:"log"`
	SessionDuration *int               `json:"sessionDuration"`
}

// UserSession summarizes one currently-logged-in user within the
// considered window.
type UserSession struct {
	Username               string               `json:"username"`
	Email                  string               `json:"email"`
	Department             string               `json:"department,omitempty"`
	Role                   string               `json:"role,omitempty"`
	IsCurrentlyLoggedIn    bool                 `json:"isCurrentlyLoggedIn"`
	LastLogin              *time.Time           `json:"lastLogin"`
	LastLogout             *time.Time           `json:"lastLogout"`
	TotalLogins            int                  `json:"totalLogins"`
	TotalLogouts           int                  `json:"totalLogouts"`
	CurrentSessionDuration *int                 `json:"currentSessionDuration"`
	RecentActivity         []models.ActivityLog `json:"recentActivity"`
}

// Statistics aggregates the active sessions report.
type Statistics struct {
	TotalUsers        int `json:"totalUsers"`
	CurrentlyLoggedIn int `json:"currentlyLoggedIn"`
	TotalLogs         int `json:"totalLogs"`
	ActiveSessions    int `json:"activeSessions"`
}

// ActiveSessionsReport is the full "who is online" view: the raw window of
// considered events, one summary per logged-in user, and aggregates.
type ActiveSessionsReport struct {
	Logs         []models.ActivityLog `json:"logs"`
	UserSessions []UserSession        `json:"userSessions"`
	Statistics   Statistics           `json:"statistics"`
}

// UserStats is the per-user report derived from that user's recent
// history.
type UserStats struct {
	Username               string               `json:"username"`
	TotalLogins            int                  `json:"totalLogins"`
	TotalLogouts           int                  `json:"totalLogouts"`
	LastLogin              *time.Time           `json:"lastLogin"`
	LastLogout             *time.Time           `json:"lastLogout"`
	IsCurrentlyLoggedIn    bool                 `json:"isCurrentlyLoggedIn"`
	CurrentSessionDuration *int                 `json:"currentSessionDuration"`
	RecentActivity         []models.ActivityLog `json:"recentActivity"`
}
