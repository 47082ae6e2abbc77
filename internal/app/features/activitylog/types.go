// internal/app/features/activitylog/types.go
package activitylog

import (
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/system/clientinfo"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/timeline"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/domain/models"
)

// activityEntry is one raw log record as returned to API clients, with a
// display-only device label derived from the stored User-Agent.
type activityEntry struct {
	models.ActivityLog
	Device string `json:"device,omitempty"`
}

// recordResponse is the body for a successful POST.
type recordResponse struct {
	Message         string             `json:"message"`
	Log             models.ActivityLog `json:"log"`
	SessionDuration *int               `json:"sessionDuration"`
}

// userSessionView mirrors timeline.UserSession with annotated activity.
type userSessionView struct {
	timeline.UserSession
	RecentActivity []activityEntry `json:"recentActivity"`
}

// reportResponse is the body for GET /api/activity-log.
type reportResponse struct {
	Logs         []activityEntry     `json:"logs"`
	UserSessions []userSessionView   `json:"userSessions"`
	Statistics   timeline.Statistics `json:"statistics"`
}

// userStatsView mirrors timeline.UserStats with annotated activity.
type userStatsView struct {
	timeline.UserStats
	RecentActivity []activityEntry `json:"recentActivity"`
}

// statsResponse is the body for GET /api/activity-log/user.
type statsResponse struct {
	UserStats userStatsView `json:"userStats"`
}

// errorResponse is the body for all failure outcomes.
type errorResponse struct {
	Error string `json:"error"`
}

func annotate(recs []models.ActivityLog) []activityEntry {
	entries := make([]activityEntry, 0, len(recs))
	for _, rec := range recs {
		entries = append(entries, activityEntry{
			ActivityLog: rec,
			Device:      clientinfo.DeviceSummary(rec.UserAgent),
		})
	}
	return entries
}
