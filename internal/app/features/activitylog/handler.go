// internal/app/features/activitylog/handler.go
package activitylog

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/store/audit"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/system/auditlog"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/system/clientinfo"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/system/metrics"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/system/timeouts"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/timeline"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// sanitizer strips HTML from free-text display fields before they are
// stored. Derivation never interprets these fields, but they are echoed
// back to admin clients.
var sanitizer = bluemonday.StrictPolicy()

// Handler owns the activity log JSON endpoints.
type Handler struct {
	Engine  *timeline.Engine
	Audit   *auditlog.Logger
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

// NewHandler creates a new activity log Handler. Audit and Metrics may be
// nil, which disables the respective side channel.
func NewHandler(engine *timeline.Engine, auditLog *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	return &Handler{
		Engine:  engine,
		Audit:   auditLog,
		Metrics: m,
		Log:     logger,
	}
}

// Record handles POST /api/activity-log.
//
// The body carries {username, email, action, ...}; username, email, and a
// login/logout action are required. The stored record plus the optional
// session duration (whole minutes, logout only) come back on 201.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var in timeline.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.reject(w, r, "invalid JSON body", http.StatusBadRequest, "record")
		return
	}

	in.Department = sanitizer.Sanitize(in.Department)
	in.Role = sanitizer.Sanitize(in.Role)
	in.UserAgent = sanitizer.Sanitize(in.UserAgent)
	if in.IPAddress == "" {
		in.IPAddress = clientinfo.ClientIP(r)
	}
	if in.UserAgent == "" {
		in.UserAgent = sanitizer.Sanitize(r.UserAgent())
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "record activity event")
	defer cancel()

	res, err := h.Engine.RecordEvent(ctx, in)
	if err != nil {
		switch {
		case timeline.IsValidation(err):
			h.reject(w, r, err.Error(), http.StatusBadRequest, "record")
		default:
			h.storeFailure(w, r, err, "record")
		}
		return
	}

	h.auditRecorded(r, res.Log)
	if h.Metrics != nil {
		h.Metrics.EventsRecorded.WithLabelValues(res.Log.Action).Inc()
		h.Metrics.RecordDurationMs.Observe(float64(time.Since(started).Milliseconds()))
	}

	writeJSON(w, http.StatusCreated, recordResponse{
		Message:         "activity logged",
		Log:             res.Log,
		SessionDuration: res.SessionDuration,
	})
}

// ListActive handles GET /api/activity-log: the raw event window, one
// summary per currently-logged-in user, and aggregate statistics.
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "active sessions report")
	defer cancel()

	report, err := h.Engine.ListActiveSessions(ctx)
	if err != nil {
		h.storeFailure(w, r, err, "list")
		return
	}

	if h.Metrics != nil {
		h.Metrics.CurrentlyLoggedIn.Set(float64(report.Statistics.CurrentlyLoggedIn))
		h.Metrics.ReportDurationMs.Observe(float64(time.Since(started).Milliseconds()))
	}

	resp := reportResponse{
		Logs:         annotate(report.Logs),
		UserSessions: make([]userSessionView, 0, len(report.UserSessions)),
		Statistics:   report.Statistics,
	}
	for _, sess := range report.UserSessions {
		resp.UserSessions = append(resp.UserSessions, userSessionView{
			UserSession:    sess,
			RecentActivity: annotate(sess.RecentActivity),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// UserStats handles GET /api/activity-log/user?username=...
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "user stats")
	defer cancel()

	stats, err := h.Engine.UserStats(ctx, username)
	if err != nil {
		switch {
		case timeline.IsValidation(err):
			h.reject(w, r, err.Error(), http.StatusBadRequest, "user_stats")
		default:
			h.storeFailure(w, r, err, "user_stats")
		}
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		UserStats: userStatsView{
			UserStats:      *stats,
			RecentActivity: annotate(stats.RecentActivity),
		},
	})
}

// auditRecorded emits the best-effort audit record for an accepted event.
func (h *Handler) auditRecorded(r *http.Request, rec models.ActivityLog) {
	eventType := audit.EventLoginRecorded
	if rec.IsLogout() {
		eventType = audit.EventLogoutRecorded
	}
	h.Audit.Log(r.Context(), audit.Event{
		Category:  audit.CategoryActivity,
		EventType: eventType,
		Username:  rec.Username,
		IP:        rec.IPAddress,
		UserAgent: rec.UserAgent,
		Success:   true,
		Details:   map[string]string{"session_id": rec.SessionID},
	})
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, msg string, status int, endpoint string) {
	if h.Metrics != nil {
		h.Metrics.ValidationErrors.WithLabelValues(endpoint).Inc()
	}
	h.Audit.Log(r.Context(), audit.Event{
		Category:      audit.CategoryActivity,
		EventType:     audit.EventRequestRejected,
		IP:            clientinfo.ClientIP(r),
		Success:       false,
		FailureReason: msg,
	})
	writeJSON(w, status, errorResponse{Error: msg})
}

func (h *Handler) storeFailure(w http.ResponseWriter, r *http.Request, err error, endpoint string) {
	h.Log.Error("event store failure", zap.String("endpoint", endpoint), zap.Error(err))
	if h.Metrics != nil {
		h.Metrics.StoreFailures.WithLabelValues(endpoint).Inc()
	}
	h.Audit.Log(r.Context(), audit.Event{
		Category:      audit.CategoryActivity,
		EventType:     audit.EventStoreUnavailable,
		IP:            clientinfo.ClientIP(r),
		Success:       false,
		FailureReason: err.Error(),
		Details:       map[string]string{"endpoint": endpoint},
	})
	writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "activity log store unavailable"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
