// internal/app/timeline/engine.go
package timeline

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default retrieval windows. Every derived view is recomputed from a
// bounded slice of the event log, so these bound the cost of each read.
const (
	DefaultGlobalWindow    = 1000 // events considered for the active sessions report
	DefaultPerUserWindow   = 50   // per-user history depth within that report
	DefaultUserStatsWindow = 100  // events considered for a single user's stats

	reportRecentActivity = 10 // raw events returned per user in the report
	statsRecentActivity  = 20 // raw events returned in a user stats response
)

// Config tunes the engine's retrieval windows and clock. Zero values fall
// back to the defaults above and time.Now.
type Config struct {
	GlobalWindow    int64
	PerUserWindow   int64
	UserStatsWindow int64
	Now             func() time.Time
}

// Engine derives session views from the append-only activity log. It
// holds no state between calls: every view is a function of the stored
// events plus the current time, so it tolerates external writers and
// needs no coordination between concurrent requests.
type Engine struct {
	store EventStore
	log   *zap.Logger
	cfg   Config
}

// New creates an Engine over the given store.
func New(store EventStore, logger *zap.Logger, cfg Config) *Engine {
	if cfg.GlobalWindow <= 0 {
		cfg.GlobalWindow = DefaultGlobalWindow
	}
	if cfg.PerUserWindow <= 0 {
		cfg.PerUserWindow = DefaultPerUserWindow
	}
	if cfg.UserStatsWindow <= 0 {
		cfg.UserStatsWindow = DefaultUserStatsWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{store: store, log: logger, cfg: cfg}
}

// RecordEvent validates and appends one login/logout event. The timestamp
// is assigned here, at acceptance time; a missing session id gets a fresh
// unique token. For a logout carrying a client-supplied session id, the
// most recent prior login on the same session yields SessionDuration in
// whole minutes; an unmatched logout is accepted with a nil duration.
func (e *Engine) RecordEvent(ctx context.Context, in RecordInput) (*RecordResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := e.cfg.Now().UTC()
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var duration *int
	if in.Action == models.ActionLogout && in.SessionID != "" {
		// Best-effort lookup: a failure here must not block the write.
		login, err := e.store.LastSessionLogin(ctx, in.Username, sessionID)
		switch {
		case err != nil:
			e.log.Warn("session duration lookup failed",
				zap.String("username", in.Username),
				zap.String("session_id", sessionID),
				zap.Error(err))
		case login != nil:
			m := wholeMinutes(now.Sub(login.Timestamp))
			duration = &m
		}
	}

	stored, err := e.store.Append(ctx, models.ActivityLog{
		Username:   in.Username,
		Email:      in.Email,
		Department: in.Department,
		Role:       in.Role,
		Action:     in.Action,
		Timestamp:  now,
		SessionID:  sessionID,
		IPAddress:  in.IPAddress,
		UserAgent:  in.UserAgent,
	})
	if err != nil {
		return nil, &StoreUnavailableError{Op: "append", Err: err}
	}

	return &RecordResult{Log: stored, SessionDuration: duration}, nil
}

// ListActiveSessions reports every user whose most recent event in the
// window is a login, together with aggregate statistics over the window.
func (e *Engine) ListActiveSessions(ctx context.Context) (*ActiveSessionsReport, error) {
	logs, err := e.store.Recent(ctx, e.cfg.GlobalWindow)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "recent query", Err: err}
	}

	// Group the window by user, keeping each user's history in the
	// incoming order (timestamp descending, arrival order on ties) and
	// capped at the per-user depth.
	histories := make(map[string][]models.ActivityLog)
	var order []string
	for _, rec := range logs {
		key := rec.UsernameCI
		if key == "" {
			key = text.Fold(rec.Username)
		}
		if len(histories[key]) == 0 {
			order = append(order, key)
		}
		if int64(len(histories[key])) < e.cfg.PerUserWindow {
			histories[key] = append(histories[key], rec)
		}
	}

	report := &ActiveSessionsReport{Logs: logs}
	for _, key := range order {
		history := histories[key]
		last := history[0]

		if !strings.EqualFold(last.Role, "admin") {
			report.Statistics.TotalUsers++
		}
		if !last.IsLogin() {
			continue
		}

		sess := UserSession{
			Username:            last.Username,
			Email:               last.Email,
			Department:          last.Department,
			Role:                last.Role,
			IsCurrentlyLoggedIn: true,
			LastLogin:           timePtr(last.Timestamp),
			RecentActivity:      history[:min(reportRecentActivity, len(history))],
		}
		for _, rec := range history {
			switch rec.Action {
			case models.ActionLogin:
				sess.TotalLogins++
			case models.ActionLogout:
				sess.TotalLogouts++
				if sess.LastLogout == nil {
					sess.LastLogout = timePtr(rec.Timestamp)
				}
			}
		}
		m := e.minutesSince(last.Timestamp)
		sess.CurrentSessionDuration = &m

		report.UserSessions = append(report.UserSessions, sess)
	}

	report.Statistics.CurrentlyLoggedIn = len(report.UserSessions)
	report.Statistics.ActiveSessions = len(report.UserSessions)
	report.Statistics.TotalLogs = len(logs)
	return report, nil
}

// UserStats derives one user's current session state from their most
// recent history. A user is considered logged in when their most recent
// login is newer than their most recent logout (or no logout exists).
func (e *Engine) UserStats(ctx context.Context, username string) (*UserStats, error) {
	if strings.TrimSpace(username) == "" {
		return nil, &ValidationError{Field: "username", Reason: "required"}
	}

	history, err := e.store.RecentByUser(ctx, username, e.cfg.UserStatsWindow)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "user query", Err: err}
	}

	stats := &UserStats{
		Username:       username,
		RecentActivity: history[:min(statsRecentActivity, len(history))],
	}
	for _, rec := range history {
		switch rec.Action {
		case models.ActionLogin:
			stats.TotalLogins++
			if stats.LastLogin == nil {
				stats.LastLogin = timePtr(rec.Timestamp)
			}
		case models.ActionLogout:
			stats.TotalLogouts++
			if stats.LastLogout == nil {
				stats.LastLogout = timePtr(rec.Timestamp)
			}
		}
	}

	if stats.LastLogin != nil &&
		(stats.LastLogout == nil || stats.LastLogin.After(*stats.LastLogout)) {
		stats.IsCurrentlyLoggedIn = true
		m := e.minutesSince(*stats.LastLogin)
		stats.CurrentSessionDuration = &m
	}
	return stats, nil
}

// minutesSince is the live duration from t to now in whole minutes. It is
// recomputed on every read; two calls in quick succession may differ.
func (e *Engine) minutesSince(t time.Time) int {
	return wholeMinutes(e.cfg.Now().UTC().Sub(t))
}

// wholeMinutes rounds d to the nearest minute, clamped at zero.
func wholeMinutes(d time.Duration) int {
	m := int(math.Round(d.Minutes()))
	if m < 0 {
		return 0
	}
	return m
}

func (in RecordInput) validate() error {
	if strings.TrimSpace(in.Username) == "" {
		return &ValidationError{Field: "username", Reason: "required"}
	}
	if strings.TrimSpace(in.Email) == "" {
		return &ValidationError{Field: "email", Reason: "required"}
	}
	switch in.Action {
	case models.ActionLogin, models.ActionLogout:
	case "":
		return &ValidationError{Field: "action", Reason: "required"}
	default:
		return &ValidationError{Field: "action", Reason: `must be "login" or "logout"`}
	}
	return nil
}

func timePtr(t time.Time) *time.Time { return &t }
