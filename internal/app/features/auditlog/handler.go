// internal/app/features/auditlog/handler.go
package auditlog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/store/audit"
	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const defaultLimit = 50
const maxLimit = 500

// Handler serves the audit trail as JSON for operators.
type Handler struct {
	Store *audit.Store
	Log   *zap.Logger
}

// NewHandler constructs an audit trail handler bound to the given store
// and logger.
func NewHandler(store *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Log:   logger,
	}
}

type listResponse struct {
	Events []audit.Event `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// List handles GET /api/audit. Supported query parameters:
//
//	username   - filter by username
//	event_type - filter by event type (e.g. login_recorded)
//	start_date - inclusive lower bound, YYYY-MM-DD
//	end_date   - inclusive upper bound, YYYY-MM-DD
//	limit      - max events to return (default 50, cap 500)
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit list")
	defer cancel()

	q := r.URL.Query()
	filter := audit.QueryFilter{
		Username:  strings.TrimSpace(q.Get("username")),
		EventType: strings.TrimSpace(q.Get("event_type")),
		Limit:     defaultLimit,
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		if n > maxLimit {
			n = maxLimit
		}
		filter.Limit = n
	}

	if raw := q.Get("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "start_date must be YYYY-MM-DD"})
			return
		}
		filter.StartTime = &t
	}
	if raw := q.Get("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "end_date must be YYYY-MM-DD"})
			return
		}
		endOfDay := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &endOfDay
	}

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.Log.Error("audit query failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "audit store unavailable"})
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	writeJSON(w, http.StatusOK, listResponse{Events: events})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
