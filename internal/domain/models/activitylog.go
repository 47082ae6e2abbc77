// internal/domain/models/activitylog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity log actions.
const (
	ActionLogin  = "login"
	ActionLogout = "logout"
)

// ActivityLog is one immutable login or logout record for a portal user.
// Records are append-only: once written they are never updated or deleted,
// and every derived session view is recomputed from them at read time.
//
// Timestamp is the ordering key and is assigned by the service when the
// event is accepted, never by the client. Ties on Timestamp are broken by
// _id, which increases in arrival order.
type ActivityLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username   string             `bson:"username" json:"username"`
	UsernameCI string             `bson:"username_ci" json:"-"`
	Email      string             `bson:"email" json:"email"`
	Department string             `bson:"department,omitempty" json:"department,omitempty"`
	Role       string             `bson:"role,omitempty" json:"role,omitempty"`
	Action     string             `bson:"action" json:"action"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	SessionID  string             `bson:"session_id" json:"sessionId"`
	IPAddress  string             `bson:"ip_address,omitempty" json:"ipAddress,omitempty"`
	UserAgent  string             `bson:"user_agent,omitempty" json:"userAgent,omitempty"`
}

// IsLogin reports whether the record is a login event.
func (a ActivityLog) IsLogin() bool { return a.Action == ActionLogin }

// IsLogout reports whether the record is a logout event.
func (a ActivityLog) IsLogout() bool { return a.Action == ActionLogout }
