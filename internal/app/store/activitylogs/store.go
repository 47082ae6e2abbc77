// internal/app/store/activitylogs/store.go
package activitylogs

import (
	"context"
	"time"

	"github.com/Mohitleo09/HVC-PORTAL-sub002/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store persists activity log records in the "activity_logs" collection.
// The collection is append-only: records are inserted once and never
// updated or deleted.
type Store struct {
	c *mongo.Collection
}

// New creates a new activity log Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activity_logs")}
}

// EnsureIndexes creates the indexes the read paths depend on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// Recent events across all users (active sessions report)
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("idx_activitylogs_recent"),
		},
		// Per-user history (user stats report)
		{
			Keys:    bson.D{{Key: "username_ci", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activitylogs_user"),
		},
		// Session correlation (logout duration lookup)
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_activitylogs_session"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Append inserts one record. If Timestamp is zero it is set to
// time.Now().UTC(); UsernameCI is derived from Username. The stored
// record (with its assigned ID) is returned.
func (s *Store) Append(ctx context.Context, rec models.ActivityLog) (models.ActivityLog, error) {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.UsernameCI = text.Fold(rec.Username)

	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.ActivityLog{}, err
	}
	return rec, nil
}

// Recent returns up to limit records across all users, most recent first.
// Records sharing a timestamp come back in reverse arrival order, so the
// overall order is stable.
func (s *Store) Recent(ctx context.Context, limit int64) ([]models.ActivityLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.ActivityLog
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// RecentByUser returns up to limit records for one user, most recent
// first. The lookup is case-insensitive on username.
func (s *Store) RecentByUser(ctx context.Context, username string, limit int64) ([]models.ActivityLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cur, err := s.c.Find(ctx, bson.M{"username_ci": text.Fold(username)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.ActivityLog
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// LastSessionLogin returns the most recent login record for the given
// username and session id, or nil when the session has no recorded login.
func (s *Store) LastSessionLogin(ctx context.Context, username, sessionID string) (*models.ActivityLog, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}})

	filter := bson.M{
		"username_ci": text.Fold(username),
		"session_id":  sessionID,
		"action":      models.ActionLogin,
	}

	var rec models.ActivityLog
	err := s.c.FindOne(ctx, filter, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
