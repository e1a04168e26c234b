// internal/app/store/importdrafts/store.go
package importdrafts

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/jadwalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by Get when no draft exists for the key.
var ErrNotFound = errors.New("import draft not found")

// Key identifies the draft of one category tab in one browser session.
type Key struct {
	SessionID  string
	CourseCode string
	Category   models.ScheduleCategory
}

func (k Key) filter() bson.M {
	return bson.M{
		"session_id":  k.SessionID,
		"course_code": k.CourseCode,
		"category":    k.Category,
	}
}

// Store persists import drafts.
type Store struct {
	c *mongo.Collection
}

// New creates a new import draft Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("import_drafts")}
}

// EnsureIndexes creates the unique draft key and the staleness index used
// by the cleanup worker.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "session_id", Value: 1},
				{Key: "course_code", Value: 1},
				{Key: "category", Value: 1},
			},
			Options: options.Index().SetName("uniq_import_drafts_key").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: 1}},
			Options: options.Index().SetName("idx_import_drafts_updated"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Get returns the draft for k, or ErrNotFound.
func (s *Store) Get(ctx context.Context, k Key) (*models.ImportDraft, error) {
	var d models.ImportDraft
	err := s.c.FindOne(ctx, k.filter()).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Load returns the draft for k, or a new empty one carrying the key when
// none has been saved yet.
func (s *Store) Load(ctx context.Context, k Key) (*models.ImportDraft, error) {
	d, err := s.Get(ctx, k)
	if errors.Is(err, ErrNotFound) {
		return &models.ImportDraft{SessionID: k.SessionID, CourseCode: k.CourseCode, Category: k.Category}, nil
	}
	return d, err
}

// Save upserts d under its key and stamps UpdatedAt (and CreatedAt on the
// first save).
func (s *Store) Save(ctx context.Context, d *models.ImportDraft) error {
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	k := Key{SessionID: d.SessionID, CourseCode: d.CourseCode, Category: d.Category}
	res, err := s.c.ReplaceOne(ctx, k.filter(), d, options.Replace().SetUpsert(true))
	if err != nil {
		return err
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		d.ID = oid
	}
	return nil
}

// Delete removes the draft for k. Deleting a missing draft is not an error.
func (s *Store) Delete(ctx context.Context, k Key) error {
	_, err := s.c.DeleteOne(ctx, k.filter())
	return err
}

// DeleteStale removes drafts not touched since before and returns how
// many were removed.
func (s *Store) DeleteStale(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"updated_at": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
