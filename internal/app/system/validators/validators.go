// internal/app/system/validators/validators.go
//
// Package validators creates the collections of the app and attaches their
// JSON-Schema validators. Servers without collMod support (some DocumentDB
// versions) keep the collections and skip the validators.
package validators

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dalemusser/jadwalhub/internal/app/store/audit"
	"github.com/dalemusser/jadwalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collection names this app writes to.
const (
	CollImportDrafts = "import_drafts"
	CollAuditEvents  = "audit_events"
)

// MongoDB error codes handled here.
const (
	codeNamespaceExists = 48
	codeCommandNotFound = 59
	codeNotSupported    = 115
)

type collectionSpec struct {
	name   string
	schema bson.M
}

func collections() []collectionSpec {
	return []collectionSpec{
		{CollImportDrafts, importDraftsSchema()},
		{CollAuditEvents, auditEventsSchema()},
	}
}

// EnsureAll creates the missing collections and (re)applies every
// validator. It is idempotent; failures of all collections are joined.
func EnsureAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// Creation below tolerates collections that already exist.
		logger.Warn("list collections failed", zap.Error(err))
	}

	var errs []error
	for _, c := range collections() {
		if err := ensure(ctx, db, logger, c, slices.Contains(existing, c.name)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.name, err))
		}
	}
	return errors.Join(errs...)
}

func ensure(ctx context.Context, db *mongo.Database, logger *zap.Logger, c collectionSpec, exists bool) error {
	log := logger.With(zap.String("collection", c.name))

	if !exists {
		err := db.CreateCollection(ctx, c.name)
		switch {
		case err == nil:
			log.Info("created collection")
		case commandFailed(err, codeNamespaceExists, "already exists", "namespace exists"):
		default:
			return fmt.Errorf("create: %w", err)
		}
	}

	cmd := bson.D{
		{Key: "collMod", Value: c.name},
		{Key: "validator", Value: c.schema},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	err := db.RunCommand(ctx, cmd).Err()
	switch {
	case err == nil:
		log.Info("validator ensured")
		return nil
	case commandFailed(err, codeCommandNotFound, "no such command"),
		commandFailed(err, codeNotSupported, "not implemented", "not supported"):
		log.Info("validator skipped (unsupported)")
		return nil
	}
	return fmt.Errorf("collMod: %w", err)
}

// commandFailed reports whether err is a MongoDB command error with code,
// or any error whose message contains one of phrases.
func commandFailed(err error, code int32, phrases ...string) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == code {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

func categoryEnum() []string {
	out := make([]string, len(models.AllCategories))
	for i, c := range models.AllCategories {
		out[i] = string(c)
	}
	return out
}

// importDraftsSchema guards the draft key; rows and errors are free-form
// but must be arrays when present.
func importDraftsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"session_id", "course_code", "category", "updated_at"},
			"properties": bson.M{
				"session_id":  bson.M{"bsonType": "string", "minLength": 1},
				"course_code": bson.M{"bsonType": "string", "minLength": 1},
				"category":    bson.M{"enum": categoryEnum()},
				"rows":        bson.M{"bsonType": []string{"array", "null"}},
				"cell_errors": bson.M{"bsonType": []string{"array", "null"}},
				"page":        bson.M{"bsonType": []string{"int", "long"}, "minimum": 0},
				"updated_at":  bson.M{"bsonType": "date"},
			},
		},
	}
}

func auditEventsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": []string{"timestamp", "category", "event_type", "course_code", "success"},
			"properties": bson.M{
				"timestamp":   bson.M{"bsonType": "date"},
				"category":    bson.M{"enum": []string{audit.CategorySchedule, audit.CategoryImport}},
				"event_type":  bson.M{"bsonType": "string", "minLength": 1},
				"course_code": bson.M{"bsonType": "string"},
				"success":     bson.M{"bsonType": "bool"},
			},
		},
	}
}
