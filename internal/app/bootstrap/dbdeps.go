// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Backend is the schedule backend that owns the persisted schedules
	// and the reference data.
	Backend *backendapi.Client
}
