// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/jadwalhub/internal/app/store/audit"
	"github.com/dalemusser/jadwalhub/internal/app/store/importdrafts"
	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeouts"
	"github.com/dalemusser/jadwalhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and builds the backend client.
//
// MongoDB must answer a ping before startup continues. The backend is only
// logged when unreachable: the page degrades per request and /health
// reports it.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	backend, err := backendapi.New(backendapi.Config{
		BaseURL:  appCfg.BackendBaseURL,
		Resource: appCfg.BackendResource,
		Token:    appCfg.BackendToken,
		Timeout:  appCfg.BackendTimeout,
	}, logger)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("backend client: %w", err)
	}
	if err := backend.Ping(pingCtx); err != nil {
		logger.Warn("schedule backend unreachable at startup", zap.String("base_url", appCfg.BackendBaseURL), zap.Error(err))
	}

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Backend:       backend,
	}, nil
}

// EnsureSchema applies collection validators and indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase
	if err := validators.EnsureAll(ctx, db, logger); err != nil {
		logger.Error("ensure validators failed", zap.Error(err))
		return err
	}
	if err := importdrafts.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("ensure import_drafts indexes failed", zap.Error(err))
		return err
	}
	if err := audit.New(db).EnsureIndexes(ctx); err != nil {
		logger.Error("ensure audit_events indexes failed", zap.Error(err))
		return err
	}
	logger.Info("schema ensured")
	return nil
}
