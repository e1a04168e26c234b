// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/jadwalhub/internal/app/resources"
	"github.com/dalemusser/jadwalhub/internal/app/store/importdrafts"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeouts"
	"github.com/dalemusser/jadwalhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// draftCleanup is started here and stopped in Shutdown.
var draftCleanup *workers.DraftCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates, applies the configured timeouts, and starts the
// worker that purges abandoned import drafts.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Backend: appCfg.BackendTimeout,
		Batch:   appCfg.BatchTimeout,
	})

	draftCleanup = workers.NewDraftCleanup(importdrafts.New(deps.MongoDatabase), logger,
		appCfg.DraftCleanupInterval, appCfg.DraftTTL)
	draftCleanup.Start()
	return nil
}
