// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/jadwalhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/jadwalhub/internal/app/features/health"
	homefeature "github.com/dalemusser/jadwalhub/internal/app/features/home"
	jadwalfeature "github.com/dalemusser/jadwalhub/internal/app/features/jadwal"
	"github.com/dalemusser/jadwalhub/internal/app/store/audit"
	"github.com/dalemusser/jadwalhub/internal/app/store/importdrafts"
	"github.com/dalemusser/jadwalhub/internal/app/system/auditlog"
	"github.com/dalemusser/jadwalhub/internal/app/system/draftsession"
	"github.com/dalemusser/jadwalhub/internal/app/system/metrics"
	"github.com/dalemusser/jadwalhub/internal/app/system/ratelimit"
	"github.com/dalemusser/jadwalhub/internal/app/system/refdata"
	"github.com/dalemusser/jadwalhub/internal/app/system/submission"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// JadwalHub boots the template engine, issues the draft session cookie on
// every request, and mounts the landing page, the schedule page of one
// course under /jadwal/{kode}, and the health and metrics endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	sessionMgr, err := draftsession.New(draftsession.Config{
		Name:   appCfg.SessionName,
		Key:    appCfg.SessionKey,
		Domain: appCfg.SessionDomain,
		Secure: coreCfg.Env == "prod",
		MaxAge: int(appCfg.DraftTTL.Seconds()),
	}, logger)
	if err != nil {
		logger.Error("draft session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	// Shared services of the schedule page.
	cache := refdata.NewCache(deps.Backend, logger)
	submitter := submission.New(deps.Backend, cache, logger)
	auditLog := auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Schedule: appCfg.AuditLogSchedule,
		Import:   appCfg.AuditLogImport,
	})

	r := chi.NewRouter()
	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Backend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.Handler())

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(pr chi.Router) {
		pr.Use(sessionMgr.Middleware)

		homeHandler := homefeature.NewHandler(logger)
		pr.Mount("/", homefeature.Routes(homeHandler))

		jadwalHandler := jadwalfeature.NewHandler(deps.Backend, cache, importdrafts.New(deps.MongoDatabase),
			submitter, auditLog, errLog, logger)
		jadwalHandler.BulkConcurrency = appCfg.BulkDeleteConcurrency
		if appCfg.ImportRateLimit > 0 {
			jadwalHandler.ImportLimiter = ratelimit.New(appCfg.ImportRateLimit, time.Minute)
		}
		pr.Mount("/jadwal/{kode}", jadwalfeature.Routes(jadwalHandler))
	})

	return r, nil
}
