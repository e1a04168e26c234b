// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/jadwalhub/internal/app/features/jadwal"
	"github.com/dalemusser/jadwalhub/internal/app/system/backendapi"
	"github.com/dalemusser/jadwalhub/internal/app/system/draftsession"
	"github.com/dalemusser/jadwalhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for JadwalHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, backend_base_url, etc.
//   - Environment variables: JADWALHUB_MONGO_URI, JADWALHUB_BACKEND_BASE_URL, etc.
//   - Command-line flags: --mongo_uri, --backend_base_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "jadwal_hub", Desc: "MongoDB database name"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: draftsession.DefaultName, Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Schedule backend
	{Name: "backend_base_url", Default: "http://localhost:8000/api", Desc: "Base URL of the schedule backend API"},
	{Name: "backend_resource", Default: backendapi.DefaultResource, Desc: "Schedule resource path segment on the backend"},
	{Name: "backend_token", Default: "", Desc: "Bearer token for the backend (blank for none)"},
	{Name: "backend_timeout", Default: timeouts.DefaultBackend.String(), Desc: "Timeout of single backend calls (e.g., 10s)"},
	{Name: "batch_timeout", Default: timeouts.DefaultBatch.String(), Desc: "Timeout of import submission and bulk delete (e.g., 60s)"},

	// Import drafts
	{Name: "draft_ttl", Default: "72h", Desc: "Untouched import drafts older than this are purged"},
	{Name: "draft_cleanup_interval", Default: "1h", Desc: "How often stale import drafts are purged"},

	// Bulk delete
	{Name: "bulk_delete_concurrency", Default: jadwal.DefaultBulkConcurrency, Desc: "Concurrent delete calls during a bulk delete"},
	{Name: "import_rate_limit", Default: 30, Desc: "Uploads and import submissions per session per minute (0 disables)"},

	// Audit logging settings
	{Name: "audit_log_schedule", Default: "all", Desc: "Schedule mutation logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_import", Default: "all", Desc: "Import event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, JADWALHUB_* for app) and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "JADWALHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		// Backend
		BackendBaseURL:  appValues.String("backend_base_url"),
		BackendResource: appValues.String("backend_resource"),
		BackendToken:    appValues.String("backend_token"),
		BackendTimeout:  appValues.Duration("backend_timeout", timeouts.DefaultBackend),
		BatchTimeout:    appValues.Duration("batch_timeout", timeouts.DefaultBatch),

		// Drafts
		DraftTTL:             appValues.Duration("draft_ttl", 72*time.Hour),
		DraftCleanupInterval: appValues.Duration("draft_cleanup_interval", time.Hour),

		BulkDeleteConcurrency: appValues.Int("bulk_delete_concurrency"),
		ImportRateLimit:       appValues.Int("import_rate_limit"),

		// Audit logging
		AuditLogSchedule: appValues.String("audit_log_schedule"),
		AuditLogImport:   appValues.String("audit_log_import"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// JadwalHub checks the MongoDB URI and the backend base URL so that a
// typo fails at startup instead of on the first request.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if err := validateBackendURL(appCfg.BackendBaseURL); err != nil {
		logger.Error("invalid backend base URL", zap.Error(err))
		return err
	}
	if appCfg.BulkDeleteConcurrency < 1 {
		return fmt.Errorf("bulk_delete_concurrency must be at least 1, got %d", appCfg.BulkDeleteConcurrency)
	}
	if appCfg.ImportRateLimit < 0 {
		return fmt.Errorf("import_rate_limit must not be negative, got %d", appCfg.ImportRateLimit)
	}
	if appCfg.DraftTTL <= 0 || appCfg.DraftCleanupInterval <= 0 {
		return fmt.Errorf("draft_ttl and draft_cleanup_interval must be positive")
	}
	for key, v := range map[string]string{"audit_log_schedule": appCfg.AuditLogSchedule, "audit_log_import": appCfg.AuditLogImport} {
		switch v {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, v)
		}
	}
	return nil
}

func validateBackendURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid backend base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend base URL %q: want http(s)://host[/path]", raw)
	}
	return nil
}
