// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig keeps the
// framework-level settings (ports, TLS, log level, CORS, body limits);
// everything the schedule import needs lives here.
type AppConfig struct {
	// MongoDB connection configuration (import drafts and audit events)
	MongoURI      string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase string // Database name within MongoDB

	// Draft session cookie configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: jadwalhub-draft)
	SessionDomain string // Cookie domain (blank means current host)

	// Schedule backend
	BackendBaseURL  string        // e.g., "http://localhost:8000/api"
	BackendResource string        // path segment of the schedule resource (default: non-blok-non-csr)
	BackendToken    string        // bearer token; blank sends no Authorization header
	BackendTimeout  time.Duration // per-call timeout of single record calls
	BatchTimeout    time.Duration // timeout of import submission and bulk delete

	// Import drafts
	DraftTTL             time.Duration // untouched drafts older than this are purged
	DraftCleanupInterval time.Duration // how often the purge runs

	// Bulk delete
	BulkDeleteConcurrency int // delete calls kept in flight at once

	// Import rate limiting
	ImportRateLimit int // uploads and import submissions per session per minute (0 disables)

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLogSchedule string
	AuditLogImport   string
}
