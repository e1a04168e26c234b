package bootstrap

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:              "mongodb://localhost:27017",
		MongoDatabase:         "jadwal_hub_test",
		SessionKey:            "test-session-key-0123456789ABCDEF0123456789",
		BackendBaseURL:        "http://localhost:8000/api",
		DraftTTL:              72 * time.Hour,
		DraftCleanupInterval:  time.Hour,
		BulkDeleteConcurrency: 4,
		AuditLogSchedule:      "all",
		AuditLogImport:        "db",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"https backend", func(c *AppConfig) { c.BackendBaseURL = "https://akademik.example.ac.id/api" }, ""},
		{"backend without scheme", func(c *AppConfig) { c.BackendBaseURL = "localhost:8000/api" }, "backend base URL"},
		{"backend without host", func(c *AppConfig) { c.BackendBaseURL = "http:///api" }, "backend base URL"},
		{"zero concurrency", func(c *AppConfig) { c.BulkDeleteConcurrency = 0 }, "bulk_delete_concurrency"},
		{"negative rate limit", func(c *AppConfig) { c.ImportRateLimit = -1 }, "import_rate_limit"},
		{"zero ttl", func(c *AppConfig) { c.DraftTTL = 0 }, "draft_ttl"},
		{"unknown audit mode", func(c *AppConfig) { c.AuditLogImport = "verbose" }, "audit_log_import"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := ValidateConfig(nil, cfg, zap.NewNop())

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateConfig() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateConfig() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestAppConfigKeys_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, k := range appConfigKeys {
		if seen[k.Name] {
			t.Errorf("duplicate config key %q", k.Name)
		}
		seen[k.Name] = true
	}
	for _, want := range []string{"mongo_uri", "backend_base_url", "draft_ttl", "bulk_delete_concurrency"} {
		if !seen[want] {
			t.Errorf("missing config key %q", want)
		}
	}
}
