// internal/app/system/draftsession/draftsession.go
//
// Package draftsession gives every browser an anonymous, signed session
// cookie whose id keys that browser's import drafts.
package draftsession

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const (
	// DefaultName is the cookie name used when none is configured.
	DefaultName = "jadwalhub-draft"
	idKey       = "draft_id"
)

type ctxKey struct{}

// Config configures the cookie store.
type Config struct {
	Name   string
	Key    string // ≥32 random chars
	Domain string
	Secure bool
	MaxAge int // seconds; 0 keeps the gorilla default
}

// Manager issues and reads draft session cookies.
type Manager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// New builds a Manager. Cookies are marked Secure + SameSite=None when
// cfg.Secure is set, Lax otherwise (local http development).
func New(cfg Config, logger *zap.Logger) (*Manager, error) {
	if cfg.Key == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(cfg.Key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(cfg.Key)))
	}
	name := cfg.Name
	if name == "" {
		name = DefaultName
	}

	store := sessions.NewCookieStore([]byte(cfg.Key))
	opts := &sessions.Options{
		Domain:   cfg.Domain,
		Path:     "/",
		Secure:   cfg.Secure,
		HttpOnly: true,
		MaxAge:   store.Options.MaxAge,
	}
	if cfg.MaxAge > 0 {
		opts.MaxAge = cfg.MaxAge
	}
	if cfg.Secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	return &Manager{store: store, name: name, log: logger}, nil
}

// Middleware makes sure the request carries a draft id, issuing a new
// cookie when there is none or the old one no longer decodes.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := m.store.Get(r, m.name)
		if err != nil {
			if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
				m.log.Debug("draft cookie invalid, issuing a new one", zap.Error(err))
			} else {
				m.log.Warn("draft session store error, issuing a new one", zap.Error(err))
			}
		}

		id, _ := sess.Values[idKey].(string)
		if _, perr := uuid.Parse(id); perr != nil {
			id = uuid.NewString()
			sess.Values[idKey] = id
			if err := sess.Save(r, w); err != nil {
				m.log.Error("failed to save draft session", zap.Error(err))
			}
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID stores id in ctx. Handler tests use it in place of the middleware.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ID returns the draft id of the request, or "" outside the middleware.
func ID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
