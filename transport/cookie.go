// Package transport delivers refresh tokens to HTTP clients. The only
// implementation is an HTTP-only cookie scoped to the refresh path, so the
// token never crosses into script-readable response bodies.
package transport

import (
	"errors"
	"net/http"
	"time"
)

// Config defines a public type used by authgate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Name     string
	Path     string
	TTL      time.Duration
	Secure   bool
	SameSite http.SameSite
}

// DefaultConfig returns the baseline cookie settings: name "jid", scoped to
// /refresh_token, 7 day lifetime, lax same-site.
func DefaultConfig() Config {
	return Config{
		Name:     "jid",
		Path:     "/refresh_token",
		TTL:      7 * 24 * time.Hour,
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieWriter emits refresh-token cookies. It is constructed once and bound
// per-response through [CookieWriter.Bind].
type CookieWriter struct {
	cfg Config
}

// NewCookieWriter describes the newcookiewriter operation and its observable behavior.
//
// NewCookieWriter may return an error when input validation, dependency calls, or security checks fail.
// NewCookieWriter does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewCookieWriter(cfg Config) (*CookieWriter, error) {
	if cfg.Name == "" {
		return nil, errors.New("cookie name required")
	}
	if cfg.Path == "" {
		return nil, errors.New("cookie path required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("cookie TTL must be > 0")
	}
	return &CookieWriter{cfg: cfg}, nil
}

// Bind attaches the writer to a single response. The returned Channel is
// only valid until the response is written.
func (cw *CookieWriter) Bind(w http.ResponseWriter) *Channel {
	return &Channel{cfg: cw.cfg, w: w}
}

// Channel sends refresh tokens on one bound HTTP response.
type Channel struct {
	cfg Config
	w   http.ResponseWriter
}

// Send stores the token in the refresh cookie. An empty token expires the
// cookie immediately, which is how logout clears the client's refresh state.
func (c *Channel) Send(token string) {
	if c == nil || c.w == nil {
		return
	}

	cookie := &http.Cookie{
		Name:     c.cfg.Name,
		Value:    token,
		Path:     c.cfg.Path,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: c.cfg.SameSite,
	}
	if token == "" {
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(c.cfg.TTL.Seconds())
	}

	http.SetCookie(c.w, cookie)
}
