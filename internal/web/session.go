package web

import (
	"net"
	"net/http"

	"github.com/JonMunkholm/fooddir/internal/core"
	"github.com/google/uuid"
)

// SessionCookieName identifies the browser's import session.
const SessionCookieName = "frd_session"

// sessionOwner issues the session cookie on first contact and tags the
// request context with its value.
func (s *Server) sessionOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := ""
		if c, err := r.Cookie(SessionCookieName); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				owner = id.String()
			}
		}
		if owner == "" {
			owner = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    owner,
				Path:     "/",
				MaxAge:   int(s.cfg.Session.TTL.Seconds()),
				HttpOnly: true,
				Secure:   s.cfg.Session.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(core.ContextWithOwner(r.Context(), owner)))
	})
}

// clientIP returns the request IP without its port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
