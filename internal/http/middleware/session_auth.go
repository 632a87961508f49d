package middleware

import (
	"errors"
	"net/http"

	"github.com/carewell/clinic-portal/internal/api/respond"
	"github.com/carewell/clinic-portal/internal/session"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// RequireSession resolves the session cookie against the store and guards a
// route group by role. The resolved session is placed in the request context
// for handlers downstream. A missing or dead token is a 401; a live session
// of the wrong role is a 403.
func RequireSession(store *session.Store, role session.Role, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := session.TokenFromRequest(r)
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "Please log in to continue")
				return
			}
			sess, err := store.Get(r.Context(), token)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					logger.Error("session lookup failed", "error", err)
				}
				respond.Error(w, http.StatusUnauthorized, "Please log in to continue")
				return
			}
			if !sess.IsAuthenticated(role) {
				respond.Error(w, http.StatusForbidden, "You do not have access to this page")
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}
