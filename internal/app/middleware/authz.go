package middleware

import (
	"net/http"

	"bankoffice/internal/app/apperr"
	"bankoffice/internal/app/handler"
	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
)

// RequireRole gates an operation on the caller's role. Authorization
// lives here, at the boundary; the services only take the caller
// identity for audit attribution.
func RequireRole(roles ...model.Role) func(next http.Handler) http.Handler {
	allowed := make(map[model.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := handler.ReadContextUser(r.Context())
			if err != nil {
				handler.WriteError(w, apperr.ErrUnauthorized, http.StatusUnauthorized)
				return
			}

			if _, ok := allowed[u.Role]; !ok {
				log := logger.Get(r.Context(), "Middleware.RequireRole")
				log.Debug().
					Str("user", u.Name).
					Str("role", string(u.Role)).
					Msg("Operation denied")
				handler.WriteError(w, apperr.ErrForbidden, http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
