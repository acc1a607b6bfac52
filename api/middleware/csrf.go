package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/api/responses"
	"github.com/premiumretail/retailer-platform-backend/internal/auth"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
	"github.com/premiumretail/retailer-platform-backend/pkg/logger"
)

const csrfHeader = "X-CSRF-Token"

var mutatingMethods = map[string]struct{}{
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodPatch:  {},
	http.MethodDelete: {},
}

// CSRF requires a matching X-CSRF-Token header on every mutating request.
// Runs after Auth; a missing or mismatched token fails closed.
func CSRF(sessions auth.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, mutating := mutatingMethods[r.Method]; !mutating {
				next.ServeHTTP(w, r)
				return
			}

			principalID := PrincipalIDFromContext(r.Context())
			role := RoleFromContext(r.Context())
			if principalID == uuid.Nil || !role.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}

			token := strings.TrimSpace(r.Header.Get(csrfHeader))
			if err := sessions.VerifyCSRF(r.Context(), principalID, role, token); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
