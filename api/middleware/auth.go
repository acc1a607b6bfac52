package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/api/responses"
	"github.com/premiumretail/retailer-platform-backend/internal/auth"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
	"github.com/premiumretail/retailer-platform-backend/pkg/logger"
)

// Auth validates the bearer token against the stored session and seeds the
// request context with the principal. The expected role comes from the route
// group: retailer endpoints pass user, admin endpoints pass admin.
func Auth(role enums.PrincipalRole, sessions auth.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}

			principalID, secret, err := splitToken(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			session, err := sessions.ValidateSession(r.Context(), principalID, role, secret)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), session.PrincipalID, session.Role)
			if logg != nil {
				ctx = logg.WithPrincipal(ctx, session.PrincipalID.String(), string(session.Role))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// splitToken parses the "<principalId>.<secret>" bearer shape.
func splitToken(token string) (uuid.UUID, string, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session token")
	}
	principalID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session token")
	}
	return principalID, parts[1], nil
}
