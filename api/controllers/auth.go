package controllers

import (
	"net/http"

	"github.com/premiumretail/retailer-platform-backend/api/middleware"
	"github.com/premiumretail/retailer-platform-backend/api/responses"
	"github.com/premiumretail/retailer-platform-backend/api/validators"
	"github.com/premiumretail/retailer-platform-backend/internal/auth"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
	"github.com/premiumretail/retailer-platform-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login wires the retailer login endpoint into the HTTP layer. The admin
// variant differs only in the role bound to the credentials lookup.
func Login(svc auth.Service, role enums.PrincipalRole, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginInput{
			Email:    body.Email,
			Password: body.Password,
			Role:     role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("X-Session-Token", result.BearerToken)
		w.Header().Set("X-CSRF-Token", result.CSRFToken)
		responses.WriteSuccess(w, result)
	}
}

// Logout revokes the caller's active session.
func Logout(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		principalID := middleware.PrincipalIDFromContext(r.Context())
		role := middleware.RoleFromContext(r.Context())

		if err := svc.Logout(r.Context(), principalID, role); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
