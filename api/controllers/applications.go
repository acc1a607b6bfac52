package controllers

import (
	"net/http"
	"strings"

	"github.com/premiumretail/retailer-platform-backend/api/middleware"
	"github.com/premiumretail/retailer-platform-backend/api/responses"
	"github.com/premiumretail/retailer-platform-backend/api/validators"
	"github.com/premiumretail/retailer-platform-backend/internal/applications"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
	"github.com/premiumretail/retailer-platform-backend/pkg/logger"
)

type applyRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required,phone"`
	ShopAddress string `json:"shop_address" validate:"required"`
}

type decisionRequest struct {
	Remarks string `json:"remarks" validate:"omitempty,max=1000"`
}

// SubmitApplication handles the public onboarding form.
func SubmitApplication(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "application service unavailable"))
			return
		}

		var body applyRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Apply(r.Context(), applications.ApplyInput{
			Name:        body.Name,
			Email:       body.Email,
			Phone:       body.Phone,
			ShopAddress: body.ShopAddress,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ListApplications returns the admin application queue, optionally filtered
// by status.
func ListApplications(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "application service unavailable"))
			return
		}

		var filters applications.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseApplicationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			filters.Status = &status
		}

		views, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

func GetApplication(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "application service unavailable"))
			return
		}

		id, err := uuidParam(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ApproveApplication approves a pending application and provisions the
// retailer account in the same transaction.
func ApproveApplication(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "application service unavailable"))
			return
		}

		id, err := uuidParam(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Remarks are optional on approval, so the body may be omitted.
		var body decisionRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		view, err := svc.Approve(r.Context(), applications.DecisionInput{
			ApplicationID: id,
			AdminID:       middleware.PrincipalIDFromContext(r.Context()),
			Remarks:       body.Remarks,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

func RejectApplication(svc applications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "application service unavailable"))
			return
		}

		id, err := uuidParam(r, "applicationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body decisionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Reject(r.Context(), applications.DecisionInput{
			ApplicationID: id,
			AdminID:       middleware.PrincipalIDFromContext(r.Context()),
			Remarks:       body.Remarks,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
