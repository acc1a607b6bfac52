package controllers

import (
	"net/http"

	"github.com/premiumretail/retailer-platform-backend/api/middleware"
	"github.com/premiumretail/retailer-platform-backend/api/responses"
	"github.com/premiumretail/retailer-platform-backend/api/validators"
	"github.com/premiumretail/retailer-platform-backend/internal/billing"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
	"github.com/premiumretail/retailer-platform-backend/pkg/logger"
)

type generateBillRequest struct {
	GSTRatePercent *string `json:"gst_rate_percent,omitempty"`
}

// GenerateBill creates the bill for a verified order. Repeating the call
// returns the existing bill.
func GenerateBill(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body generateBillRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		view, err := svc.Generate(r.Context(), billing.GenerateInput{
			OrderID:        orderID,
			AdminID:        middleware.PrincipalIDFromContext(r.Context()),
			GSTRatePercent: body.GSTRatePercent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// GetMyOrderBill returns the bill for one of the retailer's own orders.
func GetMyOrderBill(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		orderID, err := uuidParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.PrincipalIDFromContext(r.Context())
		view, err := svc.GetByOrder(r.Context(), orderID, &userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ListMyBills returns the retailer's billing history.
func ListMyBills(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		views, err := svc.ListForUser(r.Context(), middleware.PrincipalIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}
