package applications

import (
	"time"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// ApplyInput carries a prospective retailer's submission.
type ApplyInput struct {
	Name        string
	Email       string
	Phone       string
	ShopAddress string
}

// DecisionInput carries an admin's approve or reject call.
type DecisionInput struct {
	ApplicationID uuid.UUID
	AdminID       uuid.UUID
	Remarks       string
}

// ListFilters narrows the admin application list.
type ListFilters struct {
	Status *enums.ApplicationStatus
}

// ApplicationView is the application shape returned over the API.
type ApplicationView struct {
	ID              uuid.UUID               `json:"id"`
	Name            string                  `json:"name"`
	Email           string                  `json:"email"`
	Phone           string                  `json:"phone"`
	ShopAddress     string                  `json:"shop_address"`
	Status          enums.ApplicationStatus `json:"status"`
	AppliedDate     time.Time               `json:"applied_date"`
	ApprovalDate    *time.Time              `json:"approval_date,omitempty"`
	ApprovalRemarks *string                 `json:"approval_remarks,omitempty"`
}

func toApplicationView(app models.Application) ApplicationView {
	return ApplicationView{
		ID:              app.ID,
		Name:            app.Name,
		Email:           app.Email,
		Phone:           app.Phone,
		ShopAddress:     app.ShopAddress,
		Status:          app.Status,
		AppliedDate:     app.AppliedDate,
		ApprovalDate:    app.ApprovalDate,
		ApprovalRemarks: app.ApprovalRemarks,
	}
}

func toApplicationViews(apps []models.Application) []ApplicationView {
	views := make([]ApplicationView, 0, len(apps))
	for _, app := range apps {
		views = append(views, toApplicationView(app))
	}
	return views
}
