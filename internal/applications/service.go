package applications

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/pkg/config"
	"github.com/premiumretail/retailer-platform-backend/pkg/db"
	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
	"github.com/premiumretail/retailer-platform-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the retailer application lifecycle.
type Service interface {
	Apply(ctx context.Context, input ApplyInput) (*ApplicationView, error)
	Approve(ctx context.Context, input DecisionInput) (*ApplicationView, error)
	Reject(ctx context.Context, input DecisionInput) (*ApplicationView, error)
	Get(ctx context.Context, id uuid.UUID) (*ApplicationView, error)
	List(ctx context.Context, filters ListFilters) ([]ApplicationView, error)
}

type service struct {
	repo Repository
	tx   txRunner
	auth config.AuthConfig
}

// NewService builds an applications service with the required dependencies.
func NewService(repo Repository, tx txRunner, auth config.AuthConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("applications repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, auth: auth}, nil
}

// Apply records a new pending application. Duplicate submissions for the same
// email surface as a conflict rather than a second row.
func (s *service) Apply(ctx context.Context, input ApplyInput) (*ApplicationView, error) {
	app := &models.Application{
		Name:        strings.TrimSpace(input.Name),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:       strings.TrimSpace(input.Phone),
		ShopAddress: strings.TrimSpace(input.ShopAddress),
		Status:      enums.ApplicationStatusPending,
		AppliedDate: time.Now().UTC(),
	}
	if app.Name == "" || app.Email == "" || app.Phone == "" || app.ShopAddress == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email, phone and shop address are required")
	}

	created, err := s.repo.CreateApplication(ctx, app)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an application already exists for this email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create application")
	}

	view := toApplicationView(*created)
	return &view, nil
}

// Approve decides a pending application and provisions the retailer account
// in the same transaction. The account starts with the configured temporary
// password and the application name as username.
func (s *service) Approve(ctx context.Context, input DecisionInput) (*ApplicationView, error) {
	if input.ApplicationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	passwordHash, err := security.HashPassword(s.auth.DefaultTempPassword, s.auth.BcryptCost)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash temporary password")
	}

	var view ApplicationView
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		app, err := repo.FindApplicationByIDForUpdate(ctx, input.ApplicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
		}
		if app.Status != enums.ApplicationStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "application already decided")
		}

		now := time.Now().UTC()
		app.Status = enums.ApplicationStatusApproved
		app.ApprovalDate = &now
		app.ApprovedBy = &input.AdminID
		if remarks := strings.TrimSpace(input.Remarks); remarks != "" {
			app.ApprovalRemarks = &remarks
		}
		if err := repo.UpdateApplication(ctx, app); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
		}

		user := &models.User{
			ApplicationID: app.ID,
			Email:         app.Email,
			Phone:         app.Phone,
			Username:      app.Name,
			PasswordHash:  passwordHash,
			ShopAddress:   app.ShopAddress,
			IsActive:      true,
		}
		if _, err := repo.CreateUser(ctx, user); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "account already exists for this application")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create retailer account")
		}

		view = toApplicationView(*app)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Reject decides a pending application without provisioning anything.
// Remarks are mandatory so the applicant always learns why.
func (s *service) Reject(ctx context.Context, input DecisionInput) (*ApplicationView, error) {
	if input.ApplicationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	remarks := strings.TrimSpace(input.Remarks)
	if remarks == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rejection remarks required")
	}

	var view ApplicationView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		app, err := repo.FindApplicationByIDForUpdate(ctx, input.ApplicationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
		}
		if app.Status != enums.ApplicationStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "application already decided")
		}

		now := time.Now().UTC()
		app.Status = enums.ApplicationStatusRejected
		app.ApprovalDate = &now
		app.ApprovedBy = &input.AdminID
		app.ApprovalRemarks = &remarks
		if err := repo.UpdateApplication(ctx, app); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update application")
		}

		view = toApplicationView(*app)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ApplicationView, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id required")
	}
	app, err := s.repo.FindApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	view := toApplicationView(*app)
	return &view, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ApplicationView, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	apps, err := s.repo.ListApplications(ctx, filters.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list applications")
	}
	return toApplicationViews(apps), nil
}
