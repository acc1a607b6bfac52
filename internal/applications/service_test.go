package applications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/pkg/config"
	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
	"github.com/premiumretail/retailer-platform-backend/pkg/security"
)

type stubApplicationsRepo struct {
	app          *models.Application
	createdApps  []*models.Application
	createdUsers []*models.User
	updatedApp   *models.Application
	createUser   func(ctx context.Context, user *models.User) (*models.User, error)
}

func (s *stubApplicationsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubApplicationsRepo) CreateApplication(ctx context.Context, app *models.Application) (*models.Application, error) {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	s.createdApps = append(s.createdApps, app)
	return app, nil
}

func (s *stubApplicationsRepo) FindApplicationByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	if s.app == nil || s.app.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.app, nil
}

func (s *stubApplicationsRepo) FindApplicationByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	return s.FindApplicationByID(ctx, id)
}

func (s *stubApplicationsRepo) ListApplications(ctx context.Context, status *enums.ApplicationStatus) ([]models.Application, error) {
	if s.app == nil {
		return nil, nil
	}
	if status != nil && s.app.Status != *status {
		return nil, nil
	}
	return []models.Application{*s.app}, nil
}

func (s *stubApplicationsRepo) UpdateApplication(ctx context.Context, app *models.Application) error {
	s.updatedApp = app
	return nil
}

func (s *stubApplicationsRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if s.createUser != nil {
		return s.createUser(ctx, user)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.createdUsers = append(s.createdUsers, user)
	return user, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{BcryptCost: 4, DefaultTempPassword: "12345678"}
}

func pendingApplication() *models.Application {
	return &models.Application{
		ID:          uuid.New(),
		Name:        "Sharma General Store",
		Email:       "sharma@example.com",
		Phone:       "9876543210",
		ShopAddress: "14 MG Road, Pune",
		Status:      enums.ApplicationStatusPending,
		AppliedDate: time.Now().UTC(),
	}
}

func TestApproveProvisionsAccount(t *testing.T) {
	repo := &stubApplicationsRepo{app: pendingApplication()}
	svc, err := NewService(repo, stubTxRunner{}, testAuthConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	adminID := uuid.New()
	view, err := svc.Approve(context.Background(), DecisionInput{
		ApplicationID: repo.app.ID,
		AdminID:       adminID,
		Remarks:       "verified shop premises",
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if view.Status != enums.ApplicationStatusApproved {
		t.Fatalf("expected approved status, got %s", view.Status)
	}
	if view.ApprovalDate == nil {
		t.Fatal("expected approval date to be set")
	}

	if len(repo.createdUsers) != 1 {
		t.Fatalf("expected exactly one provisioned user, got %d", len(repo.createdUsers))
	}
	user := repo.createdUsers[0]
	if user.Username != "Sharma General Store" {
		t.Fatalf("expected username from application name, got %q", user.Username)
	}
	if user.ApplicationID != repo.app.ID {
		t.Fatal("expected user linked to application")
	}
	if !security.VerifyPassword("12345678", user.PasswordHash) {
		t.Fatal("expected temporary password to verify against stored hash")
	}
}

func TestApproveUserCreateFailurePropagates(t *testing.T) {
	repo := &stubApplicationsRepo{app: pendingApplication()}
	repo.createUser = func(ctx context.Context, user *models.User) (*models.User, error) {
		return nil, errors.New("insert failed")
	}
	svc, _ := NewService(repo, stubTxRunner{}, testAuthConfig())

	_, err := svc.Approve(context.Background(), DecisionInput{
		ApplicationID: repo.app.ID,
		AdminID:       uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(repo.createdUsers) != 0 {
		t.Fatal("expected no user recorded when provisioning fails")
	}
}

func TestApproveDecidedApplication(t *testing.T) {
	app := pendingApplication()
	app.Status = enums.ApplicationStatusApproved
	repo := &stubApplicationsRepo{app: app}
	svc, _ := NewService(repo, stubTxRunner{}, testAuthConfig())

	_, err := svc.Approve(context.Background(), DecisionInput{
		ApplicationID: app.ID,
		AdminID:       uuid.New(),
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(repo.createdUsers) != 0 {
		t.Fatal("expected no user provisioned for decided application")
	}
}

func TestRejectRequiresRemarks(t *testing.T) {
	repo := &stubApplicationsRepo{app: pendingApplication()}
	svc, _ := NewService(repo, stubTxRunner{}, testAuthConfig())

	_, err := svc.Reject(context.Background(), DecisionInput{
		ApplicationID: repo.app.ID,
		AdminID:       uuid.New(),
		Remarks:       "   ",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRejectSetsRemarks(t *testing.T) {
	repo := &stubApplicationsRepo{app: pendingApplication()}
	svc, _ := NewService(repo, stubTxRunner{}, testAuthConfig())

	view, err := svc.Reject(context.Background(), DecisionInput{
		ApplicationID: repo.app.ID,
		AdminID:       uuid.New(),
		Remarks:       "incomplete GST registration",
	})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if view.Status != enums.ApplicationStatusRejected {
		t.Fatalf("expected rejected status, got %s", view.Status)
	}
	if view.ApprovalRemarks == nil || *view.ApprovalRemarks != "incomplete GST registration" {
		t.Fatal("expected remarks recorded on the application")
	}
}
