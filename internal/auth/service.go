package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
	"github.com/premiumretail/retailer-platform-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines login, logout and per-request session checks.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole) error
	ValidateSession(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole, secret string) (*SessionContext, error)
	VerifyCSRF(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole, token string) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an auth service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auth repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Login authenticates a principal and rotates their session. The principal
// row is locked first so concurrent logins serialize; whichever commits last
// owns the single active session.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid principal role")
	}

	secret, err := security.NewToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate session secret")
	}
	csrfToken, err := security.NewToken()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate csrf token")
	}

	var result LoginResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		principalID, username, passwordHash, active, err := s.findPrincipal(ctx, repo, email, input.Role)
		if err != nil {
			return err
		}
		if !security.VerifyPassword(input.Password, passwordHash) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		// Deactivated principals present valid credentials, so name the
		// condition instead of the generic message.
		if !active {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "account is inactive")
		}

		if err := repo.DeactivateSessions(ctx, principalID, input.Role); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate previous sessions")
		}

		session := &models.Session{
			PrincipalID:   principalID,
			PrincipalRole: input.Role,
			SessionHash:   security.HashToken(secret),
			CSRFToken:     csrfToken,
			IsActive:      true,
		}
		if _, err := repo.CreateSession(ctx, session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
		}

		result = LoginResult{
			BearerToken: fmt.Sprintf("%s.%s", principalID, secret),
			CSRFToken:   csrfToken,
			PrincipalID: principalID,
			Username:    username,
			Role:        input.Role,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) findPrincipal(ctx context.Context, repo Repository, email string, role enums.PrincipalRole) (uuid.UUID, string, string, bool, error) {
	switch role {
	case enums.PrincipalRoleUser:
		user, err := repo.FindUserByEmailForUpdate(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, "", "", false, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
			}
			return uuid.Nil, "", "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		return user.ID, user.Username, user.PasswordHash, user.IsActive, nil

	case enums.PrincipalRoleAdmin:
		admin, err := repo.FindAdminByEmailForUpdate(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return uuid.Nil, "", "", false, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
			}
			return uuid.Nil, "", "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
		}
		return admin.ID, admin.Username, admin.PasswordHash, admin.IsActive, nil

	default:
		return uuid.Nil, "", "", false, pkgerrors.New(pkgerrors.CodeValidation, "invalid principal role")
	}
}

// Logout deactivates any active session. Calling it twice is harmless.
func (s *service) Logout(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole) error {
	if principalID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "principal identity missing")
	}
	if err := s.repo.DeactivateSessions(ctx, principalID, role); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivate sessions")
	}
	return nil
}

// ValidateSession checks the presented secret against the stored digest of
// the principal's single active session.
func (s *service) ValidateSession(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole, secret string) (*SessionContext, error) {
	if principalID == uuid.Nil || secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session token")
	}

	session, err := s.repo.FindActiveSession(ctx, principalID, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or revoked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	if !security.TokensEqual(security.HashToken(secret), session.SessionHash) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or revoked")
	}

	return &SessionContext{PrincipalID: principalID, Role: role}, nil
}

// VerifyCSRF compares the presented token against the active session's CSRF
// token. Missing or mismatched tokens fail closed.
func (s *service) VerifyCSRF(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole, token string) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeForbidden, "csrf token required")
	}

	session, err := s.repo.FindActiveSession(ctx, principalID, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired or revoked")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}

	if !security.TokensEqual(token, session.CSRFToken) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "csrf token mismatch")
	}
	return nil
}
