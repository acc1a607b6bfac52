package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an auth repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindUserByEmailForUpdate locks the user row for the duration of the login
// transaction. Serializing on the principal keeps concurrent logins from both
// inserting an active session.
func (r *repository) FindUserByEmailForUpdate(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindAdminByEmailForUpdate(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("email = ?", email).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *repository) DeactivateSessions(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("principal_id = ? AND principal_role = ? AND is_active = ?", principalID, role, true).
		Update("is_active", false).Error
}

func (r *repository) CreateSession(ctx context.Context, session *models.Session) (*models.Session, error) {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *repository) FindActiveSession(ctx context.Context, principalID uuid.UUID, role enums.PrincipalRole) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("principal_id = ? AND principal_role = ? AND is_active = ?", principalID, role, true).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}
