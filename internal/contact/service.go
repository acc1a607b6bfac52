package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
	pkgerrors "github.com/premiumretail/retailer-platform-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the contact-form lifecycle.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*MessageView, error)
	List(ctx context.Context, filters ListFilters) ([]MessageView, error)
	MarkRead(ctx context.Context, messageID uuid.UUID, adminID uuid.UUID) (*MessageView, error)
	Reply(ctx context.Context, input ReplyInput) (*MessageView, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a contact service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*MessageView, error) {
	message := &models.ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:   input.Phone,
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
		Status:  enums.ContactStatusNew,
	}
	if message.Name == "" || message.Email == "" || message.Subject == "" || message.Message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, email, subject and message are required")
	}

	created, err := s.repo.CreateMessage(ctx, message)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact message")
	}

	view := toMessageView(*created)
	return &view, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]MessageView, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	messages, err := s.repo.List(ctx, filters.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contact messages")
	}
	return toMessageViews(messages), nil
}

// MarkRead moves a new message to read. Messages already read or replied are
// returned unchanged.
func (s *service) MarkRead(ctx context.Context, messageID uuid.UUID, adminID uuid.UUID) (*MessageView, error) {
	if messageID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message id required")
	}
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}

	var view MessageView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		message, err := repo.FindByIDForUpdate(ctx, messageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
		}

		if message.Status == enums.ContactStatusNew {
			message.Status = enums.ContactStatusRead
			if err := repo.UpdateMessage(ctx, message); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update message")
			}
		}

		view = toMessageView(*message)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Reply records the admin's reply. A message may only be replied to once.
func (s *service) Reply(ctx context.Context, input ReplyInput) (*MessageView, error) {
	if input.MessageID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message id required")
	}
	if input.AdminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	reply := strings.TrimSpace(input.Reply)
	if reply == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reply text required")
	}

	var view MessageView
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		message, err := repo.FindByIDForUpdate(ctx, input.MessageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "message not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load message")
		}
		if message.Status == enums.ContactStatusReplied {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "message already replied")
		}

		now := time.Now().UTC()
		message.Status = enums.ContactStatusReplied
		message.AdminReply = &reply
		message.RepliedBy = &input.AdminID
		message.RepliedDate = &now
		if err := repo.UpdateMessage(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update message")
		}

		view = toMessageView(*message)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}
