package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// SubmitInput carries a public contact-form submission.
type SubmitInput struct {
	Name    string
	Email   string
	Phone   *string
	Subject string
	Message string
}

// ReplyInput carries an admin's reply to a message.
type ReplyInput struct {
	MessageID uuid.UUID
	AdminID   uuid.UUID
	Reply     string
}

// ListFilters narrows the admin inbox.
type ListFilters struct {
	Status *enums.ContactStatus
}

// MessageView is the contact message shape returned over the API.
type MessageView struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Phone       *string             `json:"phone,omitempty"`
	Subject     string              `json:"subject"`
	Message     string              `json:"message"`
	Status      enums.ContactStatus `json:"status"`
	AdminReply  *string             `json:"admin_reply,omitempty"`
	RepliedDate *time.Time          `json:"replied_date,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toMessageView(message models.ContactMessage) MessageView {
	return MessageView{
		ID:          message.ID,
		Name:        message.Name,
		Email:       message.Email,
		Phone:       message.Phone,
		Subject:     message.Subject,
		Message:     message.Message,
		Status:      message.Status,
		AdminReply:  message.AdminReply,
		RepliedDate: message.RepliedDate,
		CreatedAt:   message.CreatedAt,
	}
}

func toMessageViews(messages []models.ContactMessage) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for _, message := range messages {
		views = append(views, toMessageView(message))
	}
	return views
}
