package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/premiumretail/retailer-platform-backend/pkg/db/models"
	"github.com/premiumretail/retailer-platform-backend/pkg/enums"
)

// SubmitInput carries a retailer's payment submission with the raw proof
// image bytes.
type SubmitInput struct {
	OrderID uuid.UUID
	UserID  uuid.UUID
	Proof   []byte
}

// DecisionInput carries an admin's verify call.
type DecisionInput struct {
	PaymentID uuid.UUID
	AdminID   uuid.UUID
}

// RejectInput carries an admin's reject call. Reason is mandatory.
type RejectInput struct {
	PaymentID uuid.UUID
	AdminID   uuid.UUID
	Reason    string
}

// PaymentView is the payment shape returned over the API.
type PaymentView struct {
	ID              uuid.UUID           `json:"id"`
	OrderID         uuid.UUID           `json:"order_id"`
	Amount          string              `json:"amount"`
	Method          enums.PaymentMethod `json:"method"`
	ProofPath       string              `json:"proof_path"`
	Status          enums.PaymentStatus `json:"status"`
	VerifiedAt      *time.Time          `json:"verified_at,omitempty"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toPaymentView(payment models.Payment) PaymentView {
	return PaymentView{
		ID:              payment.ID,
		OrderID:         payment.OrderID,
		Amount:          payment.Amount.StringFixed(2),
		Method:          payment.Method,
		ProofPath:       payment.ProofPath,
		Status:          payment.Status,
		VerifiedAt:      payment.VerifiedAt,
		RejectionReason: payment.RejectionReason,
		CreatedAt:       payment.CreatedAt,
	}
}

func toPaymentViews(items []models.Payment) []PaymentView {
	views := make([]PaymentView, 0, len(items))
	for _, item := range items {
		views = append(views, toPaymentView(item))
	}
	return views
}
