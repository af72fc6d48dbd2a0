package expense

import (
	"github.com/shopspring/decimal"

	"github.com/geodateam/team-presence/internal"
	"github.com/geodateam/team-presence/internal/core/common/dates"
)

// SubmitExpenseDTO is the request payload for a new claim. The receipt
// arrives as a separate multipart part; by the time the DTO reaches the
// service it has been reduced to an opaque stored reference.
type SubmitExpenseDTO struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	ReceiptPath *string         `json:"-"`
}

func (dto SubmitExpenseDTO) Validate() error {
	if !dto.Amount.IsPositive() {
		return internal.NewValidationError("amount must be a positive decimal", internal.ErrCodeInvalidAmount)
	}
	if dto.Category == "" {
		return internal.NewValidationError("category is required", internal.ErrCodeValidationFailed)
	}
	if dto.Description == "" {
		return internal.NewValidationError("description is required", internal.ErrCodeValidationFailed)
	}
	if dto.Date == "" {
		return internal.NewValidationError("date is required", internal.ErrCodeValidationFailed)
	}
	if err := dates.Validate(dto.Date); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateStatusDTO is the admin review decision.
type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (dto UpdateStatusDTO) Validate() error {
	if dto.Status != StatusApproved && dto.Status != StatusRejected {
		return internal.NewValidationError("status must be either 'approved' or 'rejected'", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// WithOwner is a pending expense joined with its owner's display fields.
// The join is a denormalized read, nothing is stored.
type WithOwner struct {
	*Expense
	OwnerName  string `json:"owner_name"`
	OwnerEmail string `json:"owner_email"`
}
