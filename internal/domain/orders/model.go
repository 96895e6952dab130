package orders

import (
	"strings"
	"time"

	"pet-care-management/internal/platform/apperr"

	"github.com/shopspring/decimal"
)

// Status es el estado del workflow de una orden.
// @Enum pending, confirmed, in_progress, completed, cancelled
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", apperr.Validation("status must be one of pending, confirmed, in_progress, completed, cancelled")
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Active: cuenta para active_orders del dashboard.
func (s Status) Active() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

type Order struct {
	ID      int64
	OrderNo string

	UserID    int64
	PetID     int64
	ServiceID int64
	StaffID   *int64

	AppointmentTime *time.Time
	Status          Status
	// TotalAmount se copia del precio del servicio al crear.
	TotalAmount decimal.Decimal
	Notes       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
