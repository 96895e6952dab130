package boardings

import (
	"strings"
	"time"

	"pet-care-management/internal/platform/apperr"
)

// Status del hospedaje.
// @Enum scheduled, in_progress, completed, cancelled
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", apperr.Validation("status must be one of scheduled, in_progress, completed, cancelled")
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// Boarding es una estadía de hospedaje ligada a una orden.
type Boarding struct {
	ID      int64
	OrderID int64
	PetID   int64
	StaffID int64

	StartDate time.Time
	EndDate   time.Time
	Status    Status

	DailyNotes      *string
	FoodType        *string
	FeedingSchedule *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
