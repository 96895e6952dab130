package pets

import (
	"strings"
	"time"

	"pet-care-management/internal/platform/apperr"

	"github.com/shopspring/decimal"
)

// Gender define el sexo de la mascota.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", apperr.Validation("gender must be male or female")
	}
	return g, nil
}

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Pet representa el perfil de una mascota registrada por su dueño.
type Pet struct {
	ID      int64
	OwnerID int64

	Name    string
	Species string // dog, cat, ... texto libre
	Breed   *string
	Gender  *Gender

	BirthDate *time.Time
	Weight    *decimal.Decimal // kg
	Color     *string

	HealthStatus *string
	SpecialNotes *string
	Avatar       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
