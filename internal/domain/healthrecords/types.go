package healthrecords

import (
	"strings"

	"pet-care-management/internal/platform/apperr"
)

// Type es el tipo de registro clínico.
// @Enum checkup, treatment, vaccination, surgery
type Type string

const (
	TypeCheckup     Type = "checkup"
	TypeTreatment   Type = "treatment"
	TypeVaccination Type = "vaccination"
	TypeSurgery     Type = "surgery"
)

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", apperr.Validation("record_type must be one of checkup, treatment, vaccination, surgery")
	}
	return t, nil
}

func (t Type) Valid() bool {
	switch t {
	case TypeCheckup, TypeTreatment, TypeVaccination, TypeSurgery:
		return true
	default:
		return false
	}
}
