package healthrecords

import "time"

// Record es una entrada de la historia clínica de una mascota.
type Record struct {
	ID    int64
	PetID int64
	// VetID es el usuario (staff/admin) que registró la atención.
	VetID int64

	CheckDate time.Time
	Type      Type

	Description  *string
	Diagnosis    *string
	Prescription *string
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
