package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// CareService es un ítem del catálogo (baño, consulta, hospedaje...).
type CareService struct {
	ID          int64
	Name        string
	Description *string
	Category    string
	Price       decimal.Decimal
	// Duration en minutos.
	Duration    *int
	Image       *string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
