package dashboard

import "github.com/shopspring/decimal"

// Stats se calcula sobre filas no eliminadas.
type Stats struct {
	TotalUsers  int64
	TotalPets   int64
	TotalOrders int64
	// TotalRevenue suma total_amount de órdenes completed (0 si no hay).
	TotalRevenue decimal.Decimal
	// ActiveOrders cuenta órdenes confirmed o in_progress.
	ActiveOrders int64
}
