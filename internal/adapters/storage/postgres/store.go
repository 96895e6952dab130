package postgres

import (
	"pet-care-management/internal/domain/boardings"
	"pet-care-management/internal/domain/catalog"
	"pet-care-management/internal/domain/dashboard"
	"pet-care-management/internal/domain/healthrecords"
	"pet-care-management/internal/domain/orders"
	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/domain/users"

	"github.com/jmoiron/sqlx"
)

// Store agrupa los repositorios respaldados por Postgres.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Users() users.Repository                 { return &UserRepo{db: s.db} }
func (s *Store) Pets() pets.Repository                   { return &PetRepo{db: s.db} }
func (s *Store) Services() catalog.Repository            { return &ServiceRepo{db: s.db} }
func (s *Store) Orders() orders.Repository               { return &OrderRepo{db: s.db} }
func (s *Store) Boardings() boardings.Repository         { return &BoardingRepo{db: s.db} }
func (s *Store) HealthRecords() healthrecords.Repository { return &HealthRecordRepo{db: s.db} }
func (s *Store) Dashboard() dashboard.Repository         { return &DashboardRepo{db: s.db} }
