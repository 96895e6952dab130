// Package memory es el storage en proceso para dev y tests. Un único mutex
// cubre todas las tablas para que operaciones multi-tabla (crear orden con
// precio, filtro por dueño) sean atómicas.
package memory

import (
	"sort"
	"sync"
	"time"

	"pet-care-management/internal/domain/boardings"
	"pet-care-management/internal/domain/catalog"
	"pet-care-management/internal/domain/dashboard"
	"pet-care-management/internal/domain/healthrecords"
	"pet-care-management/internal/domain/orders"
	"pet-care-management/internal/domain/pets"
	"pet-care-management/internal/domain/users"
	"pet-care-management/internal/platform/pagination"
)

type Store struct {
	mu sync.RWMutex

	users     *table[users.User]
	pets      *table[pets.Pet]
	services  *table[catalog.CareService]
	orders    *table[orders.Order]
	boardings *table[boardings.Boarding]
	records   *table[healthrecords.Record]
}

func NewStore() *Store {
	return &Store{
		users:     newTable[users.User](),
		pets:      newTable[pets.Pet](),
		services:  newTable[catalog.CareService](),
		orders:    newTable[orders.Order](),
		boardings: newTable[boardings.Boarding](),
		records:   newTable[healthrecords.Record](),
	}
}

func (s *Store) Users() users.Repository                 { return &userRepo{s: s} }
func (s *Store) Pets() pets.Repository                   { return &petRepo{s: s} }
func (s *Store) Services() catalog.Repository            { return &serviceRepo{s: s} }
func (s *Store) Orders() orders.Repository               { return &orderRepo{s: s} }
func (s *Store) Boardings() boardings.Repository         { return &boardingRepo{s: s} }
func (s *Store) HealthRecords() healthrecords.Repository { return &recordRepo{s: s} }
func (s *Store) Dashboard() dashboard.Repository         { return &dashboardRepo{s: s} }

type row[T any] struct {
	val     T
	deleted bool
}

// table guarda filas por id con flag de borrado lógico. No es thread-safe:
// el Store sostiene el lock.
type table[T any] struct {
	seq  int64
	rows map[int64]*row[T]
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int64]*row[T])}
}

func (t *table[T]) nextID() int64 {
	t.seq++
	return t.seq
}

func (t *table[T]) insert(id int64, v T) {
	t.rows[id] = &row[T]{val: v}
}

// get ignora filas eliminadas.
func (t *table[T]) get(id int64) (T, bool) {
	r, ok := t.rows[id]
	if !ok || r.deleted {
		var zero T
		return zero, false
	}
	return r.val, true
}

// getAny incluye filas eliminadas.
func (t *table[T]) getAny(id int64) (T, bool) {
	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, false
	}
	return r.val, true
}

func (t *table[T]) replace(id int64, v T) bool {
	r, ok := t.rows[id]
	if !ok || r.deleted {
		return false
	}
	r.val = v
	return true
}

func (t *table[T]) softDelete(id int64, touch func(*T)) bool {
	r, ok := t.rows[id]
	if !ok || r.deleted {
		return false
	}
	r.deleted = true
	if touch != nil {
		touch(&r.val)
	}
	return true
}

// anyRow recorre todas las filas, incluidas las eliminadas.
func (t *table[T]) anyRow(match func(T, bool) bool) bool {
	for _, r := range t.rows {
		if match(r.val, r.deleted) {
			return true
		}
	}
	return false
}

func (t *table[T]) count(match func(T) bool) int64 {
	var n int64
	for _, r := range t.rows {
		if !r.deleted && (match == nil || match(r.val)) {
			n++
		}
	}
	return n
}

// query filtra filas vivas, ordena con less y recorta la página.
func (t *table[T]) query(match func(T) bool, less func(a, b T) bool, p pagination.Params) ([]T, int64) {
	all := make([]T, 0)
	for _, r := range t.rows {
		if r.deleted || (match != nil && !match(r.val)) {
			continue
		}
		all = append(all, r.val)
	}
	sort.SliceStable(all, func(i, j int) bool { return less(all[i], all[j]) })

	start, end := p.Window(len(all))
	out := make([]T, end-start)
	copy(out, all[start:end])
	return out, int64(len(all))
}

// newestFirst: created_at desc, id desc como desempate.
func newestFirst(aAt, bAt time.Time, aID, bID int64) bool {
	if !aAt.Equal(bAt) {
		return aAt.After(bAt)
	}
	return aID > bID
}
