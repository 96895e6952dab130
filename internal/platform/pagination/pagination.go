package pagination

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"pet-care-management/internal/platform/apperr"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
)

type Params struct {
	Page int
	Size int
}

func Default() Params { return Params{Page: DefaultPage, Size: DefaultSize} }

// New valida page >= 1 y 1 <= size <= MaxSize. El offset (page-1)*size
// tiene que caber en un int.
func New(page, size int) (Params, error) {
	if page < 1 {
		return Params{}, apperr.Validation("page must be >= 1")
	}
	if size < 1 || size > MaxSize {
		return Params{}, apperr.Validation("size must be between 1 and 100")
	}
	if page-1 > math.MaxInt/size {
		return Params{}, apperr.Validation("page is too large")
	}
	return Params{Page: page, Size: size}, nil
}

// FromQuery lee ?page=&size= con defaults 1 y 10.
func FromQuery(q url.Values) (Params, error) {
	page, err := intParam(q, "page", DefaultPage)
	if err != nil {
		return Params{}, err
	}
	size, err := intParam(q, "size", DefaultSize)
	if err != nil {
		return Params{}, err
	}
	return New(page, size)
}

func (p Params) Offset() int { return (p.Page - 1) * p.Size }
func (p Params) Limit() int  { return p.Size }

// Window devuelve los límites [start,end) de la página sobre n elementos.
// Una página fuera de rango da una ventana vacía en n.
func (p Params) Window(n int) (int, int) {
	if p.Size < 1 || p.Page < 1 || p.Page-1 > n/p.Size {
		return n, n
	}
	start := (p.Page - 1) * p.Size
	return start, min(start+p.Size, n)
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(key + " must be an integer")
	}
	return v, nil
}
