// Package apperr define la taxonomía de errores de dominio que los handlers
// traducen al envelope de respuesta.
package apperr

import "errors"

// ErrNotFound lo devuelven los repositorios cuando no hay fila no-eliminada.
var ErrNotFound = errors.New("not found")

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	KindForbidden
	KindConflict
	KindAccountDisabled
	KindStorage
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindAccountDisabled:
		return "account_disabled"
	case KindStorage:
		return "storage"
	case KindTooManyRequests:
		return "too_many_requests"
	default:
		return "internal"
	}
}

// Error es el error tipado que levantan los servicios de dominio.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Msg: msg} }
func Validation(msg string) *Error      { return &Error{Kind: KindValidation, Msg: msg} }
func Unauthorized(msg string) *Error    { return &Error{Kind: KindUnauthorized, Msg: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Msg: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Msg: msg} }
func AccountDisabled(msg string) *Error { return &Error{Kind: KindAccountDisabled, Msg: msg} }
func TooManyRequests(msg string) *Error { return &Error{Kind: KindTooManyRequests, Msg: msg} }

// Storage envuelve una falla de la capa de datos. El detalle solo va al log.
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Msg: "storage failure", Err: err}
}

// KindOf devuelve KindInternal para errores que no son *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf devuelve el mensaje público de un *Error (vacío si no lo es).
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}

// FromRepo traduce el resultado de un repositorio:
// ErrNotFound => NotFound(notFoundMsg), cualquier otro => Storage.
func FromRepo(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return NotFound(notFoundMsg)
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Storage(err)
}
