// Package httpx concentra el envelope {code,msg,data} y los helpers de
// request/response que antes cada módulo tenía como writeJSON propio.
package httpx

import (
	"encoding/json"
	"net/http"

	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/logger"
	"pet-care-management/internal/platform/pagination"

	"github.com/shopspring/decimal"
)

func init() {
	// Montos como número JSON (50.5), no como string.
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	CodeOK               = 200
	CodeBadRequest       = 400
	CodeUnauthorized     = 401
	CodeForbidden        = 403
	CodeNotFound         = 404
	CodeMethodNotAllowed = 405
	CodeTooManyRequests  = 429
	CodeInternal         = 500
)

type Envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// NewPage nunca devuelve items nil (serializa [] y no null).
func NewPage[T any](items []T, total int64, p pagination.Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: p.Page, Size: p.Size}
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Code: CodeOK, Msg: "success", Data: data})
}

// Error traduce err al envelope. Los errores de negocio viajan con HTTP 200 y
// el código real en "code"; solo el rate limit usa además el status HTTP.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := Classify(err)
	if code == CodeInternal {
		logger.FromContext(r.Context()).Error("request failed", map[string]any{
			"error": err.Error(),
			"kind":  apperr.KindOf(err).String(),
		})
	}

	status := http.StatusOK
	if code == CodeTooManyRequests {
		status = http.StatusTooManyRequests
	}
	JSON(w, status, Envelope{Code: code, Msg: msg})
}

// Classify mapea un error al par (code, msg) del envelope.
// Conflict se reporta como 400, igual que validación.
func Classify(err error) (int, string) {
	msg := apperr.MessageOf(err)
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict, apperr.KindAccountDisabled:
		return CodeBadRequest, msg
	case apperr.KindNotFound:
		return CodeNotFound, msg
	case apperr.KindUnauthorized:
		return CodeUnauthorized, msg
	case apperr.KindForbidden:
		return CodeForbidden, msg
	case apperr.KindTooManyRequests:
		return CodeTooManyRequests, msg
	default:
		return CodeInternal, "internal server error"
	}
}
