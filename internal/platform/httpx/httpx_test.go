package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pet-care-management/internal/platform/apperr"
	"pet-care-management/internal/platform/pagination"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestOK_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]any{"price": decimal.RequireFromString("50.00")})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	body := decodeEnvelope(t, rec)
	assert.EqualValues(t, 200, body["code"])
	assert.Equal(t, "success", body["msg"])
	// decimales como número JSON, no string
	assert.EqualValues(t, 50, body["data"].(map[string]any)["price"])
}

func TestError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
		msg    string
	}{
		{apperr.Validation("bad input"), 200, 400, "bad input"},
		{apperr.Conflict("username already exists"), 200, 400, "username already exists"},
		{apperr.AccountDisabled("account is disabled"), 200, 400, "account is disabled"},
		{apperr.Unauthorized("not authenticated"), 200, 401, "not authenticated"},
		{apperr.Forbidden("permission denied"), 200, 403, "permission denied"},
		{apperr.NotFound("pet not found"), 200, 404, "pet not found"},
		{apperr.TooManyRequests("too many requests"), 429, 429, "too many requests"},
		{errors.New("boom: connection refused"), 200, 500, "internal server error"},
		{apperr.Storage(errors.New("db down")), 200, 500, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			Error(rec, req, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.EqualValues(t, tc.code, body["code"])
			assert.Equal(t, tc.msg, body["msg"])
			assert.Nil(t, body["data"])
		})
	}
}

func TestNewPage_EmptyItemsNotNull(t *testing.T) {
	page := NewPage[int](nil, 0, pagination.Default())
	b, err := json.Marshal(page)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0,"page":1,"size":10}`, string(b))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Milo"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Milo", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := DecodeJSON(req, &dst)
	assert.Equal(t, "request body is required", apperr.MessageOf(err))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err = DecodeJSON(req, &dst)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestPathID(t *testing.T) {
	withParam := func(v string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("petID", v)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := PathID(withParam("42"), "petID")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := PathID(withParam(bad), "petID")
		assert.Equal(t, "invalid petID", apperr.MessageOf(err), bad)
	}
}

func TestTimestamp_Layouts(t *testing.T) {
	want := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	for _, raw := range []string{
		`"2026-01-15T10:30:00Z"`,
		`"2026-01-15T12:30:00+02:00"`,
		`"2026-01-15T10:30:00"`,
		`"2026-01-15 10:30:00"`,
	} {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.True(t, want.Equal(ts.Std()), raw)
	}

	var date Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2021-05-01"`), &date))
	assert.Equal(t, time.Date(2021, 5, 1, 0, 0, 0, 0, time.UTC), date.Std())

	var bad Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"15/01/2026"`), &bad))
}

func TestQueryHelpers(t *testing.T) {
	q := map[string][]string{"owner_id": {"7"}, "is_available": {"true"}, "bad": {"x"}}

	id, err := QueryInt64(q, "owner_id")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(7), *id)

	missing, err := QueryInt64(q, "pet_id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = QueryInt64(q, "bad")
	assert.Error(t, err)

	b, err := QueryBool(q, "is_available")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, *b)

	_, err = QueryBool(q, "bad")
	assert.Error(t, err)
}
