package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name,omitempty" validate:"max=3"`
	Code     string `json:"code,omitempty" validate:"maxbytes=4"`
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	return got
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Success(rec, req, http.StatusCreated, "created", map[string]any{"id": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, float64(201), got["status_code"])
	assert.Equal(t, "created", got["message"])
	assert.Equal(t, map[string]any{"id": float64(1)}, got["data"])
	_, hasMeta := got["meta"]
	assert.False(t, hasMeta)
}

func TestSuccess_WithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	Success(rec, req, http.StatusOK, "ok", []int{}, map[string]any{"total": 0})

	got := decodeBody(t, rec)
	assert.Equal(t, map[string]any{"total": float64(0)}, got["meta"])
	assert.Equal(t, []any{}, got["data"])
}

func TestFail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	InternalError(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, map[string]any{
		"status_code": float64(500),
		"message":     MsgInternalError,
	}, got)
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
		errAny  bool
	}{
		{name: "valid", body: `{"email":"a@b.com"}`},
		{name: "empty", body: "", wantErr: ErrEmptyBody},
		{name: "malformed", body: `{"email":`, errAny: true},
		{name: "wrong type", body: `{"email":1}`, errAny: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v testRequest
			err := DecodeJSON(req, &v)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errAny:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, "a@b.com", v.Email)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     testRequest
		wantOK  bool
		wantMsg string
	}{
		{
			name:   "valid",
			req:    testRequest{Email: "a@b.com", Password: "secret123"},
			wantOK: true,
		},
		{
			name:    "first violation with json name",
			req:     testRequest{},
			wantMsg: "email field required",
		},
		{
			name:    "bad email",
			req:     testRequest{Email: "nope", Password: "secret123"},
			wantMsg: "email value is not a valid email address",
		},
		{
			name:    "short password",
			req:     testRequest{Email: "a@b.com", Password: "123"},
			wantMsg: "password should have at least 6 characters",
		},
		{
			name:    "long name",
			req:     testRequest{Email: "a@b.com", Password: "secret123", Name: "abcd"},
			wantMsg: "name should have at most 3 characters",
		},
		{
			name:   "code within byte limit",
			req:    testRequest{Email: "a@b.com", Password: "secret123", Code: "abcd"},
			wantOK: true,
		},
		{
			name:    "code counted in bytes not runes",
			req:     testRequest{Email: "a@b.com", Password: "secret123", Code: "ффф"},
			wantMsg: "code must be at most 4 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", nil)

			ok := Validate(rec, req, v, tt.req)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, 0, rec.Body.Len())
				return
			}
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			got := decodeBody(t, rec)
			assert.Equal(t, float64(422), got["status_code"])
			assert.Equal(t, tt.wantMsg, got["message"])
		})
	}
}
