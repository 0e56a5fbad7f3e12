package create

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/registro/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, in models.EntryCreate) (*models.Entry, error) {
	args := m.Called(ctx, in)
	if res := args.Get(0); res != nil {
		return res.(*models.Entry), args.Error(1)
	}
	return nil, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler(t *testing.T) {
	desc := "first"

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name: "успешное создание",
			body: `{"name":"alpha","description":"first"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, models.EntryCreate{Name: "alpha", Description: &desc}).
					Return(&models.Entry{ID: 1, Name: "alpha", Description: &desc, CreatedAt: time.Now()}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Test created successfully",
		},
		{
			name: "без описания",
			body: `{"name":"alpha"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, models.EntryCreate{Name: "alpha"}).
					Return(&models.Entry{ID: 2, Name: "alpha"}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "Test created successfully",
		},
		{
			name:           "нет имени",
			body:           `{"description":"x"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    "name field required",
		},
		{
			name:           "битый json",
			body:           `{"name":`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid request body",
		},
		{
			name: "ошибка сервиса",
			body: `{"name":"alpha"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)
			handler := New(newNoopLogger(), mockService)

			req := httptest.NewRequest(http.MethodPost, "/v1/test", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			var got map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.expectedMsg, got["message"])
			mockService.AssertExpectations(t)
		})
	}
}
