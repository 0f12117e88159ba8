package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooking/internal/domain"
)

func TestAdminController_Login(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		result      *domain.LoginResult
		fakeErr     error
		wantStatus  int
		wantSuccess bool
	}{
		{
			name: "success",
			body: `{"email":"root@example.com","password":"secret123"}`,
			result: &domain.LoginResult{
				Success: true, Message: "login successful",
				Admin: &domain.AdminView{ID: 1, Name: "Root", Email: "root@example.com"}, Token: "tok",
			},
			wantStatus:  http.StatusOK,
			wantSuccess: true,
		},
		{
			name:       "bad credentials still 200",
			body:       `{"email":"root@example.com","password":"nope"}`,
			result:     &domain.LoginResult{Success: false, Message: "incorrect email or password"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "store failure",
			body:       `{"email":"root@example.com","password":"x"}`,
			fakeErr:    errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAdminController(testLogger, &fakeAdminService{result: tt.result, err: tt.fakeErr})
			rr := httptest.NewRecorder()

			ctrl.Login(rr, httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewBufferString(tt.body)))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			var result domain.LoginResult
			decodeData(t, decodeEnvelope(t, rr), &result)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.result.Message, result.Message)
		})
	}
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var body HealthResponse
	decodeData(t, decodeEnvelope(t, rr), &body)
	assert.Equal(t, "ok", body.Status)
}
