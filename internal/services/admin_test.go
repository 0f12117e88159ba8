package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slotbooking/internal/domain"
	"slotbooking/internal/repository/memory"
)

func TestAdminService_CreateAdminAndLogin(t *testing.T) {
	stores := memory.NewStores()
	issuer := &fakeIssuer{}
	svc := NewAdminService(stores.Admins, fakeHasher{}, issuer, time.Hour, testTimeout)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, "Root", "Root@Example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", admin.Email)
	assert.Equal(t, "hashed:correct horse", admin.PasswordHash)

	_, err = svc.CreateAdmin(ctx, "Again", "root@example.com", "correct horse")
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	res, err := svc.Login(ctx, "root@example.com", "correct horse")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, msgLoginSuccess, res.Message)
	assert.Equal(t, &domain.AdminView{ID: admin.ID, Name: "Root", Email: "root@example.com"}, res.Admin)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, []string{adminRole}, issuer.roles)

	for _, creds := range [][2]string{
		{"root@example.com", "wrong password"},
		{"unknown@example.com", "correct horse"},
		{"", ""},
	} {
		res, err := svc.Login(ctx, creds[0], creds[1])
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.Equal(t, msgLoginFailed, res.Message)
		assert.Nil(t, res.Admin)
		assert.Empty(t, res.Token)
	}
}

func TestAdminService_LoginWithoutIssuer(t *testing.T) {
	stores := memory.NewStores()
	svc := NewAdminService(stores.Admins, fakeHasher{}, nil, time.Hour, testTimeout)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, "Root", "root@example.com", "correct horse")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "root@example.com", "correct horse")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.Token)
}

func TestAdminService_CreateAdmin_Validation(t *testing.T) {
	svc := NewAdminService(memory.NewStores().Admins, fakeHasher{}, nil, time.Hour, testTimeout)

	tests := []struct {
		name, adminName, email, password string
	}{
		{"missing name", "", "a@example.com", "longenough"},
		{"bad email", "A", "nope", "longenough"},
		{"short password", "A", "a@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAdmin(context.Background(), tt.adminName, tt.email, tt.password)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
