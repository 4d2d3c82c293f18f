package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcgcontrol/panel-service/internal/config"
	"github.com/gcgcontrol/panel-service/internal/domain"
	"github.com/gcgcontrol/panel-service/internal/repository/memory"
	apperrors "github.com/gcgcontrol/panel-service/pkg/util/errorutil"
)

func newTestAuthService(adminEmails string) (*AuthService, *memory.AccountStore) {
	accounts := memory.NewAccountStore()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            4,
			AdminEmails:           adminEmails,
		},
	}
	return NewAuthService(cfg, accounts), accounts
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService("")
	ctx := context.Background()

	account, token, exp, err := svc.Register(ctx, "Ana", "Ana@gcgcontrol.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ana@gcgcontrol.com", account.Email)
	assert.Equal(t, domain.RoleAnalyst, account.Role)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	got, loginToken, _, err := svc.Login(ctx, "ana@gcgcontrol.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, account.ID, got.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService("")
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Ana", "ana@gcgcontrol.com", "hunter2")
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "Other", "ana@gcgcontrol.com", "secret")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestAdminAllowlistResolvesRole(t *testing.T) {
	svc, _ := newTestAuthService("lead@gcgcontrol.com, ops@gcgcontrol.com")
	ctx := context.Background()

	lead, _, _, err := svc.Register(ctx, "Lead", "Lead@gcgcontrol.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, lead.Role)

	regular, _, _, err := svc.Register(ctx, "Ana", "ana@gcgcontrol.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAnalyst, regular.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService("")
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Ana", "ana@gcgcontrol.com", "hunter2")
	require.NoError(t, err)

	// Wrong password and unknown account produce the same opaque error.
	_, _, _, err = svc.Login(ctx, "ana@gcgcontrol.com", "wrong")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	_, _, _, err = svc.Login(ctx, "ghost@gcgcontrol.com", "hunter2")
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestTokenCarriesRoleClaim(t *testing.T) {
	svc, _ := newTestAuthService("lead@gcgcontrol.com")
	ctx := context.Background()

	account, token, _, err := svc.Register(ctx, "Lead", "lead@gcgcontrol.com", "s3cret")
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}
