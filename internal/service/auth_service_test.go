package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/minkhant-dev/piecerate-api/internal/models"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

type stubClients struct {
	accounts map[string]*models.ClientAccount
	calls    int
}

func (s *stubClients) FindByID(_ context.Context, id string) (*models.ClientAccount, error) {
	s.calls++
	account, ok := s.accounts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return account, nil
}

type stubRefresher struct {
	refreshed []models.Session
}

func (s *stubRefresher) Refresh(_ context.Context, session models.Session) error {
	s.refreshed = append(s.refreshed, session)
	return nil
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		TokenSecret:    "test-secret",
		TokenExpiry:    time.Hour,
		Issuer:         "piecerate-api",
		EntitlementTTL: time.Minute,
	}
}

func newAuthFixture(t *testing.T, accounts map[string]*models.ClientAccount) (*AuthService, *stubClients, *stubRefresher) {
	t.Helper()
	clients := &stubClients{accounts: accounts}
	refresher := &stubRefresher{}
	svc := NewAuthService(clients, refresher, nil, nil, nil, testAuthConfig())
	return svc, clients, refresher
}

func paidAccount(t *testing.T) *models.ClientAccount {
	return &models.ClientAccount{
		ID:                 "factory-1",
		ClientName:         "Golden Loom",
		SubscriptionStatus: models.SubscriptionPaid,
		OwnerPasswordHash:  hashPassword(t, "owner-pass"),
	}
}

func TestLoginSupervisorNeedsNoPassword(t *testing.T) {
	svc, _, refresher := newAuthFixture(t, map[string]*models.ClientAccount{"factory-1": paidAccount(t)})

	result, err := svc.Login(context.Background(), models.LoginRequest{
		ClientID: "factory-1",
		Role:     models.RoleSupervisor,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, models.RoleSupervisor, result.Role)
	assert.Equal(t, "Golden Loom", result.ClientName)
	require.Len(t, refresher.refreshed, 1)
	assert.Equal(t, "factory-1", refresher.refreshed[0].Namespace)
}

func TestLoginOwnerChecksPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t, map[string]*models.ClientAccount{"factory-1": paidAccount(t)})

	_, err := svc.Login(context.Background(), models.LoginRequest{
		ClientID: "factory-1",
		Role:     models.RoleOwner,
		Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))

	result, err := svc.Login(context.Background(), models.LoginRequest{
		ClientID: "factory-1",
		Role:     models.RoleOwner,
		Password: "owner-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, result.Role)
}

func TestLoginUnknownClient(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{ClientID: "ghost", Role: models.RoleSupervisor})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestLoginRejectsUnknownRole(t *testing.T) {
	svc, _, _ := newAuthFixture(t, map[string]*models.ClientAccount{"factory-1": paidAccount(t)})

	_, err := svc.Login(context.Background(), models.LoginRequest{ClientID: "factory-1", Role: "admin"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestLoginExpiredTrialBlocked(t *testing.T) {
	past := time.Now().UTC().Add(-24 * time.Hour)
	account := paidAccount(t)
	account.SubscriptionStatus = models.SubscriptionTrial
	account.TrialEndDate = &past
	svc, _, _ := newAuthFixture(t, map[string]*models.ClientAccount{"factory-1": account})

	_, err := svc.Login(context.Background(), models.LoginRequest{ClientID: "factory-1", Role: models.RoleSupervisor})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrSubscriptionExpired))
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc, _, _ := newAuthFixture(t, map[string]*models.ClientAccount{"factory-1": paidAccount(t)})

	result, err := svc.Login(context.Background(), models.LoginRequest{ClientID: "factory-1", Role: models.RoleOwner, Password: "owner-pass"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "factory-1", claims.ClientID)
	assert.Equal(t, models.RoleOwner, claims.Role)

	session := claims.Session()
	assert.Equal(t, "factory-1", session.Namespace)
	assert.Equal(t, models.RoleOwner, session.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	svc, _, _ := newAuthFixture(t, map[string]*models.ClientAccount{"factory-1": paidAccount(t)})
	result, err := svc.Login(context.Background(), models.LoginRequest{ClientID: "factory-1", Role: models.RoleSupervisor})
	require.NoError(t, err)

	other := NewAuthService(&stubClients{}, nil, nil, nil, nil, AuthConfig{TokenSecret: "different", TokenExpiry: time.Hour})
	_, err = other.ValidateToken(result.AccessToken)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}

func TestVerifyEntitlement(t *testing.T) {
	account := paidAccount(t)
	svc, clients, _ := newAuthFixture(t, map[string]*models.ClientAccount{"factory-1": account})

	require.NoError(t, svc.VerifyEntitlement(context.Background(), "factory-1"))
	assert.Equal(t, 1, clients.calls)

	account.SubscriptionStatus = models.SubscriptionExpired
	err := svc.VerifyEntitlement(context.Background(), "factory-1")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrSubscriptionExpired))
}

func TestVerifyEntitlementUnknownClient(t *testing.T) {
	svc, _, _ := newAuthFixture(t, nil)

	err := svc.VerifyEntitlement(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrUnauthorized))
}
