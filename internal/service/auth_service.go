package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/minkhant-dev/piecerate-api/internal/models"
	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

type clientRepository interface {
	FindByID(ctx context.Context, id string) (*models.ClientAccount, error)
}

type registryRefresher interface {
	Refresh(ctx context.Context, session models.Session) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	TokenSecret    string
	TokenExpiry    time.Duration
	Issuer         string
	EntitlementTTL time.Duration
}

// AuthService authenticates client sessions and enforces subscription
// entitlement. Verdicts are cached briefly so the control database is
// not consulted on every request.
type AuthService struct {
	clients   clientRepository
	registry  registryRefresher
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(clients clientRepository, registry registryRefresher, cache *CacheService, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{
		clients:   clients,
		registry:  registry,
		cache:     cache,
		validator: validate,
		logger:    logger,
		config:    config,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Login authenticates a client session. Supervisors authenticate with
// the client id alone; owners must additionally present the owner
// password. A successful login warms the master-data registry for the
// client's namespace.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	account, err := s.clients.FindByID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "unknown client id")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch client account")
	}

	if !account.Entitled(s.now()) {
		return nil, appErrors.Clone(appErrors.ErrSubscriptionExpired, "subscription expired for client "+account.ID)
	}

	if req.Role == models.RoleOwner {
		if err := bcrypt.CompareHashAndPassword([]byte(account.OwnerPasswordHash), []byte(req.Password)); err != nil {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid owner password")
		}
	}

	token, issuedAt, err := s.generateAccessToken(account, req.Role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	if s.registry != nil {
		session := models.Session{Namespace: account.ID, Role: req.Role}
		if err := s.registry.Refresh(ctx, session); err != nil {
			s.logger.Warn("registry warm-up failed on login",
				zap.String("client_id", account.ID),
				zap.Error(err))
		}
	}

	s.logger.Info("client session established",
		zap.String("client_id", account.ID),
		zap.String("role", string(req.Role)))

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.TokenExpiry.Seconds()),
		ClientID:    account.ID,
		ClientName:  account.ClientName,
		Role:        req.Role,
		IssuedAt:    issuedAt,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	if !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role in token")
	}

	return claims, nil
}

// VerifyEntitlement checks that the client's subscription is still
// active. A cached verdict is served when fresh; otherwise the control
// database is consulted and the result cached.
func (s *AuthService) VerifyEntitlement(ctx context.Context, clientID string) error {
	cacheKey := entitlementCacheKey(clientID)

	var entitled bool
	if hit, err := s.cache.Get(ctx, cacheKey, &entitled); err == nil && hit {
		if !entitled {
			return appErrors.Clone(appErrors.ErrSubscriptionExpired, "subscription expired for client "+clientID)
		}
		return nil
	}

	account, err := s.clients.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUnauthorized, "unknown client id")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch client account")
	}

	entitled = account.Entitled(s.now())
	if err := s.cache.Set(ctx, cacheKey, entitled, s.config.EntitlementTTL); err != nil {
		s.logger.Warn("failed to cache entitlement verdict", zap.Error(err))
	}

	if !entitled {
		return appErrors.Clone(appErrors.ErrSubscriptionExpired, "subscription expired for client "+clientID)
	}
	return nil
}

func (s *AuthService) generateAccessToken(account *models.ClientAccount, role models.Role) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.JWTClaims{
		ClientID: account.ID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   account.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, issuedAt, nil
}

func entitlementCacheKey(clientID string) string {
	return "entitlement:" + clientID
}
