package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingTenantID  = errors.New("missing tenant_id in claims")
	ErrMissingActorID   = errors.New("missing actor_id in claims")
)

// ActorClaims carries the acting user's identity and tenant membership.
// The token is the transport for the authorization guard's Actor; everything
// the guard needs to decide must be present here.
type ActorClaims struct {
	jwt.RegisteredClaims
	TenantID   string `json:"tenant_id"`
	ActorID    string `json:"actor_id"`
	Role       string `json:"role"`
	LocationID string `json:"location_id,omitempty"`
	Active     bool   `json:"active"`
}

// JWTService signs and validates actor tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.AccessTokenExpiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateToken signs a token for the given actor
func (s *JWTService) GenerateToken(actor authz.Actor) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.expiration)

	claims := &ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   actor.ID.String(),
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TenantID: actor.TenantID.String(),
		ActorID:  actor.ID.String(),
		Role:     actor.Role.String(),
		Active:   actor.Active,
	}
	if actor.LocationID != nil {
		claims.LocationID = actor.LocationID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ActorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	if claims.ActorID == "" {
		return nil, ErrMissingActorID
	}

	return claims, nil
}

// Actor converts validated claims to the guard's actor representation
func (c *ActorClaims) Actor() (authz.Actor, error) {
	tenantID, err := uuid.Parse(c.TenantID)
	if err != nil {
		return authz.Actor{}, ErrInvalidClaims
	}
	actorID, err := uuid.Parse(c.ActorID)
	if err != nil {
		return authz.Actor{}, ErrInvalidClaims
	}
	role := authz.ParseRoleTier(c.Role)
	if !role.IsValid() {
		return authz.Actor{}, ErrInvalidClaims
	}

	actor := authz.Actor{
		ID:       actorID,
		TenantID: tenantID,
		Role:     role,
		Active:   c.Active,
	}
	if c.LocationID != "" {
		locationID, err := uuid.Parse(c.LocationID)
		if err != nil {
			return authz.Actor{}, ErrInvalidClaims
		}
		actor.LocationID = &locationID
	}
	return actor, nil
}
