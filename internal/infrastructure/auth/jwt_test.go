package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizops/backend/internal/domain/authz"
	"github.com/bizops/backend/internal/infrastructure/config"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-test-secret-test-secret",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "bizops-test",
	})
}

func testActor() authz.Actor {
	locationID := uuid.New()
	return authz.Actor{
		ID:         uuid.New(),
		TenantID:   uuid.New(),
		LocationID: &locationID,
		Role:       authz.RoleManager,
		Active:     true,
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService()
	actor := testActor()

	token, expiresAt, err := svc.GenerateToken(actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	parsed, err := claims.Actor()
	require.NoError(t, err)
	assert.Equal(t, actor.ID, parsed.ID)
	assert.Equal(t, actor.TenantID, parsed.TenantID)
	assert.Equal(t, authz.RoleManager, parsed.Role)
	require.NotNil(t, parsed.LocationID)
	assert.Equal(t, *actor.LocationID, *parsed.LocationID)
	assert.True(t, parsed.Active)
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestService()
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		svc := newTestService()
		other := NewJWTService(config.JWTConfig{
			Secret:                "another-secret-another-secret-12",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "bizops-test",
		})

		token, _, err := other.GenerateToken(testActor())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-test-secret-test-secret",
			AccessTokenExpiration: -time.Minute,
			Issuer:                "bizops-test",
		})

		token, _, err := svc.GenerateToken(testActor())
		require.NoError(t, err)

		_, err = newTestService().ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

func TestActorClaims_Actor(t *testing.T) {
	t.Run("unknown role rejected", func(t *testing.T) {
		claims := &ActorClaims{
			TenantID: uuid.New().String(),
			ActorID:  uuid.New().String(),
			Role:     "superadmin",
			Active:   true,
		}
		_, err := claims.Actor()
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("nil location preserved", func(t *testing.T) {
		claims := &ActorClaims{
			TenantID: uuid.New().String(),
			ActorID:  uuid.New().String(),
			Role:     "owner",
			Active:   true,
		}
		actor, err := claims.Actor()
		require.NoError(t, err)
		assert.Nil(t, actor.LocationID)
		assert.Equal(t, authz.RoleOwner, actor.Role)
	})
}
