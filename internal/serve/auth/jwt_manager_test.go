package auth

import (
	"testing"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landreg/registry-backend/internal/entities"
)

func TestNewJWTManager(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.EqualError(t, err, "jwt secret cannot be empty")

	m, err := NewJWTManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenLifetime, m.TokenLifetime)
}

func TestGenerateAndParseToken(t *testing.T) {
	m, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	actor := entities.Actor{ID: "079123456789", Org: entities.OrgCitizen, DisplayName: "Nguyen Van A"}
	token, err := m.GenerateToken(actor, time.Now())
	require.NoError(t, err)

	parsed, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, parsed)
}

func TestGenerateTokenUnknownOrg(t *testing.T) {
	m, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = m.GenerateToken(entities.Actor{ID: "079123456789", Org: "Org9"}, time.Now())
	assert.ErrorContains(t, err, "unknown organization")
}

func TestParseTokenFailures(t *testing.T) {
	m, err := NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ParseToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTManager("other-secret", time.Hour)
		require.NoError(t, err)
		token, err := other.GenerateToken(entities.Actor{ID: "079123456789", Org: entities.OrgCitizen}, time.Now())
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := m.GenerateToken(entities.Actor{ID: "079123456789", Org: entities.OrgCitizen}, time.Now().Add(-2*time.Hour))
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorIs(t, err, jwtgo.ErrTokenExpired)
	})

	t.Run("unknown org in claims", func(t *testing.T) {
		claims := &actorClaims{
			Org: "Org9",
			RegisteredClaims: jwtgo.RegisteredClaims{
				Subject:   "079123456789",
				ExpiresAt: jwtgo.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims).SignedString(m.Secret)
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorContains(t, err, "unknown organization")
	})
}
