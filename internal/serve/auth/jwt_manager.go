package auth

import (
	"errors"
	"fmt"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"

	"github.com/landreg/registry-backend/internal/entities"
)

const DefaultTokenLifetime = 8 * time.Hour

type actorClaims struct {
	Org         string `json:"org"`
	DisplayName string `json:"name,omitempty"`
	jwtgo.RegisteredClaims
}

// JWTManager mints and verifies the bearer tokens that carry an actor's
// identity and organization. The subject claim holds the actor ID.
type JWTManager struct {
	Secret        []byte
	TokenLifetime time.Duration
}

func NewJWTManager(secret string, tokenLifetime time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	if tokenLifetime <= 0 {
		tokenLifetime = DefaultTokenLifetime
	}
	return &JWTManager{Secret: []byte(secret), TokenLifetime: tokenLifetime}, nil
}

// GenerateToken mints a signed token for the given actor.
func (m *JWTManager) GenerateToken(actor entities.Actor, now time.Time) (string, error) {
	if !actor.Org.Valid() {
		return "", fmt.Errorf("unknown organization %q", actor.Org)
	}

	claims := &actorClaims{
		Org:         string(actor.Org),
		DisplayName: actor.DisplayName,
		RegisteredClaims: jwtgo.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwtgo.NewNumericDate(now),
			ExpiresAt: jwtgo.NewNumericDate(now.Add(m.TokenLifetime)),
		},
	}

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.Secret)
	if err != nil {
		return "", fmt.Errorf("signing JWT token with claims: %w", err)
	}
	return tokenString, nil
}

// ParseToken verifies a token and returns the actor it identifies.
func (m *JWTManager) ParseToken(tokenString string) (entities.Actor, error) {
	claims := &actorClaims{}
	_, err := jwtgo.ParseWithClaims(tokenString, claims, func(t *jwtgo.Token) (interface{}, error) {
		return m.Secret, nil
	}, jwtgo.WithValidMethods([]string{jwtgo.SigningMethodHS256.Alg()}), jwtgo.WithExpirationRequired())
	if err != nil {
		return entities.Actor{}, fmt.Errorf("parsing JWT token with claims: %w", err)
	}

	actor := entities.Actor{
		ID:          claims.Subject,
		Org:         entities.Organization(claims.Org),
		DisplayName: claims.DisplayName,
	}
	if actor.ID == "" {
		return entities.Actor{}, errors.New("token subject is empty")
	}
	if !actor.Org.Valid() {
		return entities.Actor{}, fmt.Errorf("token carries unknown organization %q", claims.Org)
	}
	return actor, nil
}
