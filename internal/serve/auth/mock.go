package auth

import (
	"github.com/stretchr/testify/mock"

	"github.com/landreg/registry-backend/internal/entities"
)

// TokenParser is the subset of JWTManager the middleware needs.
type TokenParser interface {
	ParseToken(tokenString string) (entities.Actor, error)
}

var _ TokenParser = (*JWTManager)(nil)

type MockTokenParser struct {
	mock.Mock
}

var _ TokenParser = (*MockTokenParser)(nil)

func (m *MockTokenParser) ParseToken(tokenString string) (entities.Actor, error) {
	args := m.Called(tokenString)
	return args.Get(0).(entities.Actor), args.Error(1)
}
