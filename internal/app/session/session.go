package session

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt"

	"bankoffice/internal/app/model"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	jwt.StandardClaims
}

type Creator interface {
	// Create a session for the user and return the signed token
	Create(ctx context.Context, u *model.User) (string, error)
}

type Reader interface {
	// Read resolves a token back to its user; disabled users fail here
	Read(ctx context.Context, token string) (*model.User, error)
}

type Manager interface {
	Creator
	Reader
}
