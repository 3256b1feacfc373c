package jwttoken

import (
	"regdesk/internal/platform/middleware"
)

// JWTServiceAdapter bridges the JWT service to the middleware's validator interface.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*middleware.SessionClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &middleware.SessionClaims{
		Subject: claims.Subject,
		JTI:     claims.ID,
	}, nil
}
