package user

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer = "tilemap-server"
	tokenTTL    = 72 * time.Hour
)

// JwtCustomClaims identifies the map editor behind a request.
type JwtCustomClaims struct {
	Id uint `json:"id"`
	jwt.RegisteredClaims
}

var GenerateJWT = func(id uint) (string, error) {
	now := time.Now()
	claims := JwtCustomClaims{
		Id: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
