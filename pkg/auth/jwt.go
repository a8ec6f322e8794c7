package auth

import (
	"errors"
	"os"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims carried by marketplace access tokens. Token issuance happens in the
// external auth service; this package only verifies and extracts the opaque
// user id the booking and search paths consume.
type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func ParseValidate(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	return c, nil
}
