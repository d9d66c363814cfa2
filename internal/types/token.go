package types

import "github.com/golang-jwt/jwt/v5"

// TokenClaims is the session token payload: subject is the user id,
// username rides along so callers don't need a lookup to display it.
type TokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}
