package utils // package utils provides helper functions for tokens, hashing and time math

import (
    "errors"  // sentinel error for failed verification
    "time"    // expiry calculations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// TokenTTL is the fixed lifetime of an access token.  Tokens cannot be
// refreshed or revoked; a compromised token stays valid until this window
// elapses.
const TokenTTL = 12 * time.Hour

// ErrInvalidToken is returned by VerifyToken for any verification failure.
// Malformed, tampered and expired tokens are deliberately not distinguished
// to the caller.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed claim bundle carried by an access token.  Besides
// the registered claims (exp, iat) it embeds the user's identity so that
// downstream middleware can re-resolve the live user record by email.
type Claims struct {
    UserID uint64 `json:"userId"` // identifier of the authenticated user
    Email  string `json:"email"`  // email used to reload the user per request
    Role   string `json:"role"`   // role name baked in at issuance
    jwt.RegisteredClaims
}

// SignToken builds and signs an HS256 JWT for a user.  It embeds the user
// ID, email and role and sets the expiry to exactly now + TokenTTL.  The
// returned string is opaque to clients.
func SignToken(secret string, userID uint64, email, role string) (string, error) {
    now := time.Now().UTC()
    claims := Claims{
        UserID: userID,
        Email:  email,
        Role:   role,
        RegisteredClaims: jwt.RegisteredClaims{
            ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(secret))
}

// VerifyToken parses and validates a token string and returns its claims.
// The signing method must be HMAC; signature and expiry are checked with
// no clock-skew compensation.  Every failure mode collapses into
// ErrInvalidToken.
func VerifyToken(secret, raw string) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    return claims, nil
}
