// Package token decides whether stored access and refresh tokens are
// still usable. Claims are decoded without signature verification: the
// client holds no keys and only needs the expiry, the server remains the
// authority on token validity.
package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/pawbook/go-admin-client/internal/utils"
)

// Claims is the decoded payload of a bearer token.
type Claims struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	IssuedAt  time.Time
	Roles     []string
}

// DecodeClaims extracts the claims of a JWT without verifying its
// signature. A token that cannot be decoded, or that carries no exp
// claim, is an error; callers treat that as expired.
func DecodeClaims(rawToken string) (*Claims, error) {
	unverified, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[DecodeClaims] parse")
	}

	mapClaims, ok := unverified.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[DecodeClaims] error extracting claims")
	}

	exp, ok := mapClaims["exp"].(float64)
	if !ok || exp == 0 {
		return nil, errors.New("[DecodeClaims] missing exp claim")
	}

	sub, _ := mapClaims["sub"].(string)
	iss, _ := mapClaims["iss"].(string)
	iat, _ := mapClaims["iat"].(float64)

	var roles []string
	if claimRoles, ok := mapClaims["roles"].([]any); ok {
		roles = utils.ToStringSlice(claimRoles)
	}

	claims := &Claims{
		Subject:   sub,
		Issuer:    iss,
		ExpiresAt: time.Unix(int64(exp), 0),
		Roles:     roles,
	}
	if iat != 0 {
		claims.IssuedAt = time.Unix(int64(iat), 0)
	}
	return claims, nil
}
