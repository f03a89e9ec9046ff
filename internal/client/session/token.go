package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

// ErrNoRoles is returned for a token that carries no known role.
var ErrNoRoles = errors.New("token carries no known role")

type accessClaims struct {
	UserID       models.NumericID `json:"user_id"`
	FullName     string           `json:"full_name"`
	PhoneNumber  models.Phone     `json:"phone_number"`
	Roles        []string         `json:"roles"`
	ProfilePhoto *string          `json:"profile_photo"`
	jwt.RegisteredClaims
}

// DecodeAccessToken reads the identity out of an access token without
// verifying its signature; the backend verifies it on every call. The
// returned time is the token expiry, zero when the token has none.
func DecodeAccessToken(token string) (models.Identity, time.Time, error) {
	var claims accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return models.Identity{}, time.Time{}, fmt.Errorf("decode access token: %w", err)
	}

	roles := models.NewRoles(claims.Roles...)
	if len(roles) == 0 {
		return models.Identity{}, time.Time{}, ErrNoRoles
	}

	id := models.Identity{
		UserID:      int64(claims.UserID),
		FullName:    claims.FullName,
		Roles:       roles,
		PhoneNumber: models.DigitsOnly(string(claims.PhoneNumber)),
	}
	if claims.ProfilePhoto != nil {
		id.ProfilePhoto = *claims.ProfilePhoto
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return id, exp, nil
}
