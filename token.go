package vend

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TextCodeUnreadableToken is attached when a token is not a decodable JWT.
const TextCodeUnreadableToken = "vend_unreadable_token"

// TokenInfo is the display view of an access token. The signature is not
// verified, so none of it is trusted for authorization.
type TokenInfo struct {
	Subject   string
	UserID    string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
	Claims    jwt.MapClaims
}

// Expired reports whether the token carried an expiry in the past.
func (t TokenInfo) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// InspectToken decodes token claims without verifying the signature.
func InspectToken(token string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to decode token").
			WithTextCode(TextCodeUnreadableToken)
	}

	info := &TokenInfo{Claims: claims}
	info.Subject, _ = claims.GetSubject()

	if uid, ok := claims["user_id"]; ok {
		switch v := uid.(type) {
		case string:
			info.UserID = v
		case float64:
			info.UserID = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}

	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		info.IssuedAt = &t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info, nil
}
