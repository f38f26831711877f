// Package token maps opaque access tokens to user ids. Session issuance
// lives in an external identity service; the only capability this service
// needs is "token in, user id out".
package token

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ResolveUserID accepts either a bare user id or a JWT whose subject claim
// carries one. JWT signatures are the identity service's concern and are not
// verified here; the id is only used for ownership scoping against rows the
// store already attributes to a user.
func ResolveUserID(accessToken string) string {
	raw := strings.TrimSpace(accessToken)
	if raw == "" {
		return ""
	}
	if isUserID(raw) {
		return raw
	}
	return subjectUserID(raw)
}

func subjectUserID(raw string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil || !isUserID(sub) {
		return ""
	}
	return sub
}

func isUserID(s string) bool {
	id, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	// reject the nil uuid and non-RFC4122 variants
	return id != uuid.Nil && id.Variant() == uuid.RFC4122
}
