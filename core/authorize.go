package core

import (
	"fmt"
	"strings"

	"github.com/palisade-io/go-jwt-auth/token"
)

// AdminRole is the role RequireAdmin checks for.
const AdminRole = "admin"

// Predicate decides whether verified claims satisfy an authorization
// requirement. Predicates are pure claim inspections; they run after
// verification and never see the raw token.
type Predicate func(claims *token.Claims) bool

// RequireAnyRole passes when the claims hold at least one of the given
// roles.
func RequireAnyRole(roles ...string) Predicate {
	return func(claims *token.Claims) bool {
		for _, required := range roles {
			for _, role := range claims.Roles {
				if role == required {
					return true
				}
			}
		}
		return false
	}
}

// RequireAllPermissions passes when the claims hold every one of the
// given permissions.
func RequireAllPermissions(permissions ...string) Predicate {
	return func(claims *token.Claims) bool {
		for _, required := range permissions {
			found := false
			for _, permission := range claims.Permissions {
				if permission == required {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
}

// RequireAdmin passes when the claims hold the admin role.
func RequireAdmin() Predicate {
	return RequireAnyRole(AdminRole)
}

// Authorize runs the predicates against the claims and returns an error
// matching ErrAuthorizationDenied on the first one that fails. Nil
// claims fail every predicate. No predicates means no requirement.
func Authorize(claims *token.Claims, predicates ...Predicate) error {
	if len(predicates) == 0 {
		return nil
	}
	if claims == nil {
		return &deniedError{requirement: "no claims to authorize"}
	}
	for i, predicate := range predicates {
		if !predicate(claims) {
			return &deniedError{
				requirement: fmt.Sprintf("predicate %d of %d failed for subject %q (roles: %s)",
					i+1, len(predicates), claims.Subject, strings.Join(claims.Roles, ", ")),
			}
		}
	}
	return nil
}
