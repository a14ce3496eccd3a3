package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Algorithm is a JWT signing algorithm supported by the codec.
// Only HMAC algorithms are supported because signing material is a
// shared secret handed in by the caller.
type Algorithm string

const (
	HS256 Algorithm = "HS256"
	HS384 Algorithm = "HS384"
	HS512 Algorithm = "HS512"
)

// supportedAlgorithms is the set of algorithms the codec will sign and
// verify with. Verification pins the configured algorithm so a token
// cannot downgrade or swap the signing method.
var supportedAlgorithms = map[Algorithm]bool{
	HS256: true,
	HS384: true,
	HS512: true,
}

// SupportedAlgorithm reports whether name is an algorithm the codec supports.
func SupportedAlgorithm(name string) bool {
	return supportedAlgorithms[Algorithm(name)]
}

// Kind distinguishes access tokens from refresh tokens. It is carried
// in the "type" claim of every issued token.
type Kind string

const (
	// KindAccess marks a short-lived token used to authorize requests.
	KindAccess Kind = "access"

	// KindRefresh marks a longer-lived token exchanged for new access tokens.
	KindRefresh Kind = "refresh"
)

// Claims is the payload carried inside an issued token: the standard
// registered claims plus the token kind, role/permission sets used by
// the authorization predicates, and arbitrary caller-supplied data.
//
// Subject, issued-at, expiry and the token identifier (jti) live in the
// embedded RegisteredClaims. Issue overwrites jti, iat and exp on every
// call, so callers only provide the identity-carrying fields.
type Claims struct {
	jwt.RegisteredClaims

	// Kind is "access" or "refresh". Set by Issue, verified by the engine.
	Kind Kind `json:"type,omitempty"`

	// Roles the subject holds. Role predicates match any-of.
	Roles []string `json:"roles,omitempty"`

	// Permissions granted to the subject. Permission predicates match all-of.
	Permissions []string `json:"permissions,omitempty"`

	// Custom holds arbitrary caller-supplied key/value data.
	Custom map[string]any `json:"custom,omitempty"`
}

// Pair bundles the two tokens issued together for one subject.
type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
