package auth

import (
	"context"
	"net/http"
	"strings"
)

// IdentityHeader carries the client's opaque, process-unique identifier.
// It is the addressing namespace for stored evaluation keys; there is no
// server-side registration step.
const IdentityHeader = "User-Identifier"

// MissingIdentityMessage is the fixed error body message when the header
// is absent. Clients match on it; do not reword.
const MissingIdentityMessage = "Missing 'User-Identifier' header"

type ctxIdentityKey struct{}

// Identity extracts the User-Identifier header. The empty string means
// the header is absent.
func Identity(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(IdentityHeader))
}

// ContextWithIdentity injects a user identifier into ctx; used by the
// gateway and by tests.
func ContextWithIdentity(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, ctxIdentityKey{}, user)
}

// IdentityFromContext returns the extracted identifier or empty string.
func IdentityFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxIdentityKey{}); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
