package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
	"github.com/SeanSoulong/admin-bay/pkg/httputil"
	"github.com/SeanSoulong/admin-bay/pkg/logger"
)

type contextKeyType string

const identityKey contextKeyType = "admin_identity"

// Verifier validates a session token and returns the identity it carries.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// RequireAdmin rejects requests without a valid bearer token (401) or with a
// verified email that is not allow-listed (403). On success the identity is
// placed on the context and the admin email is attached to the
// request-scoped logger.
func RequireAdmin(verifier Verifier, gate *Gate, fallback *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.WriteError(w, r, apperrors.Unauthorized("missing or malformed authorization header"), fallback)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				httputil.WriteError(w, r, apperrors.Unauthorized("invalid or expired token"), fallback)
				return
			}

			if !gate.IsAdminEmail(identity.Email) {
				l := logger.FromContext(r.Context())
				l.WarnContext(r.Context(), "rejected non-admin email",
					slog.String("email", identity.Email),
				)
				httputil.WriteError(w, r, apperrors.Forbidden("email is not on the admin allow-list"), fallback)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// WithIdentity returns a context carrying the verified admin identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return logger.WithAdminEmail(ctx, identity.Email)
}

// CurrentUser extracts the verified admin identity from the request context.
func CurrentUser(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
