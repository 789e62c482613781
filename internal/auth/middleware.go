package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vendora/vendora/internal/authz"
	"github.com/vendora/vendora/internal/platform/httpx"
)

// Middleware resolves the bearer token into a principal once per request.
type Middleware struct {
	Issuer *TokenIssuer
	Logger *slog.Logger
}

// Principal attaches the verified principal to the request context. Requests
// without a token pass through with no principal; protected handlers reject
// the absence downstream.
func (m Middleware) Principal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		principal, err := m.Issuer.Verify(raw)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("token verification failed", slog.Any("error", err))
			}
			// An unknown role claim is a deployment defect, not a bad
			// credential; keep it opaque instead of answering 401.
			if errors.Is(err, authz.ErrConfiguration) {
				httpx.RespondError(w, err)
				return
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
