package auth

import (
	"log/slog"
	"net/http"
	"strings"
)

// Paths that do not require JWT authentication.
var publicPaths = map[string]struct{}{
	"/healthz":       {},
	"/auth/register": {},
	"/auth/login":    {},
}

// Interceptor handles JWT validation for incoming HTTP requests.
// A valid bearer token puts its email claim into the request context.
func Interceptor(tokens TokenManager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Expecting the standard "Bearer <token>" format
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				unauthenticated(w, "authorization token is missing")
				return
			}

			claims, err := tokens.ValidateToken(tokenStr)
			if err != nil {
				log.Debug("Rejected token", "path", r.URL.Path, "error", err)
				unauthenticated(w, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), claims.Email)))
		})
	}
}

func isPublicPath(path string) bool {
	_, ok := publicPaths[path]
	return ok
}

func unauthenticated(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
