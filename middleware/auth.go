package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"jbovertime/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// TokenCookie is the cookie that carries the session token.
const TokenCookie = "token"

// Authenticator resolves a session token into the current profile.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Auth rejects requests without a valid session with a JSON 401. The token
// is read from the session cookie first, then from a Bearer header.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				writeJSONError(w, http.StatusUnauthorized, "autenticação necessária")
				return
			}

			user, err := authn.Authenticate(r.Context(), tokenString)
			if err != nil {
				ClearTokenCookie(w)
				writeJSONError(w, http.StatusUnauthorized, "sessão inválida ou expirada")
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// ClearTokenCookie expires the session cookie.
func ClearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequirePasswordChange blocks users that still carry a temporary password.
// Paths in allowed stay reachable so the password can be changed.
func RequirePasswordChange(allowed ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user != nil && user.MustChangePassword {
				for _, path := range allowed {
					if r.URL.Path == path {
						next.ServeHTTP(w, r)
						return
					}
				}
				writeJSONError(w, http.StatusForbidden, "altere sua senha antes de continuar")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RoleChecker looks up a user's role at request time.
type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role models.Role) (bool, error)
}

// RequireRole lets the request through when the current user holds one of
// roles according to checker.
func RequireRole(checker RoleChecker, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				writeJSONError(w, http.StatusUnauthorized, "autenticação necessária")
				return
			}

			for _, role := range roles {
				ok, err := checker.HasRole(r.Context(), user.ID, role)
				if err != nil {
					hlog.FromRequest(r).Error().Err(err).Msg("role lookup failed")
					writeJSONError(w, http.StatusInternalServerError, "erro interno do servidor")
					return
				}
				if ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeJSONError(w, http.StatusForbidden, "acesso negado")
		})
	}
}

func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}
