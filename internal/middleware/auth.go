package middleware

import (
	"context"
	"net/http"
	"strings"

	"diet-backend/internal/auth"
	"diet-backend/internal/models"
	"diet-backend/internal/repositories"
	"diet-backend/internal/workflow"
	"diet-backend/pkg/utils"
)

type contextKey string

const UserKey contextKey = "user"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	users      repositories.UserStore
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, users repositories.UserStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
	}
}

// Authenticate is a middleware that validates JWT tokens
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.Error(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(w, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		claims, err := m.jwtManager.ValidateToken(parts[1])
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Re-read the user so role changes and deactivation apply immediately
		user, err := m.users.Get(r.Context(), claims.UserID)
		if err != nil {
			utils.Error(w, http.StatusUnauthorized, "User not found")
			return
		}
		if !user.IsActive {
			utils.Error(w, http.StatusForbidden, "Account suspended. Please contact administrator.")
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}

// ActorFromContext returns the authenticated user as a workflow actor.
func ActorFromContext(ctx context.Context) (workflow.Actor, bool) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return workflow.Actor{}, false
	}
	return workflow.Actor{ID: user.ID, Role: user.Role}, true
}

// WithUser returns ctx carrying user, as Authenticate would.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// RequireCapability rejects requests whose user's role lacks capability.
// It must run after Authenticate.
func RequireCapability(capability workflow.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				utils.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			if !actor.Can(capability) {
				utils.Error(w, http.StatusForbidden, "Forbidden - insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
