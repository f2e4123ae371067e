package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tunride/ride-backend/internal/services"
	"github.com/tunride/ride-backend/pkg/jwt"
)

const (
	// UserContextKey is the key used to store token claims in Gin context
	UserContextKey = "user"
	// ViewerContextKey is the key used to store the resolved Viewer
	ViewerContextKey = "viewer"
)

// UserContext represents the authenticated account's token claims
type UserContext struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// ViewerResolver loads the viewer behind an authenticated account
type ViewerResolver interface {
	ResolveViewer(ctx context.Context, accountID uuid.UUID) (services.Viewer, error)
}

// authFailure is a rejected Authorization header
type authFailure struct {
	status  int
	error   string
	message string
	code    string
}

func (f *authFailure) respond(c *gin.Context) {
	c.AbortWithStatusJSON(f.status, gin.H{
		"error":   f.error,
		"message": f.message,
		"code":    f.code,
	})
}

// Auth validates bearer tokens and resolves the caller's Viewer
type Auth struct {
	jwtService *jwt.Service
	resolver   ViewerResolver
	logger     *logrus.Logger
}

// NewAuth creates the authentication middleware set
func NewAuth(jwtService *jwt.Service, resolver ViewerResolver, logger *logrus.Logger) *Auth {
	return &Auth{jwtService: jwtService, resolver: resolver, logger: logger}
}

// Required rejects requests without a valid access token
func (a *Auth) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			a.logger.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			}).Warn("AUTH FAILED: missing authorization header")
			(&authFailure{
				status:  http.StatusUnauthorized,
				error:   "unauthorized",
				message: "Authorization header is required",
				code:    "MISSING_AUTH_HEADER",
			}).respond(c)
			return
		}

		if failure := a.authenticate(c); failure != nil {
			failure.respond(c)
			return
		}
		c.Next()
	}
}

// Optional treats a missing Authorization header as an anonymous viewer.
// A header that is present must still carry a valid token.
func (a *Auth) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Set(ViewerContextKey, services.Anonymous())
			c.Next()
			return
		}

		if failure := a.authenticate(c); failure != nil {
			failure.respond(c)
			return
		}
		c.Next()
	}
}

// authenticate parses the header, validates the token and stores both the
// claims and the resolved viewer in the context
func (a *Auth) authenticate(c *gin.Context) *authFailure {
	authHeader := c.GetHeader("Authorization")
	log := a.logger.WithFields(logrus.Fields{
		"path": c.Request.URL.Path,
		"ip":   c.ClientIP(),
	})

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		log.Warn("AUTH FAILED: invalid auth format")
		return &authFailure{
			status:  http.StatusUnauthorized,
			error:   "unauthorized",
			message: "Invalid authorization header format. Expected: Bearer <token>",
			code:    "INVALID_AUTH_FORMAT",
		}
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		log.Warn("AUTH FAILED: empty token")
		return &authFailure{
			status:  http.StatusUnauthorized,
			error:   "unauthorized",
			message: "Token cannot be empty",
			code:    "INVALID_AUTH_FORMAT",
		}
	}

	claims, err := a.jwtService.ValidateAccessToken(tokenString)
	if err != nil {
		if a.jwtService.IsTokenExpired(tokenString) {
			log.WithError(err).Info("AUTH FAILED: token expired")
			return &authFailure{
				status:  http.StatusUnauthorized,
				error:   "token_expired",
				message: "Access token has expired. Please sign in again.",
				code:    "TOKEN_EXPIRED",
			}
		}
		log.WithError(err).Warn("AUTH FAILED: invalid token")
		return &authFailure{
			status:  http.StatusUnauthorized,
			error:   "invalid_token",
			message: "Invalid access token",
			code:    "INVALID_TOKEN",
		}
	}

	viewer, err := a.resolver.ResolveViewer(c.Request.Context(), claims.UserID)
	if err != nil {
		log.WithError(err).WithField("user_id", claims.UserID).Error("Failed to resolve viewer")
		return &authFailure{
			status:  http.StatusInternalServerError,
			error:   "internal_error",
			message: "Failed to load user",
			code:    "VIEWER_RESOLUTION_FAILED",
		}
	}

	c.Set(UserContextKey, UserContext{UserID: claims.UserID, Email: claims.Email})
	c.Set(ViewerContextKey, viewer)
	return nil
}

// RequireAdmin rejects viewers without the admin role. It must run after Required.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetViewer(c).Kind != services.ViewerAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Admin role required",
				"code":    "ADMIN_REQUIRED",
			})
			return
		}
		c.Next()
	}
}

// GetUserContext retrieves the token claims from the Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}

	userCtx, ok := value.(UserContext)
	return userCtx, ok
}

// GetViewer returns the resolved viewer, or Anonymous when none was set
func GetViewer(c *gin.Context) services.Viewer {
	value, exists := c.Get(ViewerContextKey)
	if !exists {
		return services.Anonymous()
	}

	viewer, ok := value.(services.Viewer)
	if !ok {
		return services.Anonymous()
	}
	return viewer
}
