package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/vena/internal/helpers"
	"github.com/joshua-takyi/vena/internal/services"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// ErrorHandler provides centralized error handling
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if c.Writer.Written() {
				return
			}
			res := helpers.ErrorResponse("Internal server error")
			if id, ok := requestID.(string); ok {
				res.RequestID = id
			}
			c.JSON(http.StatusInternalServerError, res)
		}
	}
}

// SecureCookies reports whether auth cookies should carry the Secure flag.
var SecureCookies bool

// SetAuthCookies stores the session tokens the way login and refresh both do.
func SetAuthCookies(c *gin.Context, accessToken string, expiresIn int, refreshToken string) {
	c.SetCookie("access_token", accessToken, expiresIn, "/", "", SecureCookies, true)
	c.SetCookie("refresh_token", refreshToken, 3600*24*30, "/", "", SecureCookies, true)
}

func ClearAuthCookies(c *gin.Context) {
	c.SetCookie("access_token", "", -1, "/", "", SecureCookies, true)
	c.SetCookie("refresh_token", "", -1, "/", "", SecureCookies, true)
}

// bearerToken reads the access token from the cookie, falling back to the
// Authorization header for API clients.
func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, helpers.ErrorResponse(message))
	c.Abort()
}

func AuthMiddleware(validator helpers.TokenValidator, userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			unauthorized(c, "Unauthorized access")
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			refreshToken, refreshErr := c.Cookie("refresh_token")
			if refreshErr != nil || refreshToken == "" {
				unauthorized(c, "Unauthorized access")
				return
			}

			tokenRes, refreshErr := userService.RefreshToken(c.Request.Context(), refreshToken)
			if refreshErr != nil || tokenRes == nil || tokenRes.AccessToken == "" {
				logger.Error("Token refresh failed", "error", refreshErr)
				unauthorized(c, "Token expired and refresh failed")
				return
			}

			logger.Info("Token refreshed successfully",
				"user_id", tokenRes.User.ID,
				"expires_in", tokenRes.ExpiresIn,
			)
			SetAuthCookies(c, tokenRes.AccessToken, tokenRes.ExpiresIn, tokenRes.RefreshToken)

			token = tokenRes.AccessToken
			claims, err = validator.ValidateToken(token)
			if err != nil {
				unauthorized(c, "Refreshed token validation failed")
				return
			}
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			logger.Error("Invalid user ID in token", "user_id", claims.Subject, "error", err)
			unauthorized(c, "Unauthorized access")
			return
		}

		enhanced := &helpers.EnhancedClaims{
			CustomClaims: claims,
			UserID:       userID.String(),
			Email:        claims.Email,
			AccessToken:  token,
		}

		// the profile only decorates the claims; a missing one is not fatal
		if view, err := userService.GetProfile(c.Request.Context(), userID, token); err != nil {
			logger.Debug("Profile not found for token subject", "user_id", userID, "error", err)
		} else if view.Profile != nil {
			enhanced.FullName = view.Profile.FullName
			enhanced.CompanyName = view.Profile.CompanyName
		}

		c.Set("user", enhanced)
		c.Next()
	}
}
