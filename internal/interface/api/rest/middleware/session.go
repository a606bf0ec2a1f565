package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"file-uploader/internal/application/authctx"
	"file-uploader/internal/infrastructure/jwt"
)

const (
	SessionCookie = "session"
	LoginPath     = "/login"
)

// Session resolves the session cookie into an authctx.Principal on the
// request context. Missing, expired or forged cookies leave the request
// anonymous.
func Session(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			c.Next()
			return
		}
		id, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.Next()
			return
		}

		ctx := authctx.WithPrincipal(c.Request.Context(), authctx.Principal{
			UserID: id,
			Email:  claims.Email,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireUser sends anonymous visitors to the login page.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authctx.FromContext(c.Request.Context()); !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireUserAPI answers 401 instead of redirecting.
func RequireUserAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authctx.FromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "unauthorized"},
			)
			return
		}
		c.Next()
	}
}

func SetSessionCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}
