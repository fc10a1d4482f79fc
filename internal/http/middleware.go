package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"warbler/internal/auth"
	"warbler/internal/domain"
	"warbler/internal/service"
)

const (
	currentUserKey = "warbler.currentUser"
	apiUserKey     = "warbler.apiUser"

	slowRequest = 2 * time.Second
)

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": elapsed.String(),
			"ip":       c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case elapsed > slowRequest:
			entry.Warn("slow request")
		default:
			entry.Debug("request")
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// loadCurrentUser resolves the session user. A session pointing at a user
// that no longer exists is cleared and the request proceeds anonymously.
func (h *Handler) loadCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := h.sessions.userID(c)
		if !ok {
			c.Next()
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(currentUserKey, user)
		case errors.Is(err, service.ErrUserNotFound):
			h.sessions.logout(c)
		default:
			h.serverError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

// requireUser gates HTML routes: anonymous requests are flashed
// "Access Unauthorized." and sent home.
func (h *Handler) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			h.unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) unauthorized(c *gin.Context) {
	h.metrics.Unauthorized.WithLabelValues(c.FullPath()).Inc()
	h.sessions.flash(c, flashDanger, "Access Unauthorized.")
	c.Redirect(http.StatusFound, "/")
}

// requireToken gates the JSON API on a bearer JWT naming an existing user.
func (h *Handler) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(h.jwtSecret) == 0 {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "token auth disabled"})
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			h.metrics.Unauthorized.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		userID, err := auth.UserIDFromToken(strings.TrimSpace(token), h.jwtSecret)
		if err != nil {
			h.metrics.Unauthorized.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				h.metrics.Unauthorized.WithLabelValues(c.FullPath()).Inc()
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
				return
			}
			h.logger.WithError(err).Error("load api user")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(apiUserKey, user)
		c.Next()
	}
}

func apiUser(c *gin.Context) *domain.User {
	v, _ := c.Get(apiUserKey)
	u, _ := v.(*domain.User)
	return u
}
