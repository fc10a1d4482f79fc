// Package http serves the Warbler web views and JSON API.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"warbler/internal/metrics"
	"warbler/internal/service"
	"warbler/internal/storage"
)

// Deps collects what the handler needs. Storage is optional; JWTSecret may be
// empty, which disables the token-protected API. Without Metrics the handler
// counts into a private registry.
type Deps struct {
	Users    service.UserService
	Messages service.MessageService
	Follows  service.FollowService
	Likes    service.LikeService
	Storage  storage.Service

	Sessions sessions.Store
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   logrus.FieldLogger

	JWTSecret string
	TokenTTL  time.Duration
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	messages service.MessageService
	follows  service.FollowService
	likes    service.LikeService
	storage  storage.Service

	sessions *sessionManager
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	logger   logrus.FieldLogger

	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewHandler(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	gatherer := d.Gatherer
	m := d.Metrics
	if m == nil {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg)
		if gatherer == nil {
			gatherer = reg
		}
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	ttl := d.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Handler{
		users:     d.Users,
		messages:  d.Messages,
		follows:   d.Follows,
		likes:     d.Likes,
		storage:   d.Storage,
		sessions:  &sessionManager{store: d.Sessions},
		metrics:   m,
		gatherer:  gatherer,
		logger:    logger,
		jwtSecret: []byte(d.JWTSecret),
		tokenTTL:  ttl,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(mustParseTemplates())
	router.Use(requestLogger(h.logger))

	router.StaticFS("/static", staticFiles())
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.Use(corsMiddleware())
	{
		api.OPTIONS("/*path", func(c *gin.Context) {})
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
		api.POST("/token", h.apiToken)
		api.GET("/messages/:id", h.apiGetMessage)

		authed := api.Group("", h.requireToken())
		authed.POST("/messages", h.apiCreateMessage)
		authed.DELETE("/messages/:id", h.apiDeleteMessage)
		authed.POST("/messages/:id/like", h.apiToggleLike)
		authed.GET("/timeline", h.apiTimeline)
	}

	web := router.Group("", h.loadCurrentUser())
	{
		web.GET("/", h.homepage)

		web.GET("/user/signup", h.signupForm)
		web.POST("/user/signup", h.signup)
		web.GET("/user/login", h.loginForm)
		web.POST("/user/login", h.login)
		web.GET("/user/logout", h.logout)

		web.GET("/users", h.listUsers)
		web.GET("/users/:id", h.showUser)

		web.GET("/messages/:id", h.showMessage)

		authed := web.Group("", h.requireUser())
		authed.GET("/users/:id/following", h.showFollowing)
		authed.GET("/users/:id/followers", h.showFollowers)
		authed.GET("/users/:id/likes", h.showLikes)
		authed.POST("/users/:id/follow", h.follow)
		authed.POST("/users/:id/unfollow", h.unfollow)

		authed.GET("/profile", h.editProfileForm)
		authed.POST("/profile", h.editProfile)
		authed.POST("/profile/delete", h.deleteAccount)

		authed.GET("/messages/new", h.newMessageForm)
		authed.POST("/messages/new", h.createMessage)
		authed.POST("/messages/:id/delete", h.deleteMessage)
		authed.POST("/messages/:id/like", h.toggleLike)
	}

	router.NoRoute(h.loadCurrentUser(), h.notFound)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) notFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "404.html", gin.H{})
}

func (h *Handler) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("handler failed")
	c.String(http.StatusInternalServerError, "internal server error")
}

// serviceError renders the page matching a service sentinel, falling back to 500.
func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMessageNotFound), errors.Is(err, service.ErrUserNotFound):
		h.notFound(c)
	case errors.Is(err, service.ErrForbidden):
		h.unauthorized(c)
	default:
		h.serverError(c, err)
	}
}
