package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"warbler/internal/auth"
	"warbler/internal/domain"
	"warbler/internal/service"
)

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type MessageResponse struct {
	ID        int64         `json:"id"`
	Text      string        `json:"text"`
	UserID    int64         `json:"user_id"`
	Timestamp string        `json:"timestamp"`
	Author    *UserResponse `json:"author,omitempty"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}

func messageToResponse(m domain.Message) MessageResponse {
	resp := MessageResponse{
		ID:        m.ID,
		Text:      m.Text,
		UserID:    m.UserID,
		Timestamp: m.Timestamp.UTC().Format(time.RFC3339),
	}
	if m.Author != nil {
		resp.Author = &UserResponse{
			ID:       m.Author.ID,
			Username: m.Author.Username,
			ImageURL: m.Author.ImageURL,
		}
	}
	return resp
}

func (h *Handler) apiToken(c *gin.Context) {
	if len(h.jwtSecret) == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "token auth disabled"})
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.metrics.Logins.WithLabelValues("failure").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		h.apiError(c, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, h.jwtSecret, h.tokenTTL)
	if err != nil {
		h.apiError(c, err)
		return
	}
	h.metrics.Logins.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_in": int(h.tokenTTL.Seconds()),
	})
}

func (h *Handler) apiGetMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	msg, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageToResponse(*msg))
}

func (h *Handler) apiCreateMessage(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messages.Create(c.Request.Context(), apiUser(c).ID, req.Text)
	if err != nil {
		h.apiError(c, err)
		return
	}
	h.metrics.Messages.WithLabelValues("create").Inc()
	c.JSON(http.StatusCreated, messageToResponse(*msg))
}

func (h *Handler) apiDeleteMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	if err := h.messages.Delete(c.Request.Context(), apiUser(c).ID, id); err != nil {
		h.apiError(c, err)
		return
	}
	h.metrics.Messages.WithLabelValues("delete").Inc()
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) apiToggleLike(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	liked, err := h.likes.Toggle(c.Request.Context(), apiUser(c).ID, id)
	if err != nil {
		h.apiError(c, err)
		return
	}
	count, err := h.likes.Count(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, err)
		return
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	h.metrics.Likes.WithLabelValues(action).Inc()
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": count})
}

func (h *Handler) apiTimeline(c *gin.Context) {
	msgs, err := h.messages.Timeline(c.Request.Context(), apiUser(c).ID)
	if err != nil {
		h.apiError(c, err)
		return
	}

	resp := make([]MessageResponse, len(msgs))
	for i := range msgs {
		resp[i] = messageToResponse(msgs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) apiError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMessageNotFound), errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("api request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
