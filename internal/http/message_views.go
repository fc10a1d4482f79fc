package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/domain"
	"warbler/internal/service"
)

func (h *Handler) homepage(c *gin.Context) {
	me := currentUser(c)
	if me == nil {
		h.render(c, http.StatusOK, "home_anon.html", gin.H{})
		return
	}

	ctx := c.Request.Context()
	msgs, err := h.messages.Timeline(ctx, me.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	counts, err := h.follows.Counts(ctx, me.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	total, err := h.messages.CountByUser(ctx, me.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.render(c, http.StatusOK, "home.html", gin.H{
		"Messages": msgs,
		"Profile": &profile{
			User:      me,
			Messages:  total,
			Following: counts.Following,
			Followers: counts.Followers,
		},
		"Liked": h.likedSet(c),
	})
}

func (h *Handler) newMessageForm(c *gin.Context) {
	h.render(c, http.StatusOK, "message_new.html", gin.H{"Text": "", "MaxLength": domain.MaxMessageLength})
}

func (h *Handler) createMessage(c *gin.Context) {
	me := currentUser(c)
	text := c.PostForm("text")

	_, err := h.messages.Create(c.Request.Context(), me.ID, text)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMessage) {
			h.sessions.flash(c, flashDanger, fmt.Sprintf("Messages must be between 1 and %d characters.", domain.MaxMessageLength))
			h.render(c, http.StatusOK, "message_new.html", gin.H{"Text": text, "MaxLength": domain.MaxMessageLength})
			return
		}
		h.serviceError(c, err)
		return
	}

	h.metrics.Messages.WithLabelValues("create").Inc()
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", me.ID))
}

func (h *Handler) showMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}

	msg, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	likes, err := h.likes.Count(c.Request.Context(), id)
	if err != nil {
		h.serverError(c, err)
		return
	}

	h.render(c, http.StatusOK, "message_show.html", gin.H{
		"Message": msg,
		"Likes":   likes,
		"Liked":   h.likedSet(c),
	})
}

// deleteMessage removes a message owned by the current user. Anyone else is
// answered as unauthorized and the message stays.
func (h *Handler) deleteMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	me := currentUser(c)

	if err := h.messages.Delete(c.Request.Context(), me.ID, id); err != nil {
		h.serviceError(c, err)
		return
	}

	h.metrics.Messages.WithLabelValues("delete").Inc()
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", me.ID))
}

func (h *Handler) toggleLike(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	me := currentUser(c)

	liked, err := h.likes.Toggle(c.Request.Context(), me.ID, id)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	action := "unlike"
	if liked {
		action = "like"
	}
	h.metrics.Likes.WithLabelValues(action).Inc()
	c.Redirect(http.StatusFound, "/")
}
