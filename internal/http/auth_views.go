package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/repository"
	"warbler/internal/service"
)

func (h *Handler) signupForm(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "signup.html", gin.H{"Username": "", "Email": "", "ImageURL": ""})
}

func (h *Handler) signup(c *gin.Context) {
	in := service.SignupInput{
		Username: c.PostForm("username"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
		ImageURL: c.PostForm("image_url"),
	}
	form := gin.H{"Username": in.Username, "Email": in.Email, "ImageURL": in.ImageURL}

	user, err := h.users.Signup(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			h.sessions.flash(c, flashDanger, "Password is required.")
		case errors.Is(err, service.ErrUserAlreadyExists):
			h.sessions.flash(c, flashDanger, "Username or email already taken")
		case errors.Is(err, repository.ErrIntegrity):
			h.sessions.flash(c, flashDanger, "Username and email are required.")
		default:
			h.serverError(c, err)
			return
		}
		h.render(c, http.StatusOK, "signup.html", form)
		return
	}

	h.metrics.Signups.Inc()
	h.sessions.login(c, user.ID)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) loginForm(c *gin.Context) {
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Username": ""})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	user, err := h.users.Authenticate(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.serverError(c, err)
			return
		}
		h.metrics.Logins.WithLabelValues("failure").Inc()
		h.sessions.flash(c, flashDanger, "Invalid credentials.")
		h.render(c, http.StatusOK, "login.html", gin.H{"Username": username})
		return
	}

	h.metrics.Logins.WithLabelValues("success").Inc()
	h.sessions.login(c, user.ID)
	h.sessions.flash(c, flashSuccess, fmt.Sprintf("Hello, %s!", user.Username))
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) logout(c *gin.Context) {
	h.sessions.logout(c)
	h.sessions.flash(c, flashSuccess, "You have been logged out.")
	c.Redirect(http.StatusFound, "/user/login")
}
