package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"warbler/internal/domain"
	"warbler/internal/service"
	"warbler/internal/storage"
)

func (h *Handler) listUsers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	users, err := h.users.List(c.Request.Context(), q)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "users.html", gin.H{
		"Users":     users,
		"Query":     q,
		"Following": h.followingSet(c),
	})
}

// profile gathers the header shown on every per-user page.
type profile struct {
	User      *domain.User
	Messages  int
	Following int
	Followers int
	Likes     int

	messages []domain.Message
}

func (h *Handler) loadProfile(c *gin.Context) (*profile, bool) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return nil, false
	}

	ctx := c.Request.Context()
	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.serviceError(c, err)
		return nil, false
	}
	msgs, err := h.messages.ListByUser(ctx, id, service.TimelineLimit)
	if err != nil {
		h.serverError(c, err)
		return nil, false
	}
	total, err := h.messages.CountByUser(ctx, id)
	if err != nil {
		h.serverError(c, err)
		return nil, false
	}
	counts, err := h.follows.Counts(ctx, id)
	if err != nil {
		h.serverError(c, err)
		return nil, false
	}
	liked, err := h.likes.LikedIDs(ctx, id)
	if err != nil {
		h.serverError(c, err)
		return nil, false
	}

	return &profile{
		User:      user,
		Messages:  total,
		Following: counts.Following,
		Followers: counts.Followers,
		Likes:     len(liked),
		messages:  msgs,
	}, true
}

// followingSet returns the ids the current user follows, for follow buttons.
func (h *Handler) followingSet(c *gin.Context) map[int64]bool {
	set := map[int64]bool{}
	user := currentUser(c)
	if user == nil {
		return set
	}
	following, err := h.follows.Following(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.WithError(err).Warn("load following set")
		return set
	}
	for _, u := range following {
		set[u.ID] = true
	}
	return set
}

// likedSet returns the ids of messages the current user liked.
func (h *Handler) likedSet(c *gin.Context) map[int64]bool {
	set := map[int64]bool{}
	user := currentUser(c)
	if user == nil {
		return set
	}
	ids, err := h.likes.LikedIDs(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.WithError(err).Warn("load liked set")
		return set
	}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (h *Handler) showUser(c *gin.Context) {
	p, ok := h.loadProfile(c)
	if !ok {
		return
	}
	h.render(c, http.StatusOK, "user_show.html", gin.H{
		"Profile":   p,
		"Messages":  p.messages,
		"Following": h.followingSet(c),
		"Liked":     h.likedSet(c),
	})
}

func (h *Handler) showFollowing(c *gin.Context) {
	p, ok := h.loadProfile(c)
	if !ok {
		return
	}
	users, err := h.follows.Following(c.Request.Context(), p.User.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_list.html", gin.H{
		"Profile":   p,
		"Title":     "Following",
		"Users":     users,
		"Following": h.followingSet(c),
	})
}

func (h *Handler) showFollowers(c *gin.Context) {
	p, ok := h.loadProfile(c)
	if !ok {
		return
	}
	users, err := h.follows.Followers(c.Request.Context(), p.User.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "user_list.html", gin.H{
		"Profile":   p,
		"Title":     "Followers",
		"Users":     users,
		"Following": h.followingSet(c),
	})
}

func (h *Handler) showLikes(c *gin.Context) {
	p, ok := h.loadProfile(c)
	if !ok {
		return
	}
	msgs, err := h.likes.LikedMessages(c.Request.Context(), p.User.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}
	h.render(c, http.StatusOK, "likes.html", gin.H{
		"Profile":  p,
		"Messages": msgs,
		"Liked":    h.likedSet(c),
	})
}

func (h *Handler) follow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	me := currentUser(c)

	err := h.follows.Follow(c.Request.Context(), me.ID, id)
	switch {
	case err == nil:
		h.metrics.Follows.WithLabelValues("follow").Inc()
	case errors.Is(err, service.ErrSelfFollow):
		h.sessions.flash(c, flashDanger, "You cannot follow yourself.")
	default:
		h.serviceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", me.ID))
}

func (h *Handler) unfollow(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.notFound(c)
		return
	}
	me := currentUser(c)

	if err := h.follows.Unfollow(c.Request.Context(), me.ID, id); err != nil {
		h.serviceError(c, err)
		return
	}
	h.metrics.Follows.WithLabelValues("unfollow").Inc()
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", me.ID))
}

func (h *Handler) editProfileForm(c *gin.Context) {
	h.render(c, http.StatusOK, "profile_edit.html", gin.H{
		"Form":          currentUser(c),
		"UploadEnabled": h.storage != nil,
	})
}

func (h *Handler) editProfile(c *gin.Context) {
	me := currentUser(c)
	ctx := c.Request.Context()
	upd := service.ProfileUpdate{
		Username:       c.PostForm("username"),
		Email:          c.PostForm("email"),
		ImageURL:       c.PostForm("image_url"),
		HeaderImageURL: c.PostForm("header_image_url"),
		Bio:            c.PostForm("bio"),
		Location:       c.PostForm("location"),
	}
	form := &domain.User{
		ID:             me.ID,
		Username:       upd.Username,
		Email:          upd.Email,
		ImageURL:       upd.ImageURL,
		HeaderImageURL: upd.HeaderImageURL,
		Bio:            upd.Bio,
		Location:       upd.Location,
	}
	rerender := func(msg string) {
		h.sessions.flash(c, flashDanger, msg)
		h.render(c, http.StatusOK, "profile_edit.html", gin.H{
			"Form":          form,
			"UploadEnabled": h.storage != nil,
		})
	}

	// The image is checked up front but only uploaded once the profile update,
	// and with it the password, has been accepted.
	file, _ := c.FormFile("image")
	if file != nil {
		if h.storage == nil {
			rerender("Image uploads are not configured.")
			return
		}
		_, verr := storage.ValidateImage(file.Size, file.Header.Get("Content-Type"))
		if msg, ok := imageProblem(verr); !ok {
			rerender(msg)
			return
		}
	}

	user, err := h.users.UpdateProfile(ctx, me.ID, c.PostForm("password"), upd)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidCredentials):
		rerender("Wrong password, please try again.")
		return
	case errors.Is(err, service.ErrUserAlreadyExists):
		rerender("Username or email already taken")
		return
	default:
		h.serverError(c, err)
		return
	}

	if file != nil {
		f, err := file.Open()
		if err != nil {
			h.serverError(c, err)
			return
		}
		url, err := h.storage.UploadImage(ctx, me.ID, f, file.Size, file.Header.Get("Content-Type"))
		_ = f.Close()
		if msg, ok := imageProblem(err); !ok {
			if msg == "" {
				h.serverError(c, err)
				return
			}
			rerender(msg)
			return
		}
		if err := h.users.SetImageURL(ctx, me.ID, url); err != nil {
			h.serverError(c, err)
			return
		}
	}

	h.sessions.flash(c, flashSuccess, "Profile updated.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", user.ID))
}

// imageProblem turns an image validation or upload error into a flash
// message. An empty message with ok false means the error is unexpected.
func imageProblem(err error) (string, bool) {
	switch {
	case err == nil:
		return "", true
	case errors.Is(err, storage.ErrUnsupportedImage):
		return "Images must be PNG, JPEG, GIF or WebP.", false
	case errors.Is(err, storage.ErrImageTooLarge):
		return "Image is too large.", false
	default:
		return "", false
	}
}

func (h *Handler) deleteAccount(c *gin.Context) {
	me := currentUser(c)
	ctx := c.Request.Context()

	if err := h.users.Delete(ctx, me.ID); err != nil {
		h.serviceError(c, err)
		return
	}
	if h.storage != nil {
		if err := h.storage.DeletePrefix(ctx, h.storage.UserPrefix(me.ID)); err != nil {
			h.logger.WithError(err).WithField("user_id", me.ID).Warn("delete user images")
		}
	}

	h.sessions.logout(c)
	h.sessions.flash(c, flashInfo, "Your account has been deleted.")
	c.Redirect(http.StatusFound, "/user/signup")
}
