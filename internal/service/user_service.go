package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"warbler/internal/dbx"
	"warbler/internal/domain"
	"warbler/internal/repository"
)

// SignupInput carries the fields of the signup form.
type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// ProfileUpdate carries the editable profile fields. Empty Username or Email
// keep the current value; empty image URLs fall back to the defaults.
type ProfileUpdate struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// UserService describes account lifecycle operations.
type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, query string) ([]domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, password string, upd ProfileUpdate) (*domain.User, error)
	SetImageURL(ctx context.Context, userID int64, url string) error
	Delete(ctx context.Context, userID int64) error
}

type userService struct {
	db    *sql.DB
	repos repository.Manager
	cost  int
}

// NewUserService builds a UserService. db is the pool repositories are bound
// to outside transactions.
func NewUserService(db *sql.DB, repos repository.Manager) UserService {
	return &userService{db: db, repos: repos, cost: bcrypt.DefaultCost}
}

func (s *userService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if strings.TrimSpace(in.Password) == "" {
		return nil, ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.TrimSpace(in.Email),
		PasswordHash: string(hash),
		ImageURL:     strings.TrimSpace(in.ImageURL),
	}

	if _, err := s.repos.Users(s.db).Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %w", ErrUserAlreadyExists, err)
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repos.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, userErr(err)
	}
	return sanitizeUser(user), nil
}

func (s *userService) List(ctx context.Context, query string) ([]domain.User, error) {
	users, err := s.repos.Users(s.db).List(ctx, query)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, password string, upd ProfileUpdate) (*domain.User, error) {
	var updated *domain.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repos.Users(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return userErr(err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}

		if v := strings.TrimSpace(upd.Username); v != "" {
			user.Username = v
		}
		if v := strings.TrimSpace(upd.Email); v != "" {
			user.Email = v
		}
		user.ImageURL = orDefault(upd.ImageURL, domain.DefaultImageURL)
		user.HeaderImageURL = orDefault(upd.HeaderImageURL, domain.DefaultHeaderImageURL)
		user.Bio = strings.TrimSpace(upd.Bio)
		user.Location = strings.TrimSpace(upd.Location)

		if err := users.Update(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("%w: %w", ErrUserAlreadyExists, err)
			}
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sanitizeUser(updated), nil
}

func (s *userService) SetImageURL(ctx context.Context, userID int64, url string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repos.Users(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return userErr(err)
		}
		user.ImageURL = orDefault(url, domain.DefaultImageURL)
		return users.Update(ctx, user)
	})
}

func (s *userService) Delete(ctx context.Context, userID int64) error {
	if err := s.repos.Users(s.db).Delete(ctx, userID); err != nil {
		return userErr(err)
	}
	return nil
}

func userErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
