package service

import (
	"context"
	"database/sql"
	"errors"

	"warbler/internal/dbx"
	"warbler/internal/domain"
	"warbler/internal/repository"
)

// FollowCounts summarises a user's position in the follow graph.
type FollowCounts struct {
	Following int
	Followers int
}

// FollowService manages the directed follow graph.
type FollowService interface {
	Follow(ctx context.Context, followerID, followedID int64) error
	Unfollow(ctx context.Context, followerID, followedID int64) error
	// IsFollowing reports whether userID follows otherID.
	IsFollowing(ctx context.Context, userID, otherID int64) (bool, error)
	// IsFollowedBy reports whether otherID follows userID.
	IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error)
	Following(ctx context.Context, userID int64) ([]domain.User, error)
	Followers(ctx context.Context, userID int64) ([]domain.User, error)
	Counts(ctx context.Context, userID int64) (FollowCounts, error)
}

type followService struct {
	db    *sql.DB
	repos repository.Manager
}

func NewFollowService(db *sql.DB, repos repository.Manager) FollowService {
	return &followService{db: db, repos: repos}
}

func (s *followService) Follow(ctx context.Context, followerID, followedID int64) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.repos.Users(tx)
		for _, id := range []int64{followerID, followedID} {
			if _, err := users.GetByID(ctx, id); err != nil {
				return userErr(err)
			}
		}
		return s.repos.Follows(tx).Create(ctx, followerID, followedID)
	})
}

// Unfollow removes the edge; a missing edge is not an error.
func (s *followService) Unfollow(ctx context.Context, followerID, followedID int64) error {
	err := s.repos.Follows(s.db).Delete(ctx, followerID, followedID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

func (s *followService) IsFollowing(ctx context.Context, userID, otherID int64) (bool, error) {
	return s.repos.Follows(s.db).Exists(ctx, userID, otherID)
}

func (s *followService) IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error) {
	return s.repos.Follows(s.db).Exists(ctx, otherID, userID)
}

func (s *followService) Following(ctx context.Context, userID int64) ([]domain.User, error) {
	users, err := s.repos.Follows(s.db).ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeUsers(users), nil
}

func (s *followService) Followers(ctx context.Context, userID int64) ([]domain.User, error) {
	users, err := s.repos.Follows(s.db).ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeUsers(users), nil
}

func (s *followService) Counts(ctx context.Context, userID int64) (FollowCounts, error) {
	follows := s.repos.Follows(s.db)
	following, err := follows.CountFollowing(ctx, userID)
	if err != nil {
		return FollowCounts{}, err
	}
	followers, err := follows.CountFollowers(ctx, userID)
	if err != nil {
		return FollowCounts{}, err
	}
	return FollowCounts{Following: following, Followers: followers}, nil
}

func sanitizeUsers(users []domain.User) []domain.User {
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users
}
