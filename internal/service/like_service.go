package service

import (
	"context"
	"database/sql"
	"errors"

	"warbler/internal/dbx"
	"warbler/internal/domain"
	"warbler/internal/repository"
)

// LikeService manages likes between users and messages.
type LikeService interface {
	// Toggle likes messageID for userID, or removes the like when it exists.
	// It reports whether the message is liked afterwards.
	Toggle(ctx context.Context, userID, messageID int64) (bool, error)
	IsLiked(ctx context.Context, userID, messageID int64) (bool, error)
	Count(ctx context.Context, messageID int64) (int, error)
	LikedMessages(ctx context.Context, userID int64) ([]domain.Message, error)
	LikedIDs(ctx context.Context, userID int64) ([]int64, error)
}

type likeService struct {
	db    *sql.DB
	repos repository.Manager
}

func NewLikeService(db *sql.DB, repos repository.Manager) LikeService {
	return &likeService{db: db, repos: repos}
}

func (s *likeService) Toggle(ctx context.Context, userID, messageID int64) (bool, error) {
	var liked bool
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Messages(tx).Get(ctx, messageID); err != nil {
			return messageErr(err)
		}

		likes := s.repos.Likes(tx)
		exists, err := likes.Exists(ctx, userID, messageID)
		if err != nil {
			return err
		}
		if exists {
			// A concurrent unlike may already have removed the edge.
			if err := likes.Delete(ctx, userID, messageID); err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			return nil
		}
		if err := likes.Create(ctx, userID, messageID); err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (s *likeService) IsLiked(ctx context.Context, userID, messageID int64) (bool, error) {
	return s.repos.Likes(s.db).Exists(ctx, userID, messageID)
}

func (s *likeService) Count(ctx context.Context, messageID int64) (int, error) {
	return s.repos.Likes(s.db).CountForMessage(ctx, messageID)
}

func (s *likeService) LikedMessages(ctx context.Context, userID int64) ([]domain.Message, error) {
	msgs, err := s.repos.Messages(s.db).ListLikedBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeMessages(msgs), nil
}

func (s *likeService) LikedIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.repos.Likes(s.db).ListMessageIDsByUser(ctx, userID)
}
