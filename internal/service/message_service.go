package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"unicode/utf8"

	"warbler/internal/dbx"
	"warbler/internal/domain"
	"warbler/internal/repository"
)

// TimelineLimit caps the home timeline.
const TimelineLimit = 100

// MessageService coordinates warble operations.
type MessageService interface {
	Create(ctx context.Context, userID int64, text string) (*domain.Message, error)
	Get(ctx context.Context, id int64) (*domain.Message, error)
	// Delete removes the message when requesterID owns it; otherwise ErrForbidden.
	Delete(ctx context.Context, requesterID, messageID int64) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Message, error)
	// CountByUser reports how many messages userID has written in total.
	CountByUser(ctx context.Context, userID int64) (int, error)
	Timeline(ctx context.Context, userID int64) ([]domain.Message, error)
}

type messageService struct {
	db    *sql.DB
	repos repository.Manager
}

func NewMessageService(db *sql.DB, repos repository.Manager) MessageService {
	return &messageService{db: db, repos: repos}
}

func (s *messageService) Create(ctx context.Context, userID int64, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n == 0 || n > domain.MaxMessageLength {
		return nil, ErrInvalidMessage
	}

	msg := &domain.Message{Text: text, UserID: userID}
	if _, err := s.repos.Messages(s.db).Create(ctx, msg); err != nil {
		if errors.Is(err, repository.ErrIntegrity) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return msg, nil
}

func (s *messageService) Get(ctx context.Context, id int64) (*domain.Message, error) {
	msg, err := s.repos.Messages(s.db).Get(ctx, id)
	if err != nil {
		return nil, messageErr(err)
	}
	sanitizeAuthor(msg)
	return msg, nil
}

func (s *messageService) Delete(ctx context.Context, requesterID, messageID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		messages := s.repos.Messages(tx)
		msg, err := messages.Get(ctx, messageID)
		if err != nil {
			return messageErr(err)
		}
		if msg.UserID != requesterID {
			return ErrForbidden
		}
		return messageErr(messages.Delete(ctx, messageID))
	})
}

func (s *messageService) ListByUser(ctx context.Context, userID int64, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = TimelineLimit
	}
	msgs, err := s.repos.Messages(s.db).ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return sanitizeMessages(msgs), nil
}

func (s *messageService) CountByUser(ctx context.Context, userID int64) (int, error) {
	return s.repos.Messages(s.db).CountByUser(ctx, userID)
}

func (s *messageService) Timeline(ctx context.Context, userID int64) ([]domain.Message, error) {
	msgs, err := s.repos.Messages(s.db).Timeline(ctx, userID, TimelineLimit)
	if err != nil {
		return nil, err
	}
	return sanitizeMessages(msgs), nil
}

func messageErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMessageNotFound
	}
	return err
}

func sanitizeAuthor(msg *domain.Message) {
	if msg.Author != nil {
		msg.Author = sanitizeUser(msg.Author)
	}
}

func sanitizeMessages(msgs []domain.Message) []domain.Message {
	for i := range msgs {
		sanitizeAuthor(&msgs[i])
	}
	return msgs
}
