package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"petcare-chat/config"
	"petcare-chat/internal/model"
)

type SessionStorage interface {
	CreateSession(ctx context.Context) (model.Session, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error)
	MarkFormSubmitted(ctx context.Context, sessionID uuid.UUID, petInfo string) error
	AddMessage(ctx context.Context, sessionID uuid.UUID, messageText string, messageSource model.MessageSource) error
	AddTurn(ctx context.Context, sessionID uuid.UUID, turn model.Turn) error
	DeleteExpired(ctx context.Context, idleTimeout time.Duration) (int, error)
}

type SessionUsecaseDeps struct {
	SessionStorage SessionStorage
}

type SessionUsecase struct {
	SessionUsecaseDeps
	cfg config.Session
}

func NewSessionUsecase(deps SessionUsecaseDeps, cfg config.Session) *SessionUsecase {
	return &SessionUsecase{
		SessionUsecaseDeps: deps,
		cfg:                cfg,
	}
}

// GetOrCreateSession resolves the caller's session, starting a fresh one
// when the ID is nil or no longer known (expired, or a stale cookie).
func (s *SessionUsecase) GetOrCreateSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	if sessionID != uuid.Nil {
		session, err := s.SessionStorage.GetSession(ctx, sessionID)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, model.ErrSessionDoesNotExist) {
			return model.Session{}, fmt.Errorf("failed to get session: %w", err)
		}
	}
	session, err := s.SessionStorage.CreateSession(ctx)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *SessionUsecase) GetSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	return s.SessionStorage.GetSession(ctx, sessionID)
}

func (s *SessionUsecase) MarkFormSubmitted(ctx context.Context, sessionID uuid.UUID, petInfo string) error {
	return s.SessionStorage.MarkFormSubmitted(ctx, sessionID, petInfo)
}

func (s *SessionUsecase) AddMessage(
	ctx context.Context,
	sessionID uuid.UUID,
	messageText string,
	messageSource model.MessageSource,
) error {
	return s.SessionStorage.AddMessage(ctx, sessionID, messageText, messageSource)
}

func (s *SessionUsecase) AddTurn(ctx context.Context, sessionID uuid.UUID, turn model.Turn) error {
	return s.SessionStorage.AddTurn(ctx, sessionID, turn)
}

// RunJanitor drops sessions idle for longer than the configured timeout.
// Blocks until ctx is cancelled. The key-value backend expires keys on
// its own and reports nothing to remove.
func (s *SessionUsecase) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.SessionStorage.DeleteExpired(ctx, s.cfg.IdleTimeout)
			if err != nil {
				log.Printf("failed to delete expired sessions: %v", err)
				continue
			}
			if removed > 0 {
				log.Printf("removed %d expired sessions", removed)
			}
		}
	}
}
