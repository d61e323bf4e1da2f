package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"petcare-chat/internal/model"
)

type messageInternal struct {
	Source model.MessageSource `json:"source"`
	Body   string              `json:"body"`
}

type turnInternal struct {
	Human string `json:"human"`
	AI    string `json:"ai"`
}

type sessionInternal struct {
	SessionID      string            `json:"session_id"`
	FormSubmitted  bool              `json:"form_submitted"`
	PetInfo        string            `json:"pet_info"`
	Messages       []messageInternal `json:"messages"`
	Memory         []turnInternal    `json:"memory"`
	LastActiveTime time.Time         `json:"last_active_time"`
}

// SessionStorage keeps session state in Redis. Every write refreshes the
// key TTL, so idle sessions expire without a janitor.
type SessionStorage struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionStorage(rdb *redis.Client, ttl time.Duration) *SessionStorage {
	return &SessionStorage{
		rdb: rdb,
		ttl: ttl,
	}
}

func (s *SessionStorage) CreateSession(ctx context.Context) (model.Session, error) {
	sessionID := uuid.New()
	sessionInt := sessionInternal{
		SessionID:      sessionID.String(),
		Messages:       make([]messageInternal, 0),
		Memory:         make([]turnInternal, 0),
		LastActiveTime: time.Now(),
	}
	if err := s.setSessionInt(ctx, sessionID, sessionInt); err != nil {
		return model.Session{}, fmt.Errorf("failed to set session internal %s: %w", sessionID.String(), err)
	}
	return parseSessionInternal(sessionID, sessionInt), nil
}

func (s *SessionStorage) GetSession(ctx context.Context, sessionID uuid.UUID) (model.Session, error) {
	sessionInt, err := s.getSessionInt(ctx, sessionID)
	if err != nil {
		return model.Session{}, err
	}
	return parseSessionInternal(sessionID, sessionInt), nil
}

func (s *SessionStorage) MarkFormSubmitted(ctx context.Context, sessionID uuid.UUID, petInfo string) error {
	sessionInt, err := s.getSessionInt(ctx, sessionID)
	if err != nil {
		return err
	}
	sessionInt.FormSubmitted = true
	sessionInt.PetInfo = petInfo
	sessionInt.LastActiveTime = time.Now()
	if err = s.setSessionInt(ctx, sessionID, sessionInt); err != nil {
		return fmt.Errorf("failed to set internal session %s: %w", sessionID.String(), err)
	}
	return nil
}

func (s *SessionStorage) AddMessage(
	ctx context.Context,
	sessionID uuid.UUID,
	messageText string,
	messageSource model.MessageSource,
) error {
	sessionInt, err := s.getSessionInt(ctx, sessionID)
	if err != nil {
		return err
	}
	sessionInt.Messages = append(
		sessionInt.Messages, messageInternal{
			Source: messageSource,
			Body:   messageText,
		},
	)
	sessionInt.LastActiveTime = time.Now()
	if err = s.setSessionInt(ctx, sessionID, sessionInt); err != nil {
		return fmt.Errorf("failed to set internal session %s: %w", sessionID.String(), err)
	}
	return nil
}

func (s *SessionStorage) AddTurn(ctx context.Context, sessionID uuid.UUID, turn model.Turn) error {
	sessionInt, err := s.getSessionInt(ctx, sessionID)
	if err != nil {
		return err
	}
	sessionInt.Memory = append(
		sessionInt.Memory, turnInternal{
			Human: turn.Human,
			AI:    turn.AI,
		},
	)
	sessionInt.LastActiveTime = time.Now()
	if err = s.setSessionInt(ctx, sessionID, sessionInt); err != nil {
		return fmt.Errorf("failed to set internal session %s: %w", sessionID.String(), err)
	}
	return nil
}

// DeleteExpired is a no-op for this backend: the key TTL set on every
// write already expires idle sessions.
func (s *SessionStorage) DeleteExpired(context.Context, time.Duration) (int, error) {
	return 0, nil
}

func (s *SessionStorage) getSessionInt(ctx context.Context, sessionID uuid.UUID) (sessionInternal, error) {
	sessionIDKey := getSessionIDKey(sessionID)
	sessionIntRaw, err := s.rdb.Get(ctx, sessionIDKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sessionInternal{}, model.ErrSessionDoesNotExist
		}
		return sessionInternal{}, fmt.Errorf("failed to get session %s: %w", sessionID, err)
	}
	var sessionInt sessionInternal
	if err = json.Unmarshal([]byte(sessionIntRaw), &sessionInt); err != nil {
		return sessionInternal{}, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return sessionInt, nil
}

func (s *SessionStorage) setSessionInt(ctx context.Context, sessionID uuid.UUID, sessionInt sessionInternal) error {
	sessionIDKey := getSessionIDKey(sessionID)
	sessionIntJSON, err := json.Marshal(sessionInt)
	if err != nil {
		return fmt.Errorf("failed to marshal internal session: %w", err)
	}
	if err = s.rdb.Set(ctx, sessionIDKey, sessionIntJSON, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save sessionInternal %s: %w", sessionIDKey, err)
	}
	return nil
}

func parseSessionInternal(sessionID uuid.UUID, sessionInt sessionInternal) model.Session {
	messages := make([]model.Message, 0, len(sessionInt.Messages))
	for _, msg := range sessionInt.Messages {
		messages = append(
			messages, model.Message{
				Source: msg.Source,
				Body:   msg.Body,
			},
		)
	}
	memory := make([]model.Turn, 0, len(sessionInt.Memory))
	for _, turn := range sessionInt.Memory {
		memory = append(
			memory, model.Turn{
				Human: turn.Human,
				AI:    turn.AI,
			},
		)
	}
	return model.Session{
		SessionID:      sessionID,
		FormSubmitted:  sessionInt.FormSubmitted,
		PetInfo:        sessionInt.PetInfo,
		Messages:       messages,
		Memory:         memory,
		LastActiveTime: sessionInt.LastActiveTime,
	}
}

func getSessionIDKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("session_%v", sessionID.String())
}
