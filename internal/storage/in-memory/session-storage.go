package in_memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"petcare-chat/internal/model"
)

// SessionStorage keeps all session state in process memory. Unlike the
// key-value backend it has no native expiry, so the app's janitor calls
// DeleteExpired periodically.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*model.Session
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[uuid.UUID]*model.Session),
	}
}

func (s *SessionStorage) CreateSession(_ context.Context) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := model.Session{
		SessionID:      uuid.New(),
		Messages:       make([]model.Message, 0),
		Memory:         make([]model.Turn, 0),
		LastActiveTime: time.Now(),
	}
	s.sessions[session.SessionID] = &session
	return copySession(&session), nil
}

func (s *SessionStorage) GetSession(_ context.Context, sessionID uuid.UUID) (model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return model.Session{}, model.ErrSessionDoesNotExist
	}
	return copySession(session), nil
}

func (s *SessionStorage) MarkFormSubmitted(_ context.Context, sessionID uuid.UUID, petInfo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return model.ErrSessionDoesNotExist
	}
	session.FormSubmitted = true
	session.PetInfo = petInfo
	session.LastActiveTime = time.Now()
	return nil
}

func (s *SessionStorage) AddMessage(
	_ context.Context,
	sessionID uuid.UUID,
	messageText string,
	messageSource model.MessageSource,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return model.ErrSessionDoesNotExist
	}
	session.Messages = append(
		session.Messages, model.Message{
			Source: messageSource,
			Body:   messageText,
		},
	)
	session.LastActiveTime = time.Now()
	return nil
}

func (s *SessionStorage) AddTurn(_ context.Context, sessionID uuid.UUID, turn model.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return model.ErrSessionDoesNotExist
	}
	session.Memory = append(session.Memory, turn)
	session.LastActiveTime = time.Now()
	return nil
}

// DeleteExpired drops sessions idle for longer than idleTimeout and
// returns how many were removed.
func (s *SessionStorage) DeleteExpired(_ context.Context, idleTimeout time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := time.Now().Add(-idleTimeout)
	removed := 0
	for sessionID, session := range s.sessions {
		if session.LastActiveTime.Before(deadline) {
			delete(s.sessions, sessionID)
			removed++
		}
	}
	return removed, nil
}

// copySession detaches the returned value from the stored one so callers
// never share slices with the map under the lock.
func copySession(session *model.Session) model.Session {
	out := *session
	out.Messages = append([]model.Message(nil), session.Messages...)
	out.Memory = append([]model.Turn(nil), session.Memory...)
	return out
}
