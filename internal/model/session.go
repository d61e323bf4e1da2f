package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionDoesNotExist = errors.New("session does not exist")
)

// Session is the whole per-browser-session state: intake status, the
// frozen pet profile, the displayed message list and the conversation
// memory sent to the model.
type Session struct {
	SessionID      uuid.UUID
	FormSubmitted  bool
	PetInfo        string
	Messages       []Message
	Memory         []Turn
	LastActiveTime time.Time
}
