package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"petcare-chat/internal/model"
)

var (
	ErrIntakeNotCompleted = errors.New("intake form not completed yet")
)

// ModelClient is the single operation the chat flow needs from the
// hosted model: fill the prompt with the frozen profile, the prior
// turns and the new request, and return the generated text.
type ModelClient interface {
	SendMessage(ctx context.Context, petInfo string, memory []model.Turn, humanInput string) (string, error)
}

type ChatUsecaseDeps struct {
	Session *SessionUsecase
	Model   ModelClient
}

type ChatUsecase struct {
	ChatUsecaseDeps
}

func NewChatUsecase(deps ChatUsecaseDeps) *ChatUsecase {
	return &ChatUsecase{
		ChatUsecaseDeps: deps,
	}
}

// SendMessage runs one chat turn. The user message is appended to the
// session before the model is invoked, so a failed invocation leaves the
// message visible in the transcript with no assistant reply after it.
func (c *ChatUsecase) SendMessage(ctx context.Context, sessionID uuid.UUID, messageText string) (string, error) {
	session, err := c.Session.GetSession(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	if !session.FormSubmitted {
		return "", ErrIntakeNotCompleted
	}

	if err = c.Session.AddMessage(ctx, sessionID, messageText, model.MessageSourceUser); err != nil {
		return "", fmt.Errorf("failed to add message to session: %w", err)
	}

	answer, err := c.Model.SendMessage(ctx, session.PetInfo, session.Memory, messageText)
	if err != nil {
		return "", fmt.Errorf("failed to send message to model: %w", err)
	}

	if err = c.Session.AddMessage(ctx, sessionID, answer, model.MessageSourceAssistant); err != nil {
		return "", fmt.Errorf("failed to add answer to session: %w", err)
	}
	if err = c.Session.AddTurn(
		ctx, sessionID, model.Turn{
			Human: messageText,
			AI:    answer,
		},
	); err != nil {
		return "", fmt.Errorf("failed to add turn to session: %w", err)
	}
	return answer, nil
}
