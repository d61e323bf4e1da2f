package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-chat/config"
	"petcare-chat/internal/model"
	in_memory "petcare-chat/internal/storage/in-memory"
	"petcare-chat/internal/usecase"
)

// fakeModel records what it was invoked with and replies from a script.
type fakeModel struct {
	calls []fakeModelCall
	reply func(humanInput string) (string, error)
}

type fakeModelCall struct {
	petInfo    string
	memory     []model.Turn
	humanInput string
}

func (f *fakeModel) SendMessage(
	_ context.Context,
	petInfo string,
	memory []model.Turn,
	humanInput string,
) (string, error) {
	f.calls = append(
		f.calls, fakeModelCall{
			petInfo:    petInfo,
			memory:     memory,
			humanInput: humanInput,
		},
	)
	if f.reply != nil {
		return f.reply(humanInput)
	}
	return "echo: " + humanInput, nil
}

func newChatFixture(t *testing.T, fake *fakeModel) (*usecase.ChatUsecase, *usecase.SessionUsecase, uuid.UUID) {
	t.Helper()
	sessionUsecase := usecase.NewSessionUsecase(
		usecase.SessionUsecaseDeps{
			SessionStorage: in_memory.NewSessionStorage(),
		}, config.Session{},
	)
	chatUsecase := usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			Session: sessionUsecase,
			Model:   fake,
		},
	)
	intakeUsecase := usecase.NewIntakeUsecase(
		usecase.IntakeUsecaseDeps{
			Session: sessionUsecase,
		},
	)

	session, err := sessionUsecase.GetOrCreateSession(context.Background(), uuid.Nil)
	require.NoError(t, err)
	err = intakeUsecase.Submit(
		context.Background(), session.SessionID, usecase.IntakeForm{
			Species:       "Cat",
			SelectedBreed: "Ragdoll",
			Age:           "1",
		},
	)
	require.NoError(t, err)
	return chatUsecase, sessionUsecase, session.SessionID
}

func TestChat_FirstTurnSeesProfileAndEmptyMemory(t *testing.T) {
	fake := &fakeModel{}
	chat, _, sessionID := newChatFixture(t, fake)

	answer, err := chat.SendMessage(context.Background(), sessionID, "suggest a diet")
	require.NoError(t, err)
	assert.Equal(t, "echo: suggest a diet", answer)

	require.Len(t, fake.calls, 1)
	assert.Contains(t, fake.calls[0].petInfo, "Species: Cat")
	assert.Contains(t, fake.calls[0].petInfo, "Breed: Ragdoll")
	assert.Contains(t, fake.calls[0].petInfo, "Age: 1")
	assert.Empty(t, fake.calls[0].memory)
	assert.Equal(t, "suggest a diet", fake.calls[0].humanInput)
}

func TestChat_MessageOrderPreservedAcrossTurns(t *testing.T) {
	fake := &fakeModel{}
	chat, sessions, sessionID := newChatFixture(t, fake)
	ctx := context.Background()

	inputs := []string{"first question", "second question", "third question"}
	for _, input := range inputs {
		_, err := chat.SendMessage(ctx, sessionID, input)
		require.NoError(t, err)
	}

	session, err := sessions.GetSession(ctx, sessionID)
	require.NoError(t, err)

	// Welcome message, then a user/assistant pair per turn.
	require.Len(t, session.Messages, 1+2*len(inputs))
	for i, input := range inputs {
		userMsg := session.Messages[1+2*i]
		assistantMsg := session.Messages[2+2*i]
		assert.Equal(t, model.MessageSourceUser, userMsg.Source)
		assert.Equal(t, input, userMsg.Body)
		assert.Equal(t, model.MessageSourceAssistant, assistantMsg.Source)
		assert.Equal(t, "echo: "+input, assistantMsg.Body)
	}

	// Each call saw exactly the turns completed before it.
	require.Len(t, fake.calls, len(inputs))
	for i, call := range fake.calls {
		assert.Len(t, call.memory, i)
	}
	assert.Equal(
		t, model.Turn{
			Human: "first question",
			AI:    "echo: first question",
		}, fake.calls[2].memory[0],
	)
}

func TestChat_ModelFailureKeepsUserMessage(t *testing.T) {
	fake := &fakeModel{
		reply: func(string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	chat, sessions, sessionID := newChatFixture(t, fake)
	ctx := context.Background()

	_, err := chat.SendMessage(ctx, sessionID, "suggest a diet")
	require.Error(t, err)

	session, err := sessions.GetSession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, model.MessageSourceUser, session.Messages[1].Source)
	assert.Equal(t, "suggest a diet", session.Messages[1].Body)
	assert.Empty(t, session.Memory)
}

func TestChat_FailedTurnIsNotResentInMemory(t *testing.T) {
	failNext := true
	fake := &fakeModel{
		reply: func(input string) (string, error) {
			if failNext {
				failNext = false
				return "", errors.New("network error")
			}
			return fmt.Sprintf("echo: %s", input), nil
		},
	}
	chat, _, sessionID := newChatFixture(t, fake)
	ctx := context.Background()

	_, err := chat.SendMessage(ctx, sessionID, "first try")
	require.Error(t, err)

	_, err = chat.SendMessage(ctx, sessionID, "second try")
	require.NoError(t, err)

	// The failed turn never made it into memory.
	require.Len(t, fake.calls, 2)
	assert.Empty(t, fake.calls[1].memory)
}

func TestChat_RejectedBeforeIntake(t *testing.T) {
	sessionUsecase := usecase.NewSessionUsecase(
		usecase.SessionUsecaseDeps{
			SessionStorage: in_memory.NewSessionStorage(),
		}, config.Session{},
	)
	chat := usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			Session: sessionUsecase,
			Model:   &fakeModel{},
		},
	)
	session, err := sessionUsecase.GetOrCreateSession(context.Background(), uuid.Nil)
	require.NoError(t, err)

	_, err = chat.SendMessage(context.Background(), session.SessionID, "hello")
	require.ErrorIs(t, err, usecase.ErrIntakeNotCompleted)

	got, err := sessionUsecase.GetSession(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Empty(t, got.Messages)
}
