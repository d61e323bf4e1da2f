package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"petcare-chat/config"
	"petcare-chat/internal/model"
	in_memory "petcare-chat/internal/storage/in-memory"
	"petcare-chat/internal/usecase"
)

func newIntakeFixture(t *testing.T) (*usecase.IntakeUsecase, *usecase.SessionUsecase, model.Session) {
	t.Helper()
	sessionUsecase := usecase.NewSessionUsecase(
		usecase.SessionUsecaseDeps{
			SessionStorage: in_memory.NewSessionStorage(),
		}, config.Session{},
	)
	intakeUsecase := usecase.NewIntakeUsecase(
		usecase.IntakeUsecaseDeps{
			Session: sessionUsecase,
		},
	)
	session, err := sessionUsecase.GetOrCreateSession(context.Background(), uuid.Nil)
	require.NoError(t, err)
	return intakeUsecase, sessionUsecase, session
}

func TestIntake_SelectedBreedAccepted(t *testing.T) {
	intake, sessions, session := newIntakeFixture(t)
	ctx := context.Background()

	form := usecase.IntakeForm{
		Species:       "Dog",
		SelectedBreed: "Beagle",
		Age:           "3",
	}
	require.NoError(t, intake.Submit(ctx, session.SessionID, form))

	got, err := sessions.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.True(t, got.FormSubmitted)
	assert.Contains(t, got.PetInfo, "Breed: Beagle")
}

func TestIntake_TypedBreedUsedWhenOtherSelected(t *testing.T) {
	intake, sessions, session := newIntakeFixture(t)
	ctx := context.Background()

	form := usecase.IntakeForm{
		Species:       "Dog",
		SelectedBreed: "Other",
		TypedBreed:    "Catahoula Leopard Dog",
		Age:           "5",
	}
	require.NoError(t, intake.Submit(ctx, session.SessionID, form))

	got, err := sessions.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Contains(t, got.PetInfo, "Breed: Catahoula Leopard Dog")
}

func TestIntake_PlaceholderSpeciesRejected(t *testing.T) {
	intake, sessions, session := newIntakeFixture(t)
	ctx := context.Background()

	form := usecase.IntakeForm{
		Species: model.PlaceholderOption,
		Age:     "2",
	}
	err := intake.Submit(ctx, session.SessionID, form)
	require.ErrorIs(t, err, usecase.ErrIntakeIncomplete)

	got, err := sessions.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.False(t, got.FormSubmitted)
	assert.Empty(t, got.Messages)
}

func TestIntake_ValidationCases(t *testing.T) {
	intake, _, _ := newIntakeFixture(t)

	cases := []struct {
		name    string
		form    usecase.IntakeForm
		wantErr bool
	}{
		{
			name:    "empty form",
			form:    usecase.IntakeForm{},
			wantErr: true,
		},
		{
			name: "placeholder breed",
			form: usecase.IntakeForm{
				Species:       "Cat",
				SelectedBreed: model.PlaceholderOption,
				Age:           "1",
			},
			wantErr: true,
		},
		{
			name: "other selected but breed not typed",
			form: usecase.IntakeForm{
				Species:       "Cat",
				SelectedBreed: "Other",
				Age:           "1",
			},
			wantErr: true,
		},
		{
			name: "missing age",
			form: usecase.IntakeForm{
				Species:       "Dog",
				SelectedBreed: "Poodle",
			},
			wantErr: true,
		},
		{
			name: "free text species needs breed",
			form: usecase.IntakeForm{
				Species: "Bird",
				Age:     "2",
			},
			wantErr: true,
		},
		{
			name: "free text breed accepted",
			form: usecase.IntakeForm{
				Species:       "Rabbit",
				FreeTextBreed: "Holland Lop",
				Age:           "2",
			},
			wantErr: false,
		},
		{
			name: "name and notes stay optional",
			form: usecase.IntakeForm{
				Species:       "Cat",
				SelectedBreed: "Ragdoll",
				Age:           "1",
			},
			wantErr: false,
		},
	}

	for _, tc := range cases {
		t.Run(
			tc.name, func(t *testing.T) {
				err := intake.Validate(tc.form)
				if tc.wantErr {
					assert.ErrorIs(t, err, usecase.ErrIntakeIncomplete)
				} else {
					assert.NoError(t, err)
				}
			},
		)
	}
}

func TestIntake_SubmitAppendsSingleWelcomeMessage(t *testing.T) {
	intake, sessions, session := newIntakeFixture(t)
	ctx := context.Background()

	form := usecase.IntakeForm{
		Species:       "Cat",
		SelectedBreed: "Ragdoll",
		Age:           "1",
	}
	require.NoError(t, intake.Submit(ctx, session.SessionID, form))

	got, err := sessions.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, model.MessageSourceAssistant, got.Messages[0].Source)
	assert.Equal(t, usecase.WelcomeMessage, got.Messages[0].Body)
	// Memory only records model invocations; the welcome is display-only.
	assert.Empty(t, got.Memory)
}

func TestIntake_SecondSubmitIsRejected(t *testing.T) {
	intake, sessions, session := newIntakeFixture(t)
	ctx := context.Background()

	form := usecase.IntakeForm{
		Species:       "Dog",
		SelectedBreed: "Beagle",
		Age:           "3",
	}
	require.NoError(t, intake.Submit(ctx, session.SessionID, form))

	form.Age = "4"
	err := intake.Submit(ctx, session.SessionID, form)
	require.ErrorIs(t, err, usecase.ErrFormAlreadySubmitted)

	got, err := sessions.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Contains(t, got.PetInfo, "Age: 3")
	assert.Len(t, got.Messages, 1)
}

func TestIntake_ProfileSerializationOrder(t *testing.T) {
	intake, sessions, session := newIntakeFixture(t)
	ctx := context.Background()

	form := usecase.IntakeForm{
		Name:          "Milo",
		Species:       "Dog",
		SelectedBreed: "Beagle",
		Age:           "3",
		Behavior:      "barks at night",
		Diet:          "kibble",
		Exercise:      "two walks",
	}
	require.NoError(t, intake.Submit(ctx, session.SessionID, form))

	got, err := sessions.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	want := "Name: Milo\nSpecies: Dog\nBreed: Beagle\nAge: 3\n" +
		"Behavior/Concerns: barks at night\nDiet: kibble\nExercise: two walks"
	assert.Equal(t, want, got.PetInfo)
}
