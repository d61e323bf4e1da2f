package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"petcare-chat/internal/model"
)

var (
	ErrIntakeIncomplete     = errors.New("species, breed and age are required")
	ErrFormAlreadySubmitted = errors.New("intake form already submitted")
)

// WelcomeMessage is the synthetic assistant message appended right after
// a successful intake. It shows in the chat view but is not part of the
// conversation memory sent to the model.
const WelcomeMessage = "Thanks! What recommendations do you want — diet, exercise, or wellness tips?"

// IntakeForm carries the raw form fields as posted. SelectedBreed and
// TypedBreed belong to the dog/cat selector path, FreeTextBreed to the
// other species.
type IntakeForm struct {
	Name          string
	Species       string
	SelectedBreed string
	TypedBreed    string
	FreeTextBreed string
	Age           string
	Behavior      string
	Diet          string
	Exercise      string
}

// ResolveBreed picks the effective breed value out of the three breed
// inputs, depending on the species path taken.
func (f IntakeForm) ResolveBreed() string {
	if model.Species(f.Species).HasBreedList() {
		if f.SelectedBreed == model.BreedOther {
			return f.TypedBreed
		}
		return f.SelectedBreed
	}
	return f.FreeTextBreed
}

type IntakeUsecaseDeps struct {
	Session *SessionUsecase
}

type IntakeUsecase struct {
	IntakeUsecaseDeps
}

func NewIntakeUsecase(deps IntakeUsecaseDeps) *IntakeUsecase {
	return &IntakeUsecase{
		IntakeUsecaseDeps: deps,
	}
}

// Validate applies the presence checks: species concrete, breed concrete
// and non-empty, age non-empty. Name, behavior, diet and exercise stay
// optional.
func (i *IntakeUsecase) Validate(form IntakeForm) error {
	if form.Species == "" || form.Species == model.PlaceholderOption {
		return ErrIntakeIncomplete
	}
	breed := form.ResolveBreed()
	if breed == "" || breed == model.PlaceholderOption {
		return ErrIntakeIncomplete
	}
	if form.Age == "" {
		return ErrIntakeIncomplete
	}
	return nil
}

// Submit freezes a valid form into the session: serialized profile
// stored, form marked submitted, one welcome message appended. A session
// that already submitted gets ErrFormAlreadySubmitted and stays
// untouched; the form is one-shot per session.
func (i *IntakeUsecase) Submit(ctx context.Context, sessionID uuid.UUID, form IntakeForm) error {
	session, err := i.Session.GetSession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session.FormSubmitted {
		return ErrFormAlreadySubmitted
	}
	if err = i.Validate(form); err != nil {
		return err
	}

	profile := model.PetProfile{
		Name:     form.Name,
		Species:  model.Species(form.Species),
		Breed:    form.ResolveBreed(),
		Age:      form.Age,
		Behavior: form.Behavior,
		Diet:     form.Diet,
		Exercise: form.Exercise,
	}
	if err = i.Session.MarkFormSubmitted(ctx, sessionID, profile.Serialize()); err != nil {
		return fmt.Errorf("failed to mark form submitted: %w", err)
	}
	if err = i.Session.AddMessage(ctx, sessionID, WelcomeMessage, model.MessageSourceAssistant); err != nil {
		return fmt.Errorf("failed to add welcome message: %w", err)
	}
	return nil
}
