package server

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"petcare-chat/internal/model"
	"petcare-chat/internal/usecase"
	"petcare-chat/pkg/local"
)

//go:embed templates/*.html
var templatesFS embed.FS

const sessionCookieName = "session_id"

var (
	WarningIntakeIncomplete = local.NewSet("Please provide species, breed, and age.")
	WarningModelFailed      = local.NewSet("Something went wrong while generating a reply. Your message was kept, try again in a moment.")
	TitleIntakeForm         = local.NewSet("Tell me about your pet")
	TitleChat               = local.NewSet("Personalized Pet Care Chat")
)

type Deps struct {
	Session *usecase.SessionUsecase
	Intake  *usecase.IntakeUsecase
	Chat    *usecase.ChatUsecase
}

type Server struct {
	Deps
	templates *template.Template
	language  local.Language
}

func NewServer(deps Deps) (*Server, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		Deps:      deps,
		templates: templates,
		language:  local.Eng,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/", s.handleIndex)
	r.Post("/intake", s.handleIntake)
	r.Post("/chat", s.handleChat)

	return r
}

type formView struct {
	Title          string
	Warning        string
	Placeholder    string
	SpeciesOptions []model.Species
	DogBreeds      []string
	CatBreeds      []string
	Form           usecase.IntakeForm
}

type chatView struct {
	Title    string
	Warning  string
	PetInfo  string
	Messages []model.Message
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	session, err := s.resolveSession(w, r)
	if err != nil {
		s.internalError(w, "failed to resolve session", err)
		return
	}
	if !session.FormSubmitted {
		s.renderForm(w, "", usecase.IntakeForm{})
		return
	}
	s.renderChat(w, session, "")
}

func (s *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	session, err := s.resolveSession(w, r)
	if err != nil {
		s.internalError(w, "failed to resolve session", err)
		return
	}

	form := parseIntakeForm(r)
	err = s.Intake.Submit(r.Context(), session.SessionID, form)
	switch {
	case err == nil, errors.Is(err, usecase.ErrFormAlreadySubmitted):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, usecase.ErrIntakeIncomplete):
		s.renderForm(w, WarningIntakeIncomplete.Text(s.language), form)
	default:
		s.internalError(w, "failed to submit intake form", err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	session, err := s.resolveSession(w, r)
	if err != nil {
		s.internalError(w, "failed to resolve session", err)
		return
	}

	messageText := strings.TrimSpace(r.FormValue("message"))
	if messageText == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	_, err = s.Chat.SendMessage(r.Context(), session.SessionID, messageText)
	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, usecase.ErrIntakeNotCompleted):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		// The user message is already in the transcript; the turn stays
		// incomplete and the user can resend.
		log.Printf("failed to handle chat turn: %v", err)
		session, err = s.Session.GetSession(r.Context(), session.SessionID)
		if err != nil {
			s.internalError(w, "failed to get session", err)
			return
		}
		s.renderChat(w, session, WarningModelFailed.Text(s.language))
	}
}

// resolveSession reads the session cookie and loads the session behind
// it, issuing a fresh session (and cookie) when there is none or the ID
// has expired.
func (s *Server) resolveSession(w http.ResponseWriter, r *http.Request) (model.Session, error) {
	sessionID := uuid.Nil
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if parsed, err := uuid.Parse(cookie.Value); err == nil {
			sessionID = parsed
		}
	}

	session, err := s.Session.GetOrCreateSession(r.Context(), sessionID)
	if err != nil {
		return model.Session{}, err
	}
	if session.SessionID != sessionID {
		http.SetCookie(
			w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    session.SessionID.String(),
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			},
		)
	}
	return session, nil
}

func parseIntakeForm(r *http.Request) usecase.IntakeForm {
	species := r.FormValue("species")
	selectedBreed := ""
	switch model.Species(species) {
	case model.SpeciesDog:
		selectedBreed = r.FormValue("dog_breed")
	case model.SpeciesCat:
		selectedBreed = r.FormValue("cat_breed")
	}
	return usecase.IntakeForm{
		Name:          strings.TrimSpace(r.FormValue("name")),
		Species:       species,
		SelectedBreed: selectedBreed,
		TypedBreed:    strings.TrimSpace(r.FormValue("typed_breed")),
		FreeTextBreed: strings.TrimSpace(r.FormValue("free_breed")),
		Age:           strings.TrimSpace(r.FormValue("age")),
		Behavior:      strings.TrimSpace(r.FormValue("behavior")),
		Diet:          strings.TrimSpace(r.FormValue("diet")),
		Exercise:      strings.TrimSpace(r.FormValue("exercise")),
	}
}

func (s *Server) renderForm(w http.ResponseWriter, warning string, form usecase.IntakeForm) {
	s.render(
		w, "form.html", formView{
			Title:          TitleIntakeForm.Text(s.language),
			Warning:        warning,
			Placeholder:    model.PlaceholderOption,
			SpeciesOptions: model.SpeciesOptions,
			DogBreeds:      model.DogBreeds,
			CatBreeds:      model.CatBreeds,
			Form:           form,
		},
	)
}

func (s *Server) renderChat(w http.ResponseWriter, session model.Session, warning string) {
	s.render(
		w, "chat.html", chatView{
			Title:    TitleChat.Text(s.language),
			Warning:  warning,
			PetInfo:  session.PetInfo,
			Messages: session.Messages,
		},
	)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("failed to render %s: %v", name, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	log.Printf("%s: %v", msg, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
