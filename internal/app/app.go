package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc"

	"petcare-chat/config"
	"petcare-chat/internal/server"
	in_memory "petcare-chat/internal/storage/in-memory"
	key_value "petcare-chat/internal/storage/key-value"
	"petcare-chat/internal/usecase"
)

const (
	janitorInterval = time.Minute
	shutdownTimeout = 10 * time.Second
)

func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	openAIUsecase, err := usecase.NewOpenAIUsecase(cfg.OpenAI, cfg.Chat)
	if err != nil {
		return fmt.Errorf("failed to create openai usecase: %w", err)
	}

	var sessionStorage usecase.SessionStorage
	switch cfg.Session.Backend {
	case "redis":
		rdb := redis.NewClient(
			&redis.Options{
				Addr: cfg.Session.RedisEndpoint,
			},
		)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err = rdb.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis at %s: %w", cfg.Session.RedisEndpoint, err)
		}
		sessionStorage = key_value.NewSessionStorage(rdb, cfg.Session.IdleTimeout)
		log.Printf("using redis session storage at %s", cfg.Session.RedisEndpoint)
	default:
		sessionStorage = in_memory.NewSessionStorage()
		log.Print("using in-memory session storage")
	}

	sessionUsecase := usecase.NewSessionUsecase(
		usecase.SessionUsecaseDeps{
			SessionStorage: sessionStorage,
		}, cfg.Session,
	)

	intakeUsecase := usecase.NewIntakeUsecase(
		usecase.IntakeUsecaseDeps{
			Session: sessionUsecase,
		},
	)

	chatUsecase := usecase.NewChatUsecase(
		usecase.ChatUsecaseDeps{
			Session: sessionUsecase,
			Model:   openAIUsecase,
		},
	)

	srv, err := server.NewServer(
		server.Deps{
			Session: sessionUsecase,
			Intake:  intakeUsecase,
			Chat:    chatUsecase,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	wg := conc.NewWaitGroup()
	wg.Go(
		func() {
			log.Printf("starting server on %s", cfg.HTTP.Address)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("server error: %v", err)
				stop()
			}
		},
	)
	wg.Go(
		func() {
			sessionUsecase.RunJanitor(ctx, janitorInterval)
		},
	)
	wg.Go(
		func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Printf("failed to shut down server: %v", err)
			}
		},
	)
	wg.Wait()
	return nil
}
