package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rubisha/heartsite/internal/best"
	"github.com/rubisha/heartsite/internal/config"
	"github.com/rubisha/heartsite/internal/db"
	"github.com/rubisha/heartsite/internal/httpserver"
	"github.com/rubisha/heartsite/internal/page"
	"github.com/rubisha/heartsite/internal/quiz"
	"github.com/rubisha/heartsite/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if !cfg.Production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	questions, err := quiz.LoadBank(cfg.QuizFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load quiz questions")
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("failed to open database")
	}
	defer conn.Close()

	players := session.NewMemoryStore()
	defer players.Close()

	srv, err := httpserver.New(httpserver.Options{
		Players:      players,
		Best:         best.NewSQLStore(conn),
		Questions:    questions,
		Page:         page.Default(),
		Rules:        cfg.Rules,
		JWTSecret:    cfg.JWTSecret,
		CookieName:   cfg.CookieName,
		ClientOrigin: cfg.ClientOrigin,
		Secure:       cfg.Production,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go srv.RunSweeper(ctx, cfg.SessionTTL)

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("port", cfg.Port).Int("questions", len(questions)).Msg("starting heartsite")
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}
