package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"pulse/internal/auth"
	"pulse/internal/config"
	"pulse/internal/db"
	"pulse/internal/habit"
	httpx "pulse/internal/http"
	"pulse/internal/notification"
	"pulse/internal/realtime"
	"pulse/internal/scheduler"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("upload dir unavailable")
	}

	jwtSvc := auth.NewJWT(cfg.JWTSecret)
	hub := realtime.NewHub(log)

	r := httpx.NewRouter(httpx.Deps{
		Cfg: cfg,
		DB:  gdb,
		JWT: jwtSvc,
		Hub: hub,
		Log: log,
	})

	var sched *scheduler.Scheduler
	if cfg.OpenAIAPIKey != "" {
		sched = &scheduler.Scheduler{
			Users:     &auth.Service{DB: gdb, JWT: jwtSvc},
			Habits:    &habit.Service{DB: gdb},
			Generator: habit.NewOpenAISummarizer(cfg.OpenAIAPIKey),
			Notifier:  &notification.Service{DB: gdb},
			Log:       log,
		}
		sched.Start(cfg.SummaryHour)
		log.Info().Int("hour", cfg.SummaryHour).Msg("weekly summary job scheduled")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, weekly summary job disabled")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	if sched != nil {
		sched.Stop()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
