package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpadapter "dossier/internal/adapters/http"
	pg "dossier/internal/adapters/postgres"
	"dossier/internal/adapters/storage"
	"dossier/internal/adapters/tika"
	"dossier/internal/config"
	"dossier/internal/ports"
	"dossier/internal/scrutiny"
	evalsvc "dossier/internal/services/evaluation"
	ingestsvc "dossier/internal/services/ingest"
	"dossier/internal/workers/dprrunner"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Warn("config incomplete", zap.Error(err))
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.AIAPIKey == "" {
		log.Fatal("AI_API_KEY is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := pg.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db connect error", zap.Error(err))
	}
	defer db.Close()

	files, err := storage.NewDisk(cfg.StorageDir)
	if err != nil {
		log.Fatal("storage init error", zap.Error(err))
	}

	model, err := scrutiny.NewChatModel(scrutiny.ChatModelConfig{
		APIKey:  cfg.AIAPIKey,
		BaseURL: cfg.AIBaseURL,
		Model:   cfg.AIModel,
	})
	if err != nil {
		log.Fatal("chat model init error", zap.Error(err))
	}

	// Wire the repository to the port it serves.
	var jobs ports.JobRepository = db

	extractor := tika.NewClient(cfg.TikaURL)
	guardrail := scrutiny.NewGuardrail(model, log, cfg.MaxInputLen)
	processor := dprrunner.NewProcessor(jobs, files, extractor, guardrail, log)

	ingest := ingestsvc.New(jobs, files)
	evaluation := evalsvc.New(jobs, guardrail)

	srv := httpadapter.New(ingest, evaluation, log)
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	if cfg.Workers > 0 {
		dprrunner.Run(ctx, jobs, processor, cfg.Workers, time.Duration(cfg.PollInterval)*time.Millisecond, log)
		log.Info("dpr workers started", zap.Int("workers", cfg.Workers))
	}

	errCh := make(chan error, 1)
	go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
	log.Info("listening", zap.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		cancel()
		time.Sleep(300 * time.Millisecond)
	case err := <-errCh:
		log.Fatal("server error", zap.Error(err))
	}
}
