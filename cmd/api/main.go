package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codearch/internal/analysis"
	"codearch/internal/config"
	"codearch/internal/llm"
	"codearch/internal/report"
	"codearch/internal/server"
	"codearch/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize model client: %v", err)
	}
	defer client.Close()

	st := store.NewFromEnv(cfg.DatabaseURL)
	defer st.Close()

	svc := analysis.New(client, st, report.NewFromConfig(cfg.Report), analysis.Options{
		CloneTimeout:   cfg.CloneTimeout,
		LLMTimeout:     cfg.LLMTimeout,
		CorpusMaxChars: cfg.CorpusMaxChars,
	})

	srv := server.New(cfg.Port, server.NewMux(server.NewHandler(svc)))

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
