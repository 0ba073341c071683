package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"caloriecam/api/internal/config"
	"caloriecam/api/internal/handle"
	"caloriecam/api/internal/httpserver"
	"caloriecam/api/internal/store"
	"caloriecam/api/internal/vision"
	"caloriecam/api/internal/vision/gemini"
	"caloriecam/api/internal/vision/ollama"
)

func main() {
	cfg := config.Load()

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	} else if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	// --- Postgres ---
	dsn := cfg.ResolveDSN()
	if dsn == "" {
		log.Fatal("database DSN is empty: set DATABASE_URL or POSTGRES_* env vars")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("sql.Open: %v", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(1 * time.Hour)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("db.Ping: %v", err)
		}
	}

	repo := store.NewMealRepo(db)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.Init(ctx); err != nil {
			log.Fatalf("repo.Init: %v", err)
		}
	}

	// --- Engines ---
	engines := &vision.Engines{
		Gemini: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
	}
	if cfg.OllamaURL != "" {
		eng, err := ollama.New(cfg.OllamaURL, cfg.OllamaModel)
		if err != nil {
			log.Fatalf("ollama.New: %v", err)
		}
		engines.Ollama = eng
	}

	h := handle.New(engines, repo, cfg.ConfidenceThreshold)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /v1/estimate", h.Estimate)
	mux.HandleFunc("POST /v1/meals", h.SaveMeal)
	mux.HandleFunc("GET /v1/meals", h.ListMeals)
	mux.HandleFunc("GET /v1/meals/{id}", h.GetMeal)
	mux.HandleFunc("DELETE /v1/meals/{id}", h.DeleteMeal)
	mux.HandleFunc("GET /v1/meals/{id}/csv", h.MealCSV)

	addr := ":" + cfg.Port
	log.Fatal(httpserver.StartHTTP(addr, mux))
}
