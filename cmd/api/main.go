package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lovelingo/waitlist-api/internal/infra/database"
	"github.com/lovelingo/waitlist-api/internal/infra/http/handlers"
	"github.com/lovelingo/waitlist-api/internal/infra/http/middleware"
	"github.com/lovelingo/waitlist-api/internal/infra/mail"
	"github.com/lovelingo/waitlist-api/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// 1. Repository
	waitlistRepo := database.NewWaitlistRepository(db)

	// 2. Mail transport, configured once and shared by every request
	mailPort, _ := strconv.Atoi(getenv("EMAIL_PORT", "587"))
	mailSender := mail.NewEmailSender(mail.Config{
		Host:        os.Getenv("EMAIL_HOST"),
		Port:        mailPort,
		User:        os.Getenv("EMAIL_USER"),
		Password:    os.Getenv("EMAIL_PASS"),
		From:        os.Getenv("EMAIL_FROM"),
		NotifyTo:    os.Getenv("NOTIFY_EMAIL"),
		SendGridKey: os.Getenv("SENDGRID_API_KEY"),
	})
	if mailSender.Verify() {
		log.Println("✅ Mail transport is ready")
	} else {
		log.Println("❌ Mail transport verification failed, signups will still work")
	}

	// 3. Use cases
	signupUC := usecase.NewSignupUseCase(waitlistRepo, mailSender)
	statsUC := usecase.NewStatsUseCase(waitlistRepo)

	// 4. Handlers
	waitlistHandler := handlers.NewWaitlistHandler(signupUC, statsUC)
	healthHandler := handlers.NewHealthHandler(db, os.Getenv("EMAIL_HOST") != "" || os.Getenv("SENDGRID_API_KEY") != "")

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Post("/api/waitlist", waitlistHandler.Signup)
	r.Get("/api/waitlist/stats", waitlistHandler.Stats)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(handlers.NotFound)

	addr := ":" + getenv("PORT", "3001")
	log.Printf("💕 LoveLingo waitlist API listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
