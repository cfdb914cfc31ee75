package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salespulse/internal/database"
	"salespulse/internal/email"
	"salespulse/internal/logging"
	"salespulse/internal/server"
)

func main() {
	port := os.Getenv("SALESPULSE_PORT")
	if port == "" {
		port = "5000"
	}

	dbPath := os.Getenv("SALESPULSE_DB_PATH")
	if dbPath == "" {
		dbPath = "salespulse.db"
	}

	jwtSecret := os.Getenv("SALESPULSE_JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("SALESPULSE_JWT_SECRET is required")
	}

	baseURL := os.Getenv("SALESPULSE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + port
	}

	logger := logging.Setup(os.Getenv("SALESPULSE_LOG_LEVEL"), os.Getenv("SALESPULSE_LOG_FORMAT"))

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	emailClient := email.NewClient(
		os.Getenv("SALESPULSE_EMAIL_TOKEN"),
		os.Getenv("SALESPULSE_EMAIL_FROM"),
		baseURL,
	)

	srv := server.New(db, emailClient, []byte(jwtSecret), logger)

	// Expired rate-limit windows accumulate otherwise
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			srv.RateLimiter().Cleanup()
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("salespulse running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
