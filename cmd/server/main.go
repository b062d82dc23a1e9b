package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/invoiceflow-app/invoiceflow/go/internal/api"
	"github.com/invoiceflow-app/invoiceflow/go/internal/auth"
	"github.com/invoiceflow-app/invoiceflow/go/internal/client"
	"github.com/invoiceflow-app/invoiceflow/go/internal/config"
	"github.com/invoiceflow-app/invoiceflow/go/internal/db"
	"github.com/invoiceflow-app/invoiceflow/go/internal/invoice"
	"github.com/invoiceflow-app/invoiceflow/go/internal/trial"
	"github.com/invoiceflow-app/invoiceflow/go/internal/user"
)

func main() {
	cfg := config.Load()

	clients := db.NewClients(cfg.DatabaseURL, cfg.SystemDatabaseURL)
	defer clients.Close()

	userRepo := user.NewUserRepository(clients.System)
	clientRepo := client.NewClientRepository(clients.App)
	invoiceRepo := invoice.NewInvoiceRepository(clients.App)
	trialRepo := trial.NewTrialRepository(clients.App)

	syncPolicy := user.DefaultRetryPolicy
	syncPolicy.MaxAttempts = cfg.SyncMaxAttempts
	syncService := user.NewSyncService(userRepo, syncPolicy)
	numberGenerator := invoice.NewGenerator(invoiceRepo)
	trialService := trial.NewLifecycleService(trialRepo)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.FirebaseProjectID)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}

	handler := api.NewHandler(clientRepo, invoiceRepo, numberGenerator, trialService)
	router := api.SetupRoutes(
		handler,
		auth.NewMiddleware(jwtVerifier),
		user.Middleware(syncService, cfg.UserCacheTTL),
		cfg.FE_BASE_URL,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
