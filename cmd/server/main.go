// cmd/server/main.go
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

	"github.com/gin-gonic/gin"

	"github.com/cantonapps/licensing-backend/internal/config"
	"github.com/cantonapps/licensing-backend/internal/database"
	"github.com/cantonapps/licensing-backend/internal/ledger"
	"github.com/cantonapps/licensing-backend/internal/router"
	"github.com/cantonapps/licensing-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize the PQS/audit database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	// Run database migrations (audit trail only)
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Wire the ledger gateway: JSON Ledger API for writes, PQS for reads
	client := ledger.NewClient(cfg.Ledger)
	pqs := ledger.NewPQS(db)
	gateway := ledger.NewGateway(client, pqs)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	stores := router.NewStores(gateway, db, cfg)
	r := router.Initialize(stores, cfg)

	// Keep local snapshots converging on ledger truth
	reconcilers := services.NewReconcilerSet(
		services.NewPollingReconciler("app-install-requests", stores.Requests, cfg.Polling.AppInstallRequestInterval),
		services.NewPollingReconciler("app-installs", stores.Installs, cfg.Polling.AppInstallInterval),
		services.NewPollingReconciler("licenses", stores.Licenses, cfg.Polling.LicenseInterval),
		services.NewPollingReconciler("license-renewal-requests", stores.Renewals, cfg.Polling.RenewalRequestInterval),
	)
	reconcilers.Start()
	defer reconcilers.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
