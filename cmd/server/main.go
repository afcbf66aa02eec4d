// @title adframes API
// @version 1.0
// @description Bulk inventory ingestion for advertising frames.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the owner token.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "adframes/docs"
	"adframes/internal/config"
	"adframes/internal/email/noop"
	"adframes/internal/email/ses"
	"adframes/internal/handler"
	"adframes/internal/ingest"
	"adframes/internal/port"
	"adframes/internal/repository/postgres"
	"adframes/internal/router"
	"adframes/internal/service"
	"adframes/internal/session"
	noopstorage "adframes/internal/storage/noop"
	s3storage "adframes/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	inventoryRepo := postgres.NewInventoryRepo(db)

	// Initialize storage
	storage, err := newStorage(cfg)
	if err != nil {
		return err
	}

	// Initialize email sender
	sender, err := newEmailSender(cfg)
	if err != nil {
		return err
	}

	// Initialize sessions
	store := session.NewMemoryStore(cfg.Session.TTL)
	janitor := session.NewJanitor(store)
	if err := janitor.Start(cfg.Session.JanitorSchedule); err != nil {
		return err
	}
	defer janitor.Stop()

	// Initialize services
	pipeline := ingest.NewPipeline(cfg, inventoryRepo)
	authSvc := service.NewAuthService(cfg.JWT)
	uploadSvc := service.NewUploadService(pipeline, store, inventoryRepo, storage, sender, service.UploadSettings{
		MaxFileSize:      cfg.Upload.MaxFileSize(),
		DefaultEncodings: cfg.Upload.DefaultEncodings,
		ReportBucket:     cfg.S3.Bucket,
		PresignExpiry:    cfg.S3.PresignExpiry,
	})

	// Initialize handlers
	uploadH := handler.NewUploadHandler(uploadSvc)
	schemaH := handler.NewSchemaHandler(pipeline.Fields)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, uploadH, schemaH, healthH, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		// Leave room for the multipart envelope around the file.
		MaxBodyBytes:  cfg.Upload.MaxFileSize() + 1<<20,
		EnableSwagger: cfg.Server.Environment != "production",
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
	}

	return nil
}

func newStorage(cfg *config.Config) (port.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case "s3":
		s3Client, err := s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return s3Client, nil
	case "", "noop":
		log.Printf("Storage provider is noop; failure reports are kept in memory")
		return noopstorage.NewNoopStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}
}

func newEmailSender(cfg *config.Config) (port.EmailSender, error) {
	switch cfg.Email.Provider {
	case "ses":
		sender, err := ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName, cfg.Email.FrontendURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	case "", "noop":
		return noop.NewNoopSender(cfg.Email.FrontendURL), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}
}
