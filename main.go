package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MahmoudShalabyy/tadawi-app-sub001/config"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/handlers"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/logging"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/mailer"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/scheduler"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/server"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/storage"
	"github.com/MahmoudShalabyy/tadawi-app-sub001/validation"
)

const notificationQueueSize = 64

func main() {
	// Read the env variables; a missing .env file is fine in production
	// where the environment comes from the process manager.
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger(cfg.LogLevel, cfg.Env)

	// mail:test <email> sends a diagnostic message and exits without
	// touching the database or starting the server.
	if len(os.Args) > 1 && os.Args[1] == "mail:test" {
		runMailTest(cfg, os.Args[2:])
		return
	}

	store, err := storage.Open(cfg.DatabaseDSN)
	if err != nil {
		logging.Error("Failed to open database", "dsn", cfg.DatabaseDSN, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	notifier := mailer.NewNotifier(store, mailer.NewSMTPSender(cfg.SMTP), cfg)
	queue := mailer.NewQueue(notifier, notificationQueueSize)
	queue.Start(context.Background())

	cartCleanup := scheduler.NewScheduler(store, cfg.Cart)
	if err := cartCleanup.Start(); err != nil {
		logging.Error("Failed to start cart cleanup scheduler", "error", err)
		os.Exit(1)
	}

	handler := handlers.NewHTTPHandler(store, validation.NewValidator(), queue, cfg.Cart)
	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}

	// Stop accepting new confirmations, then drain what was queued.
	cartCleanup.Stop()
	queue.Stop()
}

func runMailTest(cfg *config.Config, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: tadawi mail:test <email>")
		os.Exit(1)
	}

	to := args[0]
	if err := validation.NewValidator().ValidateEmail(to); err != nil {
		fmt.Printf("Invalid recipient: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sending test email via %s:%d...\n", cfg.SMTP.Host, cfg.SMTP.Port)
	mailer.RunMailTest(os.Stdout, mailer.NewSMTPSender(cfg.SMTP), cfg.SMTP.From, to)
}
