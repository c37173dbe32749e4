package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chat-server/auth"
	"chat-server/chat"
	"chat-server/gateway"
	"chat-server/httpapi"
	"chat-server/moderation"
	"chat-server/repositories"
	"chat-server/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so every defer (like the database close)
// executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories & moderation
	messageRepository := repositories.NewMessageRepository(db, log, config.historyLimit())
	userRepository := repositories.NewUserRepository(db)

	var censor chat.Censor
	if words := splitWords(config.CensoredWords); len(words) > 0 {
		replacement, err := characterRune(config.CensorReplacement)
		if err != nil {
			return err
		}
		moderator, err := moderation.NewModerator(words, replacement, log)
		if err != nil {
			return fmt.Errorf("moderation setup failed: %w", err)
		}
		censor = moderator
	}

	// 4. Real-time core
	registry := chat.NewConnectionRegistry()
	rooms := chat.NewRoomManager(registry, log)
	presence := chat.NewPresenceRouter(log, registry, rooms, messageRepository, config.StoreTimeout)
	messageRouter := chat.NewMessageRouter(log, registry, rooms, messageRepository, censor, config.StoreTimeout)

	tokens := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)

	sessionGateway := gateway.NewGateway(log, registry, presence, messageRouter)
	wsHandler := gateway.NewHandler(log, sessionGateway, presence, tokens,
		config.ConnectionBufferSize, config.SendTimeout)

	// 5. Auth
	authService := services.NewAuthService(userRepository, tokens)
	authHandler := httpapi.NewAuthHandler(log, authService)

	// 6. HTTP routes
	router := mux.NewRouter()
	authHandler.RegisterRoutes(router)
	router.HandleFunc("/ws", wsHandler.ServeWS)
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, "Chat App Server is running")
	})

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}

func splitWords(raw string) []string {
	var words []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
