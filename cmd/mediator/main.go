package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mediator/ai"
	"mediator/api"
	"mediator/auth"
	"mediator/internal"
	"mediator/moderation"
	"mediator/osmobro"
	"mediator/realtime"
	"mediator/repositories"
	"mediator/runtime/workers"
	"mediator/search"
	"mediator/services"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	grpc3 "github.com/mama165/sdk-go/grpc"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const shutdownTimeout = 10 * time.Second

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Mediator terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the servers lifecycle and centralizes error reporting.
// Returning instead of exiting lets every deferred close run first.
func run() (int, error) {
	// 1. Configuration & Logger
	// A missing .env file is fine, the environment wins anyway
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx := context.Background()

	// 2. Storage (BadgerDB & Bluge)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	if logger.Enabled(ctx, slog.LevelDebug) {
		endpoint := "/inspect"
		url := fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint)
		logger.Info("Debug Badger inspector available", "url", url)
		database.StartDebugServer(db, config.DebugPort, endpoint, internal.StoreMapper)
	}

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	roomRepository := repositories.NewRoomRepository(db, logger)
	membershipRepository := repositories.NewMembershipRepository(db, logger)
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	accountRepository := repositories.NewAccountRepository(db, logger)

	// 3. Moderation, off when no word is configured nor stored
	censor, err := buildCensor(config, db, charReplacement, logger)
	if err != nil {
		return exitConfig, err
	}

	// 4. Outbound clients
	completion := ai.NewOpenAIClient(logger, config.OpenAIAPIKey, config.OpenAIBaseURL, config.OpenAIModel, config.CompletionTimeout)
	router := osmobro.NewClient(logger, config.OsmobroURL, config.OsmobroTimeout)

	// 5. Workers
	dispatcher := workers.NewDispatchWorker(logger, router, config.DispatchBufferSize, config.OsmobroTimeout)
	index := search.NewMessageIndex(blugeWriter, logger, config.SearchLimit)
	fanout := workers.NewEventFanout(logger, db, config.SinkTimeout).Add(index)

	if config.NatsURL != "" {
		conn, err := realtime.Connect(config.NatsURL, "mediator", logger)
		if err != nil {
			return exitRuntime, fmt.Errorf("nats connection failed: %w", err)
		}
		defer func() {
			logger.Info("Draining NATS connection...")
			_ = conn.Drain()
		}()
		fanout.Add(realtime.NewNatsSink(conn, config.EventNamespace, logger))
	}

	telemetry := workers.NewTelemetryWorker(logger, db, config.MetricInterval, config.LowCapacityThreshold,
		workers.NamedChannel{Name: "dispatch", Channel: dispatcher.Queue()})

	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	supervisor.Add(dispatcher, fanout, telemetry)

	// 6. Services & HTTP API
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	lifecycle := services.NewLifecycleService(roomRepository, membershipRepository, router, logger)
	gateway := services.NewGateway(dispatcher, router, logger)
	handlers := api.Handlers{
		Accounts: api.NewAccountHandler(services.NewAccountService(accountRepository, tokens, logger), logger),
		Rooms: api.NewRoomHandler(
			lifecycle,
			services.NewBreakoutResolver(roomRepository, membershipRepository, lifecycle, logger),
			services.NewRoomService(roomRepository, membershipRepository, messageRepository, index, logger),
			services.NewMediatorService(roomRepository, membershipRepository, messageRepository, completion, censor, logger),
			gateway,
			logger,
		),
		Messages: api.NewMessageHandler(gateway, logger),
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           api.NewRouter(handlers, tokens, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 7. Context & Signals
	// NotifyContext captures OS signals and cancels the context to trigger a shutdown.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)

	go func() {
		logger.Info("Starting supervisor...")
		supervisor.Run(ctx)
	}()

	go func() {
		logger.Info("Starting HTTP server", "address", httpServer.Addr, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. gRPC health endpoint
	address := fmt.Sprintf("%s:%d", config.Host, config.GrpcPort)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(grpc3.UnaryLoggingInterceptor(logger)))
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	go func() {
		logger.Info("Starting gRPC server", "address", address)
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 10. Graceful shutdown
	logger.Info("Shutting down gracefully...")
	healthServer.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	supervisor.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

// buildCensor merges the configured words with the stored blacklist.
// It returns a nil Censor when both are empty.
func buildCensor(config internal.Config, db *badger.DB, char rune, logger *slog.Logger) (services.Censor, error) {
	words := moderation.ParseWords(config.CensoredWords)
	stored, err := moderation.LoadWords(db)
	if err != nil {
		return nil, fmt.Errorf("loading blacklist failed: %w", err)
	}
	words = append(words, stored...)
	if len(words) == 0 {
		logger.Info("Moderation disabled, no censored word")
		return nil, nil
	}
	moderator, err := moderation.NewModerator(words, char, logger)
	if err != nil {
		return nil, fmt.Errorf("moderator init failed: %w", err)
	}
	logger.Info("Moderation enabled", "words", len(words))
	return moderator, nil
}
