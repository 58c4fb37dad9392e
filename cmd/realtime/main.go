package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"storeapi"
	"storeapi/internal/realtime"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Standalone WebSocket fan-out: relays every change event published on NATS
// by the API instances to its own clients.
func main() {
	_ = godotenv.Load()
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	natsURL := storeapi.GetEnv("NATS_URL", "")
	if natsURL == "" {
		logger.Fatal().Msg("NATS_URL is required")
	}
	port := storeapi.GetEnv("REALTIME_PORT", ":8081")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	bridge, err := realtime.NewNATSBridge(natsURL, "storeapi", hub, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("NATS bridge")
	}
	defer bridge.Close()

	if err := bridge.Subscribe(ctx); err != nil {
		logger.Fatal().Err(err).Msg("NATS subscribe")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, w, r)
	})
	server := &http.Server{Addr: port, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info().Str("addr", port).Msg("Realtime service listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server")
	}
}
