package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/splitpot/splitpot/internal/api"
	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/config"
	"github.com/splitpot/splitpot/internal/service"
	"github.com/splitpot/splitpot/internal/storage/sqlite"
	"github.com/splitpot/splitpot/pkg/logging"
)

const tokenDuration = 24 * time.Hour

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, tokenDuration)

	handlers := api.NewHandlers(
		service.NewGroupService(store),
		service.NewExpenseService(store),
		service.NewBalanceService(store),
		service.NewSettlementService(store),
	)

	addr := ":" + cfg.ServerPort
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, api.Routes(handlers, jwtManager)); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
