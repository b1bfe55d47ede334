package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/Adams521/everything-gift/internal/config"
	"github.com/Adams521/everything-gift/internal/devstub"
	"github.com/Adams521/everything-gift/internal/models"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	cfg := config.NewStubConfig("8000")

	accounts := devstub.NewAccounts(devstub.NewTokenManager(cfg.JWTSecret, "gift-dev", cfg.TokenTTL))
	if cfg.AdminPassword != "" {
		if _, err := accounts.Create("admin", "", cfg.AdminPassword, models.RoleAdmin); err != nil {
			slog.Error("Failed to seed admin", "error", err)
			os.Exit(1)
		}
		slog.Info("Seeded admin account")
	}

	mux := http.NewServeMux()
	devstub.NewCatalog().Routes(mux)
	accounts.Routes(mux)

	slog.Info("Development backend listening", "port", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, mux); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
