package main

import (
	"fmt"

	"grc-platform/internal/config"
	"grc-platform/internal/database"
	"grc-platform/internal/logging"
	"grc-platform/internal/server"
)

func main() {
	cfg := config.Load()
	logging.InitLogger(cfg.LogDebug)
	defer logging.Sync()

	database.Init(cfg.DBDSN, cfg.AdminUsername, cfg.AdminPassword)

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logging.Logger.Infof("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		logging.Logger.Fatalf("server error: %v", err)
	}
}
