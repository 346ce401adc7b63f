package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/handler"
	"github.com/inkwell/internal/router"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})

	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	if err := db.EnsureAdmin(cfg.AdminUserName, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure admin account")
	}

	if err := db.EnsureCategories(); err != nil {
		log.Fatal().Err(err).Msg("failed to seed categories")
	}

	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)
	r := router.Setup(cfg, api)

	log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
