package main

import (
	"errors"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/youruser/ticketapp/internal/api"
	"github.com/youruser/ticketapp/internal/config"
	"github.com/youruser/ticketapp/internal/fonts"
	"github.com/youruser/ticketapp/internal/ticket"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if os.Getenv("TICKET_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(os.Getenv("TICKET_CONFIG"))
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}

	catalog := ticket.NewCatalog(cfg.TemplatePath(), ticket.DefaultDecodeOptions)
	if styles, err := catalog.Styles(); err != nil {
		logger.Warn("template directory unreadable at startup", "dir", catalog.Dir(), "err", err)
	} else {
		logger.Info("templates loaded", "dir", catalog.Dir(), "styles", styles)
	}

	chain := fonts.NewChain(cfg.BaseDir, cfg.Fonts.Bundled, cfg.Fonts.System)
	renderer := ticket.NewRenderer(fonts.NewResolver(chain, logger), ticket.Options{
		Overlays: cfg.Overlays,
		Logger:   logger,
	})

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(logger))
	api.RegisterRoutes(r, api.NewHandler(catalog, renderer, logger))

	logger.Info("starting server", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", "err", err)
	}
}
