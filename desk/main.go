package main

import (
	"context"
	"flag"
	"log"

	"github.com/Mohammad-Mahdi82/NexusCue/api"
	"github.com/Mohammad-Mahdi82/NexusCue/printer"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

func main() {
	apiURL := flag.String("api", "", "backend base URL, overrides API_URL")
	configDir := flag.String("config", "", "directory holding config.yaml")
	flag.Parse()

	cfg, err := LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}

	logger, err := NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		logger.Fatal("open local store", zap.String("path", cfg.DBPath), zap.Error(err))
	}

	auth := api.NewSession(&dbTokenStore{db: db}, nil)
	client := api.New(cfg.APIURL, auth,
		api.WithLogger(logger.Named("api")),
		api.WithTimeout(cfg.HTTPTimeout),
	)

	app := tview.NewApplication()
	d := newDesk(cfg, logger, client, app)
	auth.OnLogout(d.loggedOut)

	logger.Info("desk starting", zap.String("api", cfg.APIURL), zap.String("env", cfg.Env))
	go func() {
		if n, err := d.dialog.Prune(printer.DialogMaxAge); err != nil || n > 0 {
			logger.Info("old receipt pages pruned", zap.Int("removed", n), zap.Error(err))
		}
		if _, err := client.Health(context.Background()); err != nil {
			logger.Warn("backend unreachable", zap.Error(err))
		}
		if auth.LoggedIn() {
			d.enter()
		}
	}()

	if err := app.SetRoot(d.pages, true).Run(); err != nil {
		logger.Fatal("ui stopped", zap.Error(err))
	}
	d.leave()
}
