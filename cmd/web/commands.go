package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/ericoliveiras/tienda-virtual/internal/catalog"
	"github.com/ericoliveiras/tienda-virtual/internal/config"
	"github.com/ericoliveiras/tienda-virtual/internal/database"
	"github.com/ericoliveiras/tienda-virtual/internal/handler"
	"github.com/ericoliveiras/tienda-virtual/internal/instagram"
	"github.com/ericoliveiras/tienda-virtual/internal/logging"
	"github.com/ericoliveiras/tienda-virtual/internal/lookup"
	"github.com/ericoliveiras/tienda-virtual/internal/metrics"
	"github.com/ericoliveiras/tienda-virtual/internal/reservation"
)

const shutdownTimeout = 10 * time.Second

// app é o que todo subcomando precisa: configuração, logger e banco.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

func bootstrap(envFile string) (*app, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(logger)

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, db: db}, nil
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "tienda",
		Short:         "Tienda virtual: catálogo, reservas e vitrine do Instagram.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "arquivo .env a carregar (padrão: .env)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Sobe o servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(envFile)
			if err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Cria ou atualiza as tabelas",
		RunE: func(*cobra.Command, []string) error {
			a, err := bootstrap(envFile)
			if err != nil {
				return err
			}
			if err := database.Migrate(a.db); err != nil {
				return err
			}
			a.logger.Info("migrações aplicadas")
			return nil
		},
	}

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Popula o catálogo de demonstração quando ele está vazio",
		RunE: func(*cobra.Command, []string) error {
			a, err := bootstrap(envFile)
			if err != nil {
				return err
			}
			if err := database.Migrate(a.db); err != nil {
				return err
			}
			n, err := database.SeedCatalog(a.db, a.logger)
			if err != nil {
				return err
			}
			a.logger.Info("seed concluído", "products", n)
			return nil
		},
	}

	root.AddCommand(serve, migrate, seed)
	// Sem subcomando, "tienda" sobe o servidor.
	root.RunE = serve.RunE
	return root
}

// serve monta as dependências, sobe o servidor e espera o contexto ser
// cancelado (SIGINT/SIGTERM) para o shutdown.
func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger
	gin.SetMode(cfg.GinMode)

	if err := database.Migrate(a.db); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("falha ao registrar métricas: %w", err)
	}

	locator, err := lookup.NewClient(cfg.Lookup.BaseURL, cfg.Lookup.Timeout, logger)
	if err != nil {
		return fmt.Errorf("LOOKUP_BASE_URL inválida: %w", err)
	}

	feed := instagram.NewFeed(
		cfg.Instagram.AccessToken,
		instagram.NewClient(cfg.Instagram.BaseURL, logger),
		instagram.NewCache(cfg.Instagram.TTL),
		m, logger,
	)
	if !feed.Enabled() {
		logger.Warn("INSTAGRAM_ACCESS_TOKEN não definido, feed do Instagram desativado")
	}

	secret := cfg.SessionSecret
	if secret == "" {
		logger.Warn("SESSION_SECRET vazio, usando segredo de desenvolvimento")
		secret = "tienda-dev-secret"
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   !cfg.Debug(),
		SameSite: http.SameSiteLaxMode,
	}

	catalogStore := catalog.NewStore(a.db)
	router := handler.NewRouter(handler.RouterDeps{
		Logger:        logger,
		Metrics:       m,
		Gatherer:      registry,
		DB:            a.db,
		TemplatesGlob: cfg.TemplatesGlob,
		StaticRoot:    cfg.StaticRoot,
		Home:          &handler.HomeHandler{Catalog: catalogStore, Feed: feed, Logger: logger},
		Catalog:       &handler.CatalogHandler{Catalog: catalogStore, Logger: logger},
		Product: &handler.ProductHandler{
			Catalog:       catalogStore,
			Locator:       locator,
			AffiliateCode: cfg.Lookup.AffiliateCode,
			Metrics:       m,
			Logger:        logger,
		},
		Contact: &handler.ContactHandler{Company: cfg.Company},
		Reservation: &handler.ReservationHandler{
			Reservations: reservation.NewStore(a.db),
			Store:        store,
			Metrics:      m,
			Logger:       logger,
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("servidor rodando", "port", cfg.Port, "gin_mode", cfg.GinMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("servidor encerrado com erro: %w", err)
	case <-ctx.Done():
	}

	logger.Info("encerrando servidor")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("falha no shutdown: %w", err)
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
