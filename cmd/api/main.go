package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventsearch/config"
	_ "eventsearch/docs"
	"eventsearch/internal/adapters/email"
	"eventsearch/internal/adapters/geonames"
	"eventsearch/internal/adapters/icalendar"
	httpdelivery "eventsearch/internal/delivery/http"
	"eventsearch/internal/delivery/http/controllers"
	"eventsearch/internal/delivery/http/middleware"
	"eventsearch/internal/geo"
	"eventsearch/internal/repository/postgres"
	"eventsearch/internal/services"
)

// @title Event Search API
// @version 1.0
// @description Free-text search over calendar events with tags, places, dates and groups.
// @BasePath /
func main() {
	logger := config.NewLogger()
	slog.SetDefault(logger)
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return err
	}

	continents, err := geo.LoadContinentsFile(cfg.Search.ContinentsFile)
	if err != nil {
		return err
	}
	unit, err := geo.ParseUnit(cfg.Search.DefaultUnit)
	if err != nil {
		return err
	}

	eventRepo := postgres.NewEventRepository(db, continents)
	tagRepo := postgres.NewTagRepository(db)
	filterRepo := postgres.NewFilterRepository(db)
	geoCacheRepo := postgres.NewGeoCacheRepository(db)

	resolver := services.NewCachingGeoResolver(
		geonames.NewResolver(&http.Client{Timeout: cfg.GeoName.LookupTimeout}, cfg.GeoName.BaseURL, cfg.GeoName.Username),
		geoCacheRepo,
		services.GeoCacheConfig{
			TTL:           cfg.GeoName.CacheTTL,
			NegativeTTL:   cfg.GeoName.NegativeCacheTTL,
			LookupTimeout: cfg.GeoName.LookupTimeout,
		},
		logger,
	)
	janitor, err := services.NewGeoCacheJanitor(geoCacheRepo, cfg.GeoName.PurgeSchedule, cfg.RequestTimeout, logger)
	if err != nil {
		return err
	}

	searchService := services.NewSearchService(eventRepo, tagRepo, resolver, services.SearchConfig{
		DefaultUnit: unit,
		CityRadius:  unit.Meters(cfg.Search.CityRadius),
		Workers:     cfg.Search.Workers,
		Timeout:     cfg.RequestTimeout,
		Continents:  continents,
	}, logger)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.AWSRegion,
			AccessKeyID:     cfg.Email.AWSAccessKeyID,
			SecretAccessKey: cfg.Email.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return err
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	notifyService := services.NewNotificationService(eventRepo, filterRepo, searchService, emailService,
		services.SiteInfo{Name: cfg.Site.Name, Domain: cfg.Site.Domain}, cfg.RequestTimeout, logger)

	router := httpdelivery.NewRouter(
		controllers.NewSearchController(logger, searchService, icalendar.NewEncoder(cfg.Site.Name, cfg.Site.Domain)),
		controllers.NewNotifyController(logger, notifyService),
	)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, router.Methods(), router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	janitor.Start()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case err := <-errCh:
		<-janitor.Stop().Done()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	err = srv.Shutdown(shutdownCtx)
	<-janitor.Stop().Done()
	resolver.Wait()
	return err
}
