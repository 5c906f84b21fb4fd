package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"golang.org/x/sync/errgroup"

	myhttp "github.com/Deelite34/link-shortener/internal/api/http"
	"github.com/Deelite34/link-shortener/internal/cache"
	"github.com/Deelite34/link-shortener/internal/config"
	dbpostgres "github.com/Deelite34/link-shortener/internal/database/postgres"
	"github.com/Deelite34/link-shortener/internal/service"
	"github.com/Deelite34/link-shortener/internal/web"
	"github.com/Deelite34/link-shortener/pkg/postgres"
)

// Run wires the application together and serves HTTP until ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := httplog.NewLogger("link-shortener", httplog.Options{
		Concise: true,
	})

	db, err := postgres.New(
		ctx,
		cfg.Postgres.DSN(),
		postgres.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
		postgres.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
		postgres.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
		postgres.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
	)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := postgres.RunMigrations("file://migrations", cfg.Postgres.DSN()); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	svcOpts := []service.Option{
		service.WithSlugLength(cfg.SlugLength),
		service.WithLinkLimit(cfg.LinkLimit),
	}

	if cfg.Redis.Addr != "" {
		c, err := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("%s: failed to connect to redis: %w", op, err)
		}
		defer c.Close()

		svcOpts = append(svcOpts, service.WithCache(c, cfg.Redis.TTL))
	}

	linkSvc := service.NewLinkService(
		dbpostgres.NewClientRepository(db),
		dbpostgres.NewLinkRepository(db),
		svcOpts...,
	)

	pages := web.NewHandler(linkSvc, cfg.BaseURL)

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        myhttp.NewRouter(logger, linkSvc, pages),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
