package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/MikeMC777/agrilink/internal/cart"
	"github.com/MikeMC777/agrilink/internal/config"
	"github.com/MikeMC777/agrilink/internal/db"
	"github.com/MikeMC777/agrilink/internal/health"
	"github.com/MikeMC777/agrilink/internal/metrics"
	"github.com/MikeMC777/agrilink/internal/order"
	"github.com/MikeMC777/agrilink/internal/product"
)

func migrateCmd(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetupLogging(cfg)
	return db.Migrate(cfg.PostgresDSN, c.Bool("down"))
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	config.SetupLogging(cfg)

	if err := db.Migrate(cfg.PostgresDSN, false); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	var (
		products product.Repository = product.NewPGRepo(pool)
		carts    cart.Store
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		carts = cart.NewRedisStore(rdb, cfg.CartTTL)
		products = product.NewCachedRepo(products, rdb, cfg.CatalogCacheTTL)
	} else {
		log.Warn("[redis] REDIS_ADDR empty, carts are kept in process memory")
		carts = cart.NewMemoryStore()
	}

	router := newRouter(deps{
		products: products,
		orders:   order.NewService(order.NewPGRepo(pool)),
		carts:    carts,
		metrics:  metrics.NewPGRepo(pool),
		share: metrics.ShareConfig{
			Fraction: cfg.Fraction(),
			Streams:  [2]string{cfg.RevenueStreams[0], cfg.RevenueStreams[1]},
		},
		window:      cfg.MetricsWindow,
		corsOrigins: cfg.CORSOrigins,
		release:     cfg.Env == "production",
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	grpcSrv := grpc.NewServer()
	checker := health.NewChecker(pool, cfg.HealthInterval)
	checker.Register(grpcSrv)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("agrilink HTTP listening on %s", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		log.Infof("agrilink gRPC health listening on %s", cfg.GRPCAddr)
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		checker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		grpcSrv.GracefulStop()
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
