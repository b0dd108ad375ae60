package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadp "loan-ledger/internal/adapter/http"
	"loan-ledger/internal/adapter/middleware"
	"loan-ledger/internal/adapter/repository/mysql"
	"loan-ledger/internal/config"
	"loan-ledger/internal/infrastructure/cache"
	"loan-ledger/internal/infrastructure/db"
	"loan-ledger/internal/infrastructure/logger"
	"loan-ledger/internal/infrastructure/metrics"
	"loan-ledger/internal/infrastructure/stream"
	"loan-ledger/internal/usecase/access"
	covenantuc "loan-ledger/internal/usecase/covenant"
	documentuc "loan-ledger/internal/usecase/document"
	esguc "loan-ledger/internal/usecase/esg"
	ledgeruc "loan-ledger/internal/usecase/ledger"
	loanuc "loan-ledger/internal/usecase/loan"
	participationuc "loan-ledger/internal/usecase/participation"
	principaluc "loan-ledger/internal/usecase/principal"
)

const serviceName = "loan-ledger"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		slog.Error("config invalid", "err", err)
		os.Exit(1)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		slog.Error("mysql", "err", err)
		os.Exit(1)
	}
	if err := db.Migrate(gdb); err != nil {
		slog.Error("migrate", "err", err)
		os.Exit(1)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		slog.Error("redis", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// committed events are counted, then streamed to subscribers
	out := ledgeruc.NewDispatcher(stream.Multi{
		m.Publisher(),
		stream.NewRedisPublisher(rdb, cfg.EventStream),
	})

	tx := mysql.NewGormUoW(gdb)
	acl := access.NewChecker(cfg.AdminPrincipal)

	handlers := httpadp.Handlers{
		Health:         httpadp.NewHandler(serviceName),
		Principals:     httpadp.NewPrincipalHandler(principaluc.NewUsecase(tx, acl), m),
		Loans:          httpadp.NewLoanHandler(loanuc.NewUsecase(tx, acl, out), m),
		Ledger:         httpadp.NewLedgerHandler(ledgeruc.NewUsecase(tx), documentuc.NewUsecase(tx, acl, out), m),
		Participations: httpadp.NewParticipationHandler(participationuc.NewUsecase(tx, acl, out), m),
		Covenants:      httpadp.NewCovenantHandler(covenantuc.NewUsecase(tx, acl, out), m),
		ESG:            httpadp.NewESGHandler(esguc.NewUsecase(tx, acl, out), m),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.RequestLogger(), echomw.Recover())

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	httpadp.RegisterRoutes(e, handlers,
		middleware.Identity([]byte(cfg.JWTSecret)),
		middleware.Idempotency(rdb, cfg.IdempotencyTTL()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.AppPort
	go func() {
		slog.Info("listening", "addr", addr, "stream", cfg.EventStream)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "err", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
	slog.Info("stopped")
}
