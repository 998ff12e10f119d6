package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/icetlab/assettrack/auth"
	"github.com/icetlab/assettrack/config"
	"github.com/icetlab/assettrack/handler"
	"github.com/icetlab/assettrack/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	db, err := store.Open(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx, db); err != nil {
		return err
	}

	users := store.NewUsers(db)
	auditLogs := store.NewAuditLogs(db)

	if err := store.BootstrapAdmin(ctx, users, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		return err
	}

	codec := auth.NewTokenCodec([]byte(cfg.SigningSecret), cfg.TokenTTL, logger)
	gate := auth.NewGate(codec).WithLogger(logger)
	authenticator := auth.NewAuthenticator(users, codec).
		WithLogger(logger).
		WithAuditRecorder(auditLogs)

	app := fiber.New(fiber.Config{
		AppName:               "assettrack",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(handler.RequestID())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:X-Request-ID} ${status} ${method} ${path} ${latency}\n",
	}))

	handler.Register(app, handler.Deps{
		Authenticator: authenticator,
		Gate:          gate,
		Logger:        logger,
		Devices:       store.NewDevices(db),
		Installations: store.NewInstallations(db),
		Metadata:      store.NewMetadata(db),
		Rooms:         store.NewRooms(db),
		GatePasses:    store.NewGatePasses(db),
		Support:       store.NewSupport(db),
		Blog:          store.NewBlog(db),
		AuditLogs:     auditLogs,
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", cfg.Addr)
		errc <- app.Listen(cfg.Addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		logger.Info("received %s, shutting down", sig)
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

// slogAdapter narrows *slog.Logger to the printf-style interface the auth and
// store packages log through.
type slogAdapter struct {
	l *slog.Logger
}

func newLogger(level string) slogAdapter {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slogAdapter{l: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))}
}

var _ auth.Logger = slogAdapter{}

func (a slogAdapter) Debug(format string, args ...any) { a.l.Debug(fmt.Sprintf(format, args...)) }
func (a slogAdapter) Info(format string, args ...any)  { a.l.Info(fmt.Sprintf(format, args...)) }
func (a slogAdapter) Warn(format string, args ...any)  { a.l.Warn(fmt.Sprintf(format, args...)) }
func (a slogAdapter) Error(format string, args ...any) { a.l.Error(fmt.Sprintf(format, args...)) }
