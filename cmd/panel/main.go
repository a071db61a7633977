package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/oxmail/panel/api"
	"github.com/oxmail/panel/core/auth"
	"github.com/oxmail/panel/core/config"
	"github.com/oxmail/panel/core/email"
	"github.com/oxmail/panel/core/logger"
	"github.com/oxmail/panel/core/passreset"
	"github.com/oxmail/panel/core/session"
	"github.com/oxmail/panel/core/user"
	"github.com/oxmail/panel/integration/database/pg"
	"github.com/oxmail/panel/integration/email/postmark"
	"github.com/oxmail/panel/integration/email/smtp"
	"github.com/oxmail/panel/middleware"
	"github.com/oxmail/panel/server"
)

func main() {
	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.New(logCfg)

	if err := run(log); err != nil {
		log.Error("panel exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		srvCfg   server.Config
		pgCfg    pg.Config
		sessCfg  session.Config
		resetCfg passreset.Config
		mailCfg  email.Config
	)
	config.MustLoad(&srvCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&sessCfg)
	config.MustLoad(&resetCfg)
	config.MustLoad(&mailCfg)

	// Session store and manager.
	store, err := session.Open(sessCfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("closing session store failed", logger.Error(err))
		}
	}()
	sessions := session.NewManager(store,
		session.WithLogger(log.With(logger.Component("session"))))

	// Relational store and schema.
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool, pgCfg, log.With(logger.Component("pg"))); err != nil {
		return err
	}
	users := user.NewStore(pool)

	// Outbound mail.
	sender, err := buildSender(mailCfg)
	if err != nil {
		return err
	}
	dispatcher := email.NewDispatcher(sender,
		email.WithQueueSize(mailCfg.QueueSize),
		email.WithDispatcherLogger(log.With(logger.Component("email"))))

	resets := passreset.NewManager(dispatcher, resetCfg.PanelURL,
		passreset.WithTokenTTL(resetCfg.TokenTTL),
		passreset.WithLogger(log.With(logger.Component("passreset"))))

	// HTTP surface.
	handler := api.NewHandler(sessions, users, resets, auth.NewResolver(users),
		api.WithSessionLifetime(sessCfg.Lifetime),
		api.WithLogger(log.With(logger.Component("api"))))

	mux := http.NewServeMux()
	handler.Routes(mux)

	healthcheck := pg.Healthcheck(pool)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := healthcheck(r.Context()); err != nil {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	chain := middleware.RequestID(
		middleware.Logging(log.With(logger.Component("http")))(
			middleware.SessionWithConfig(middleware.SessionConfig{
				Sessions: sessions,
				Logger:   log.With(logger.Component("http")),
			})(mux)))

	srv, err := server.NewFromConfig(srvCfg,
		server.WithLogger(log.With(logger.Component("server"))))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(ctx, chain))
	g.Go(func() error {
		err := sessions.RunCleaner(ctx, sessCfg.CleanupInterval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		err := dispatcher.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	log.Info("panel started", slog.String("addr", srvCfg.Addr))
	return g.Wait()
}

// buildSender picks the outbound mail transport. Transport-specific config
// is loaded only for the selected driver so unused credentials need not be
// present.
func buildSender(cfg email.Config) (email.EmailSender, error) {
	switch cfg.Driver {
	case "smtp":
		var smtpCfg smtp.Config
		if err := config.Load(&smtpCfg); err != nil {
			return nil, err
		}
		return smtp.New(smtpCfg)
	case "postmark":
		var pmCfg postmark.Config
		if err := config.Load(&pmCfg); err != nil {
			return nil, err
		}
		return postmark.New(pmCfg)
	case "dev":
		return email.NewDevSender(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown email driver %q", email.ErrInvalidConfig, cfg.Driver)
	}
}
