// Package main запускает почтовый процесс Registro: читает очередь
// notification.welcome и отправляет приветственные письма по SMTP.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/registro/internal/app/sender"
	"github.com/magabrotheeeer/registro/internal/config"
	"github.com/magabrotheeeer/registro/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})).
		With(slog.String("component", "registro-mailer"))

	logger.Info("starting registro mailer",
		slog.String("env", cfg.Env),
		slog.String("smtp_host", cfg.SMTPHost),
		slog.String("smtp_port", cfg.SMTPPort),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("registro mailer failed", sl.Err(err))
		os.Exit(1)
	}
	logger.Info("registro mailer stopped, pending welcome emails are left in the queue")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := sender.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
