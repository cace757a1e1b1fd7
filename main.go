package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/formloop/formloop/app"
	"github.com/formloop/formloop/auth"
	"github.com/formloop/formloop/config"
	"github.com/formloop/formloop/database"
	"github.com/formloop/formloop/log"
	"github.com/formloop/formloop/otp"
	"github.com/formloop/formloop/routes"
	"github.com/formloop/formloop/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		log.Fatal("main.db.open:", err)
	}
	defer db.Close()

	app := app.App{
		Store:  store.New(db),
		Tokens: auth.NewTokens(cfg.TokenSecret, cfg.TokenTTL),
		OTP:    otp.NewStore(cfg.OTPTTL),
		Mail:   mailSender(cfg),
		Config: cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func mailSender(cfg config.Config) otp.Sender {
	if cfg.SMTPHost == "" {
		log.Warn("no SMTP configuration found, logging verification codes instead")
		return otp.LogSender{}
	}
	return otp.SMTPSender{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.EmailFrom,
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
