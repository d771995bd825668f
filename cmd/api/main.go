package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"crewdesk.org/internal/account"
	"crewdesk.org/internal/config"
	"crewdesk.org/internal/httpapi"
	"crewdesk.org/internal/mail"
	"crewdesk.org/internal/obs"
	"crewdesk.org/internal/session"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	obs.Init()
	obs.InitBuildInfo(version, commit)

	var db *sql.DB
	var creds account.CredentialStore
	if cfg.PGDSN != "" {
		var err error
		db, err = sql.Open("pgx", cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
		creds = account.NewPGCredentialStore(db)
	} else {
		mem := account.NewMemCredentialStore()
		// The memory store starts empty on every boot; without the demo
		// logins the demo frontend has nothing to sign in with.
		if err := account.SeedDemoAccounts(context.Background(), mem, cfg.BcryptCost); err != nil {
			log.Fatalf("seed demo accounts: %v", err)
		}
		creds = mem
	}

	var tokens account.TokenStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		tokens = account.NewRedisTokenStore(client)
	} else {
		tokens = account.NewMemTokenStore()
	}

	mailer := mail.NewLogMailer(cfg.BaseURL)
	accounts := account.NewService(creds, tokens, mailer,
		account.WithVerificationTTL(cfg.VerificationTTL),
		account.WithResetTTL(cfg.ResetTTL),
		account.WithBcryptCost(cfg.BcryptCost),
	)
	sessions, err := session.NewManager(creds, cfg.AuthSecret, session.WithTTL(cfg.SessionTTL))
	if err != nil {
		log.Fatalf("session manager: %v", err)
	}

	api := httpapi.New(httpapi.ReadyProbe{DB: db}, version, accounts, sessions)
	api.SetRateLimit(cfg.RateBurst, cfg.RatePerSec)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting crewdesk-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
