package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"crewdesk.org/internal/account"
	"crewdesk.org/internal/config"
)

// Seeds the verified demo accounts used by the frontend demo logins.
// Idempotent: existing emails are skipped.
func main() {
	log.SetFlags(0)
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.PGDSN == "" {
		log.Fatal("missing CREWDESK_PG_DSN: the memory store is seeded in-process by cmd/api, not by this tool")
	}

	db, err := sql.Open("pgx", cfg.PGDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := account.SeedDemoAccounts(ctx, account.NewPGCredentialStore(db), cfg.BcryptCost); err != nil {
		log.Fatalf("seed demo accounts: %v", err)
	}
	for _, d := range account.DemoAccounts() {
		log.Printf("seeded %s (%s)", d.Email, d.Role)
	}
}
