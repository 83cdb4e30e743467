//go:build ignore

// Seeds one owner account so the login endpoint has something to issue
// tokens for. Usage: go run scripts/seed_owner.go <email> <password>
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khoahotran/media-vault/internal/config"
	"github.com/khoahotran/media-vault/pkg/auth"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatal("usage: go run scripts/seed_owner.go <email> <password>")
	}
	email, password := os.Args[1], os.Args[2]

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		log.Fatalf("cannot connect Postgres: %v", err)
	}
	defer pool.Close()

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET password_hash = $3
	`
	if _, err := pool.Exec(context.Background(), query, id, email, hash); err != nil {
		log.Fatalf("cannot seed owner: %v", err)
	}

	fmt.Printf("Seeded owner %s\n", email)
}
