// Setup script for a new frontdesk deployment. Generates the agent API key,
// hashes the admin PIN and creates the audit table when DATABASE_URL is set.
// Run with: go run ./scripts/seed.go 987456
package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/Harshitk-cp/frontdesk/internal/access"
	"github.com/Harshitk-cp/frontdesk/internal/store"
)

func main() {
	// Load environment
	envFile := os.Getenv("FRONTDESK_ENV")
	if envFile == "" {
		envFile = ".env.local"
	}
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	fmt.Println("=== Frontdesk Setup ===")
	fmt.Println()

	apiKey := generateAPIKey()
	fmt.Printf("AGENT_API_KEY=%s\n", apiKey)

	if len(os.Args) > 1 {
		pin := access.NormalizePIN(os.Args[1])
		hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash PIN: %v", err)
		}
		fmt.Printf("ADMIN_PIN_HASH=%s\n", hash)
	} else {
		fmt.Println("(pass the admin PIN as an argument to print ADMIN_PIN_HASH)")
	}
	fmt.Println("(Save these values in your .env.local.secret - the key cannot be retrieved later)")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		fmt.Println("\nDATABASE_URL not set, skipping audit schema")
		return
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	if err := store.NewAuditStore(pool).EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to create audit schema: %v", err)
	}
	fmt.Println("\nAudit schema ready")
	fmt.Println("Start the server with AUDIT_STORE=postgres to record PIN decisions and tool calls.")
}

func generateAPIKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("Failed to generate API key: %v", err)
	}
	return "fd_" + base64.URLEncoding.EncodeToString(b)[:40]
}
