// seed inserts a test user into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/magic-auth/internal/domain"
	"github.com/ErlanBelekov/magic-auth/internal/infrastructure/mongodb"
)

const (
	seedEmail    = "seed@test.local"
	seedUsername = "seed"
)

func main() {
	ctx := context.Background()

	uri := os.Getenv("MONGODB_URL")
	if uri == "" {
		uri = "mongodb://localhost:27017/db"
	}
	dbName := os.Getenv("MONGODB_DATABASE")
	if dbName == "" {
		dbName = "db"
	}

	client, err := mongodb.Connect(ctx, uri)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer client.Disconnect(ctx)

	users := mongodb.NewUserRepository(client.Database(dbName))

	user, err := users.FindByEmail(ctx, seedEmail)
	switch {
	case err == nil:
		fmt.Println("Seed user already exists")
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = users.Create(ctx, seedEmail, seedUsername)
		if err != nil {
			log.Fatalf("create user: %v", err)
		}
		fmt.Println("Seed user created")
	default:
		log.Fatalf("find user: %v", err)
	}

	fmt.Println()
	fmt.Printf("  Email:    %s\n", user.Email)
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  User ID:  %s\n", user.ID)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — request a login code:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:5000/api/auth/send_magic_link \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\"}'\n", seedEmail)
	fmt.Println()
	fmt.Println("    # With ENV=local the 6-digit code is printed in the server log.")
	fmt.Println()
	fmt.Println("  Step 2 — exchange the code for a token:")
	fmt.Println()
	fmt.Println("    curl -s 'http://localhost:5000/api/auth/token?code=CODE'")
	fmt.Println("    # → {\"ok\":true,\"token\":\"eyJ...\",\"user\":{...}}")
	fmt.Println()
	fmt.Println("  Step 3 — fetch the current user:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:5000/api/auth/user -H \"Authorization: Bearer $JWT\"")
}
