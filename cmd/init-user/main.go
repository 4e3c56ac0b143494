package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"polychat/internal/auth"
	"polychat/internal/config"
	"polychat/internal/models"
	"polychat/internal/storage"
)

// Bootstrap tool for the first account when running against the database
// backend. The ephemeral backends seed accounts through the API instead.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if cfg.Database.URL == "" {
		fmt.Fprintf(os.Stderr, "ERROR: DATABASE_URL must be set; the ephemeral backends do not need bootstrapping\n")
		os.Exit(1)
	}

	name := os.Getenv("BOOTSTRAP_NAME")
	email := os.Getenv("BOOTSTRAP_EMAIL")
	password := os.Getenv("BOOTSTRAP_PASSWORD")

	if name == "" || email == "" || password == "" {
		fmt.Fprintf(os.Stderr, "ERROR: BOOTSTRAP_NAME, BOOTSTRAP_EMAIL and BOOTSTRAP_PASSWORD must be set\n")
		os.Exit(1)
	}
	if at := strings.Index(email, "@"); strings.Count(email, "@") != 1 || at <= 0 || at == len(email)-1 {
		fmt.Fprintf(os.Stderr, "ERROR: Invalid email format: %s\n", email)
		os.Exit(1)
	}
	if len(password) < 6 {
		fmt.Fprintf(os.Stderr, "ERROR: Password must be at least 6 characters long\n")
		os.Exit(1)
	}

	fmt.Println("Connecting to database...")
	db, err := storage.NewDB(cfg.Database, cfg.Cache)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var migrator storage.Migrator
	if err := migrator.EnsureSchema(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to apply schema: %v\n", err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to hash password: %v\n", err)
		os.Exit(1)
	}

	users := storage.NewUserRepository(db)
	user := &models.User{
		Name:           name,
		Email:          email,
		HashedPassword: hash,
		Role:           models.RoleUser,
	}
	if err := users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			fmt.Printf("INFO: An account with email %s already exists, nothing to do\n", email)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "ERROR: Failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("SUCCESS: Bootstrap account created")
	fmt.Printf("  ID:    %s\n", user.ID)
	fmt.Printf("  Name:  %s\n", user.Name)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Println("\nUnset BOOTSTRAP_EMAIL and BOOTSTRAP_PASSWORD now that the account exists.")
}
