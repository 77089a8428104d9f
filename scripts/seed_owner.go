package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/khoahotran/career-studio/adapters/persistence"
	"github.com/khoahotran/career-studio/internal/config"
	"github.com/khoahotran/career-studio/internal/domain/user"
	"github.com/khoahotran/career-studio/pkg/auth"
	"github.com/khoahotran/career-studio/pkg/logger"
)

func main() {
	fmt.Println("adding owner into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	ownerEmail := strings.ToLower(strings.TrimSpace(os.Getenv("OWNER_EMAIL")))
	ownerPassword := os.Getenv("OWNER_PASSWORD")
	if ownerEmail == "" || ownerPassword == "" {
		log.Fatal("OWNER_EMAIL and OWNER_PASSWORD are required")
	}

	hash, err := auth.HashPassword(ownerPassword)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env, cfg.App.LogLevel).Named("seed")
	pool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	var name *string
	if n := strings.TrimSpace(os.Getenv("OWNER_NAME")); n != "" {
		name = &n
	}

	u := &user.User{ID: uuid.New(), Email: ownerEmail, Name: name, PasswordHash: hash}
	if err := persistence.NewPostgresUserRepo(pool, appLogger).Create(context.Background(), u); err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added or updated owner '%s' (%s) successfully!\n", u.Email, u.ID)
}
