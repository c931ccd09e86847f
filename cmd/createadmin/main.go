// Command createadmin bootstraps an administrator account. Every other
// account is created through the API by an existing admin; this is the
// way in for the first one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"splitkb-catalog/internal/config"
	"splitkb-catalog/internal/database"
	"splitkb-catalog/internal/domain"
	"splitkb-catalog/internal/repository"
	"splitkb-catalog/internal/service"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password (or set ADMIN_PASSWORD)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if *username == "" || *password == "" {
		log.Fatal("both -username and a password (flag or ADMIN_PASSWORD) are required")
	}
	if len(*password) < 8 {
		log.Fatal("password must be at least 8 characters")
	}

	cfg := config.Load()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer dbService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), service.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &domain.Admin{
		Username:     *username,
		PasswordHash: string(hashed),
	}

	repo := repository.NewAdminRepository(dbService.DB())
	if err := repo.Create(ctx, admin); err != nil {
		if err == repository.ErrAdminAlreadyExists {
			log.Fatalf("admin %q already exists", *username)
		}
		log.Fatalf("failed to create admin: %v", err)
	}

	fmt.Printf("created admin %q (id %d)\n", admin.Username, admin.ID)
}
