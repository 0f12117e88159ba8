// Command createadmin adds an administrator account to the configured database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"slotbooking/config"
	"slotbooking/internal/adapters/auth"
	"slotbooking/internal/repository/postgres"
	"slotbooking/internal/services"
)

func main() {
	name := flag.String("name", "", "admin display name")
	emailAddr := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password (or ADMIN_PASSWORD)")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := config.NewLogger(cfg, os.Stderr)

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if cfg.RunMigrations {
		if err := postgres.Migrate(db, logger); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	stores := postgres.NewStores(db)
	svc := services.NewAdminService(stores.Admins, auth.NewBcryptHasher(auth.DefaultCost), nil, cfg.JWTExpiry, cfg.ContextTimeout)
	admin, err := svc.CreateAdmin(ctx, *name, *emailAddr, *password)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	fmt.Printf("created admin %d (%s)\n", admin.ID, admin.Email)
}
