// Package main provides a tool to seed the database with an admin account
// and, optionally, a demo product catalog.
//
// Usage:
//
//	DATA_PATH=~/suncrest go run ./cmd/seed --email admin@example.com --password secret --name "Site Admin"
//	DATA_PATH=~/suncrest go run ./cmd/seed --email admin@example.com --password secret --products
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/suncrest/suncrest-server/internal/auth"
	"github.com/suncrest/suncrest-server/internal/domain"
	"github.com/suncrest/suncrest-server/internal/id"
	"github.com/suncrest/suncrest-server/internal/store"
)

var (
	email        = flag.String("email", "", "Admin email address (required)")
	password     = flag.String("password", "", "Admin password (required)")
	name         = flag.String("name", "Administrator", "Admin display name")
	seedProducts = flag.Bool("products", false, "Also create a demo product catalog")
)

func main() {
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/suncrest")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil, store.NewNoopEmitter())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	if err := createAdmin(ctx, s); err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	if *seedProducts {
		if err := createDemoProducts(ctx, s); err != nil {
			log.Fatalf("Failed to create demo products: %v", err)
		}
	}
}

func createAdmin(ctx context.Context, s *store.Store) error {
	existing, err := s.GetUserByEmail(ctx, *email)
	if err == nil {
		fmt.Printf("User %s already exists (%s), nothing to do\n", existing.Email, existing.ID)
		return nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return err
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Syncable:     domain.Syncable{ID: id.MustGenerate("user")},
		Email:        *email,
		PasswordHash: hash,
		Name:         *name,
		Role:         domain.RoleAdmin,
	}
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		return err
	}

	fmt.Printf("Created admin user %s (%s)\n", user.Email, user.ID)
	return nil
}

func createDemoProducts(ctx context.Context, s *store.Store) error {
	demo := []*domain.Product{
		{
			Name:        "550W Monocrystalline Panel",
			Price:       189.99,
			Capacity:    "550W",
			Description: "High-efficiency panel for residential rooftop arrays.",
			Details: map[string]any{
				"Cell Type":  "Monocrystalline",
				"Efficiency": "21.3%",
				"Warranty":   "25 years",
			},
		},
		{
			Name:        "5kWh Lithium Home Battery",
			Price:       2499.00,
			Capacity:    "5kWh",
			Description: "Wall-mounted storage with integrated BMS.",
			Details: map[string]any{
				"Chemistry":    "LiFePO4",
				"Cycle Life":   "6000 cycles",
				"Depth of Use": "95%",
			},
		},
		{
			Name:        "8kW Hybrid Inverter",
			Price:       1799.00,
			Capacity:    "8kW",
			Description: "Grid-tied hybrid inverter with battery input.",
			Details: map[string]any{
				"MPPT Trackers": "2",
				"Peak Output":   "12kW",
			},
		},
	}

	for _, p := range demo {
		p.Syncable = domain.Syncable{ID: id.MustGenerate("prod")}
		p.InitTimestamps()
		if p.Images == nil {
			p.Images = []string{}
		}
		if err := s.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("create %q: %w", p.Name, err)
		}
		fmt.Printf("Created product %s (%s)\n", p.Name, p.ID)
	}

	return nil
}
