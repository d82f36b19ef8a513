// Package main seeds the database with the starting fleet and, optionally,
// an admin account.
//
// Run it once against a fresh database:
//
//	DB_PATH=data/cars.db ADMIN_EMAIL=boss@example.com ADMIN_PASSWORD=... go run ./cmd/seed
//
// Seeding is idempotent: cars are matched by license plate and the admin by
// email, so repeat runs skip rows that already exist instead of erroring.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/gccheapcars/rental-api/internal/apperror"
	"github.com/gccheapcars/rental-api/internal/auth"
	"github.com/gccheapcars/rental-api/internal/model"
	sqliteRepo "github.com/gccheapcars/rental-api/internal/repository/sqlite"
)

// fleet is the business's actual six-car starting lineup.
var fleet = []model.Car{
	{Make: "Mitsubishi", Model: "Lancer", Year: 2011, WeeklyRate: 180, Available: true, LicensePlate: "ABC-123",
		ImageURL: "https://images.unsplash.com/photo-1552519507-da3b142c6e3d?w=600"},
	{Make: "Nissan", Model: "Micra", Year: 2012, WeeklyRate: 170, Available: true, LicensePlate: "DEF-456",
		ImageURL: "https://images.unsplash.com/photo-1502877338535-766e1452684a?w=600"},
	{Make: "Mazda", Model: "3", Year: 2013, WeeklyRate: 165, Available: true, LicensePlate: "GHI-789",
		ImageURL: "https://images.unsplash.com/photo-1494976388531-d1058494cdd8?w=600"},
	{Make: "Nissan", Model: "Tiida", Year: 2014, WeeklyRate: 175, Available: true, LicensePlate: "JKL-012",
		ImageURL: "https://images.unsplash.com/photo-1511919884226-fd3cad34687c?w=600"},
	{Make: "Toyota", Model: "Yaris", Year: 2015, WeeklyRate: 185, Available: true, LicensePlate: "MNO-345",
		ImageURL: "https://images.unsplash.com/photo-1533473359331-0135ef1b58bf?w=600"},
	{Make: "Kia", Model: "Rio", Year: 2013, WeeklyRate: 160, Available: true, LicensePlate: "PQR-678",
		ImageURL: "https://images.unsplash.com/photo-1549317661-bd32c8ce0db2?w=600"},
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	dbPath := "data/cars.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	db, err := sqliteRepo.New(dbPath)
	if err != nil {
		logger.Error("failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()

	seeded, skipped := seedFleet(ctx, sqliteRepo.NewCarRepo(db), logger)
	logger.Info("fleet seeding complete",
		slog.Int("created", seeded),
		slog.Int("skipped", skipped),
	)

	if err := seedAdmin(ctx, sqliteRepo.NewUserRepo(db), logger); err != nil {
		logger.Error("failed to seed admin user", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func seedFleet(ctx context.Context, cars *sqliteRepo.CarRepo, logger *slog.Logger) (created, skipped int) {
	for _, car := range fleet {
		c := car
		err := cars.Create(ctx, &c)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperror.ErrConflict):
			// Already seeded on a previous run.
			skipped++
		default:
			logger.Error("failed to seed car",
				slog.String("licensePlate", car.LicensePlate),
				slog.String("error", err.Error()),
			)
		}
	}
	return created, skipped
}

// seedAdmin creates the initial admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Both unset means no admin is wanted; only one set is a
// configuration mistake.
func seedAdmin(ctx context.Context, users *sqliteRepo.UserRepo, logger *slog.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" && password == "" {
		logger.Info("ADMIN_EMAIL not set — skipping admin user")
		return nil
	}
	if email == "" || password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	hash, err := auth.NewPasswordService().Hash(password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	err = users.Create(ctx, admin)
	if errors.Is(err, apperror.ErrConflict) {
		logger.Info("admin user already exists", slog.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("admin user created",
		slog.Int64("id", admin.ID),
		slog.String("email", email),
	)
	return nil
}
