// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command seed creates or refreshes an activated account.
//
// Usage:
//
//	DATABASE_URL=postgres://... seed -email admin@example.com -password 'secret123' -admin
//
// An existing account with the same email keeps its id; every other
// column is overwritten and all pending tokens are dropped.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/yomira-auth/data/migrations"
	"github.com/taibuivan/yomira-auth/internal/platform/constants"
	"github.com/taibuivan/yomira-auth/internal/platform/migration"
	pgstore "github.com/taibuivan/yomira-auth/internal/platform/postgres"
	"github.com/taibuivan/yomira-auth/internal/platform/sec"
	"github.com/taibuivan/yomira-auth/internal/users/auth"
	"github.com/taibuivan/yomira-auth/pkg/mailaddr"
	"github.com/taibuivan/yomira-auth/pkg/uuid"
)

// seedConfig is the subset of the server environment the seeder needs.
type seedConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
}

// account holds the command-line flags.
type account struct {
	email     string
	password  string
	firstName string
	lastName  string
	admin     bool
	migrate   bool
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", constants.AppName+"-seed"))

	input, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Error("invalid_arguments", slog.Any("error", err))
		os.Exit(2)
	}

	cfg := seedConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Error("load_configuration_failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, input, log); err != nil {
		log.Error("seed_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// parseFlags reads and checks the account flags.
func parseFlags(args []string) (account, error) {
	var input account

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	fs.StringVar(&input.email, "email", "", "account email (required)")
	fs.StringVar(&input.password, "password", "", "account password (required)")
	fs.StringVar(&input.firstName, "first", "Admin", "first name")
	fs.StringVar(&input.lastName, "last", "User", "last name")
	fs.BoolVar(&input.admin, "admin", false, "grant the admin flag")
	fs.BoolVar(&input.migrate, "migrate", true, "apply migrations first")

	if err := fs.Parse(args); err != nil {
		return account{}, err
	}

	input.email = mailaddr.Normalize(input.email)
	if input.email == "" {
		return account{}, errors.New("-email is required")
	}
	if len(input.password) < auth.PasswordMinLen || len(input.password) > auth.PasswordMaxLen {
		return account{}, fmt.Errorf("-password must be %d to %d characters", auth.PasswordMinLen, auth.PasswordMaxLen)
	}

	return input, nil
}

// run upserts the account.
func run(ctx context.Context, cfg seedConfig, input account, log *slog.Logger) error {
	if input.migrate {
		if err := migration.RunUp(cfg.DatabaseURL, migrations.Files, log); err != nil {
			return err
		}
	}

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, pgstore.Options{MaxConns: 2}, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	repository := auth.NewUserRepository(pool)

	id := uuid.New()
	existing, err := repository.FindByEmail(ctx, input.email)
	switch {
	case err == nil:
		id = existing.ID
	case !errors.Is(err, auth.ErrUserNotFound):
		return err
	}

	hashedPassword, err := sec.HashPassword(input.password)
	if err != nil {
		return err
	}

	user := &auth.User{
		ID:           id,
		Email:        input.email,
		PasswordHash: hashedPassword,
		FirstName:    input.firstName,
		LastName:     input.lastName,
		IsAdmin:      input.admin,
		Terms:        true,
	}
	if err := repository.Save(ctx, user); err != nil {
		return err
	}

	log.Info("account_seeded",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.Bool("admin", user.IsAdmin),
	)
	return nil
}
