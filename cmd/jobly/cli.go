package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"jobly/internal/config"
	"jobly/internal/domain"
	"jobly/internal/infra/auth/token"
	"jobly/internal/infra/db"
	httpinfra "jobly/internal/infra/http"
	"jobly/internal/logging"
)

func run(args []string) int {
	if len(args) < 2 {
		usage(args, os.Stderr)
		return 1
	}

	cfg := config.FromEnv()
	switch args[1] {
	case "serve":
		return runServe(cfg)
	case "migrate":
		return runMigrate(cfg)
	case "token":
		return runToken(cfg, args[2:], os.Stdout, os.Stderr)
	}

	usage(args, os.Stderr)
	return 1
}

func usage(args []string, w io.Writer) {
	name := "jobly"
	if len(args) > 0 && args[0] != "" {
		name = filepath.Base(args[0])
	}
	fmt.Fprintf(w, "usage:\n")
	fmt.Fprintf(w, "  %s serve\n", name)
	fmt.Fprintf(w, "  %s migrate\n", name)
	fmt.Fprintf(w, "  %s token --username <name> [--admin]\n", name)
}

func runServe(cfg config.Config) int {
	log := logging.New(cfg)
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 1
	}
	store, err := db.NewStore(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to init store")
		return 1
	}
	defer store.Close()

	srv := httpinfra.NewServer(cfg, store, log)
	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("server exited")
		return 1
	}
	return 0
}

func runMigrate(cfg config.Config) int {
	log := logging.New(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := db.Migrate(ctx, cfg.PostgresDSN); err != nil {
		log.Error().Err(err).Msg("migration failed")
		return 1
	}
	log.Info().Msg("schema up to date")
	return 0
}

// runToken prints a signed token, for local testing against a running
// server.
func runToken(cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("username", "", "token subject")
	admin := fs.Bool("admin", false, "grant admin")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *username == "" {
		fmt.Fprintln(stderr, "--username is required")
		return 1
	}
	manager, err := token.NewManager(token.Config{Secret: []byte(cfg.SecretKey), TTL: cfg.JWTTTL})
	if err != nil {
		fmt.Fprintf(stderr, "token: %v\n", err)
		return 1
	}
	tok, err := manager.Sign(domain.Identity{Username: *username, IsAdmin: *admin})
	if err != nil {
		fmt.Fprintf(stderr, "token: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, tok)
	return 0
}
