package main

import (
	"context"
	"flag"
	"trip-planner-service/internal/adapters/repositories"
	"trip-planner-service/internal/config"
	"trip-planner-service/internal/platform/obs"

	"github.com/sirupsen/logrus"
)

// dbtool prepares the configured plan store: it creates the SQLite tables or
// applies the Postgres migrations, then optionally imports a plan export.
func main() {
	seedFlag := flag.String("seed", "", "plan export file to import (defaults to SEED_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal(err)
	}
	log, err := obs.Configure(cfg.LogLevel, "text")
	if err != nil {
		logrus.Fatal(err)
	}
	if cfg.StoreBackend == config.BackendMemory {
		log.Fatal("dbtool needs a persistent STORE_BACKEND, got memory")
	}

	ctx := context.Background()

	log.WithField("backend", cfg.StoreBackend).Info("initializing plan store...")
	repo, closeRepo, err := repositories.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	defer closeRepo()
	log.Info("schema ready")

	seedPath := *seedFlag
	if seedPath == "" {
		seedPath = config.Get("SEED_PATH", cfg.SeedPath)
	}
	if seedPath == "" {
		return
	}

	log.WithField("path", seedPath).Info("seeding plan...")
	if err := repositories.SeedFromJSON(ctx, repo, seedPath); err != nil {
		closeRepo()
		log.Fatalf("seeding failed: %v", err)
	}
	log.Info("seeding complete")
}
