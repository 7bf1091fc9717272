package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nahanni/placekeeper/internal/pkg/config"
)

// Applies the migration set matching the configured spatial backend:
// migrations/geometry for the PostGIS store, migrations/pairs for the
// plain lat/lng store.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up>")
	}

	cfg, err := config.Load("placekeeper-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		dir := filepath.Join("migrations", cfg.Database.Backend)
		runMigrations(ctx, pool, dir)
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, dir string) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		log.Fatalf("glob %s: %v", dir, err)
	}
	if len(files) == 0 {
		log.Fatalf("no migrations found in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		if _, err := pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}

		fmt.Printf("OK  %s\n", f)
	}

	log.Println("all migrations applied")
}
