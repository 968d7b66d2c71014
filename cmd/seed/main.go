package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/meur/biblioteca/internal/config"
	"github.com/meur/biblioteca/internal/logger"
	"github.com/meur/biblioteca/internal/models"
	"github.com/meur/biblioteca/internal/storage"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	seedPath := flag.String("seed", "./seeds/biblioteca.json", "JSON file with a list of items")
	flag.Parse()

	log := logger.New("biblioteca-seed", cfg.LogLevel)
	defer log.Sync()

	items, err := loadSeed(*seedPath, log)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedPath), zap.Error(err))
	}

	store, err := storage.New(*dbPath, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	n, err := store.BulkCreateItems(context.Background(), items)
	if err != nil {
		log.Fatal("Failed to seed items", zap.Error(err))
	}

	log.Info("Seeding complete", zap.Int("items", n), zap.String("database", *dbPath))
}

// loadSeed reads the seed file and drops entries that would violate the
// row invariants.
func loadSeed(path string, log *zap.Logger) ([]models.ItemInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []models.ItemInput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	items := make([]models.ItemInput, 0, len(raw))
	for i, item := range raw {
		item.Normalize()
		if err := item.Validate(); err != nil {
			log.Warn("Skipping seed entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
