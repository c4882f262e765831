// Command migrate_data copies the gallery snapshot from the SQLite file at
// SNAPSHOT_PATH into the PostgreSQL database described by the DB_* settings.
package main

import (
	"context"

	"photo-gallery/internal/config"
	"photo-gallery/internal/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	// 1. Connect to SQLite (Source)
	source, err := database.OpenSQLiteSnapshots(cfg.SnapshotPath)
	if err != nil {
		log.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer source.Close()

	// 2. Connect to PostgreSQL (Destination)
	dest, err := database.OpenPostgresSnapshots(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dest.Close()

	log.Println("Starting data migration...")

	snap, err := source.Load(ctx)
	if err != nil {
		log.Fatalf("Error reading snapshot from SQLite: %v", err)
	}
	if snap.Empty() {
		log.Println("Nothing to migrate, source snapshot is empty")
		return
	}

	if err := dest.Save(ctx, snap); err != nil {
		log.Fatalf("Error writing snapshot to Postgres: %v", err)
	}

	log.WithFields(log.Fields{
		"folders":  len(snap.Folders),
		"media":    len(snap.Media),
		"total_gb": snap.TotalGB,
	}).Info("Migration completed!")
}
