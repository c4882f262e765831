package database

import (
	"context"
	"fmt"
	"strconv"

	"photo-gallery/internal/config"
	"photo-gallery/internal/gallery"
	"photo-gallery/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	settingStorageTotalGB = "storage_total_gb"
)

// folderRow keeps the dashboard order, which models.Folder does not carry
type folderRow struct {
	Position      int `gorm:"index"`
	models.Folder `gorm:"embedded"`
}

func (folderRow) TableName() string {
	return "folders"
}

// SnapshotStore persists the folders, media and storage plan between restarts
type SnapshotStore struct {
	db *gorm.DB
}

// OpenSnapshotStore connects using cfg.SnapshotDriver
func OpenSnapshotStore(cfg *config.Config) (*SnapshotStore, error) {
	switch cfg.SnapshotDriver {
	case DriverSQLite:
		return OpenSQLiteSnapshots(cfg.SnapshotPath)
	case DriverPostgres:
		return OpenPostgresSnapshots(cfg)
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", cfg.SnapshotDriver)
	}
}

func OpenSQLiteSnapshots(path string) (*SnapshotStore, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect to SQLite at %s: %w", path, err)
	}
	if path == ":memory:" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	log.Printf("Connected to SQLite at %s", path)
	return newSnapshotStore(db)
}

func OpenPostgresSnapshots(cfg *config.Config) (*SnapshotStore, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	log.Println("Connected to PostgreSQL successfully")
	return newSnapshotStore(db)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
}

func newSnapshotStore(db *gorm.DB) (*SnapshotStore, error) {
	if err := db.AutoMigrate(&folderRow{}, &models.MediaItem{}, &models.SystemSetting{}); err != nil {
		return nil, fmt.Errorf("auto-migration: %w", err)
	}
	log.Println("Database migration completed")
	return &SnapshotStore{db: db}, nil
}

// Save replaces everything stored with snap in one transaction
func (s *SnapshotStore) Save(ctx context.Context, snap gallery.Snapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&folderRow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.MediaItem{}).Error; err != nil {
			return err
		}

		if len(snap.Folders) > 0 {
			rows := make([]folderRow, len(snap.Folders))
			for i, f := range snap.Folders {
				rows[i] = folderRow{Position: i, Folder: f}
			}
			if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
				return fmt.Errorf("save folders: %w", err)
			}
		}
		if len(snap.Media) > 0 {
			if err := tx.CreateInBatches(&snap.Media, 100).Error; err != nil {
				return fmt.Errorf("save media: %w", err)
			}
		}

		setting := models.SystemSetting{
			Key:   settingStorageTotalGB,
			Value: strconv.FormatFloat(snap.TotalGB, 'f', -1, 64),
		}
		return tx.Save(&setting).Error
	})
}

// Load reads the stored snapshot. An empty database yields an empty snapshot.
func (s *SnapshotStore) Load(ctx context.Context) (gallery.Snapshot, error) {
	db := s.db.WithContext(ctx)

	var rows []folderRow
	if err := db.Order("position").Find(&rows).Error; err != nil {
		return gallery.Snapshot{}, fmt.Errorf("load folders: %w", err)
	}
	var media []models.MediaItem
	if err := db.Order("id").Find(&media).Error; err != nil {
		return gallery.Snapshot{}, fmt.Errorf("load media: %w", err)
	}

	snap := gallery.Snapshot{Media: media}
	for _, r := range rows {
		snap.Folders = append(snap.Folders, r.Folder)
	}

	var setting models.SystemSetting
	if err := db.Where("key = ?", settingStorageTotalGB).Limit(1).Find(&setting).Error; err != nil {
		return gallery.Snapshot{}, fmt.Errorf("load settings: %w", err)
	}
	if setting.Value != "" {
		total, err := strconv.ParseFloat(setting.Value, 64)
		if err != nil {
			log.Printf("Warning: ignoring stored %s=%q: %v", settingStorageTotalGB, setting.Value, err)
		} else {
			snap.TotalGB = total
		}
	}
	return snap, nil
}

func (s *SnapshotStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
