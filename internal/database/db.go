package database

import (
	"context"
	"database/sql"
	"fmt"

	"photo-gallery/internal/gallery"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

// ActivityLog is the append-only history of committed gallery changes,
// kept in SQLite through database/sql.
type ActivityLog struct {
	db *sql.DB
}

func OpenActivityLog(dbPath string) (*ActivityLog, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	if dbPath == ":memory:" {
		// every new connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	createActivitySQL := `CREATE TABLE IF NOT EXISTS activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		folder_id TEXT,
		kind TEXT NOT NULL,
		media_id TEXT,
		amount REAL DEFAULT 0,
		detail TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(createActivitySQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table activity: %w", err)
	}

	createIndexSQL := `CREATE INDEX IF NOT EXISTS idx_activity_folder ON activity (folder_id, id);`
	if _, err := db.Exec(createIndexSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create activity index: %w", err)
	}

	log.WithField("path", dbPath).Info("Activity log ready")
	return &ActivityLog{db: db}, nil
}

func (l *ActivityLog) Record(ctx context.Context, a gallery.Activity) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT INTO activity (folder_id, kind, media_id, amount, detail, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		a.FolderID, a.Kind, a.MediaID, a.Amount, a.Detail, a.CreatedAt.UTC(),
	)
	return err
}

// List returns the newest entries for a folder first. A limit <= 0 returns all.
func (l *ActivityLog) List(ctx context.Context, folderID string, limit int) ([]gallery.Activity, error) {
	query := "SELECT id, folder_id, kind, media_id, amount, detail, created_at FROM activity WHERE folder_id = ? ORDER BY id DESC"
	args := []interface{}{folderID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activity := []gallery.Activity{}
	for rows.Next() {
		var a gallery.Activity
		var mediaID, detail sql.NullString
		if err := rows.Scan(&a.ID, &a.FolderID, &a.Kind, &mediaID, &a.Amount, &detail, &a.CreatedAt); err != nil {
			log.Printf("Error scanning activity row: %v", err)
			continue
		}
		a.MediaID = mediaID.String
		a.Detail = detail.String
		activity = append(activity, a)
	}
	return activity, rows.Err()
}

func (l *ActivityLog) Close() error {
	return l.db.Close()
}
