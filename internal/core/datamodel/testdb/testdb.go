// Package testdb opens throwaway SQLite databases that carry the same tables,
// constraints and partial indexes as db/migrations.
package testdb

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		process TEXT NOT NULL,
		assigned_group TEXT NOT NULL,
		area TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		location TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		registered_at DATE,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE equipment (
		id TEXT PRIMARY KEY,
		asset_tag TEXT NOT NULL UNIQUE,
		serial TEXT NOT NULL DEFAULT '',
		equipment_type TEXT NOT NULL,
		brand TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		os TEXT NOT NULL DEFAULT '',
		os_version TEXT NOT NULL DEFAULT '',
		ram TEXT NOT NULL DEFAULT '',
		disk TEXT NOT NULL DEFAULT '',
		technology TEXT NOT NULL DEFAULT '',
		criticality TEXT NOT NULL,
		confidentiality TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'Disponible',
		registered_at DATE,
		purchased_at DATE,
		supplier TEXT NOT NULL DEFAULT '',
		cost NUMERIC,
		is_rented BOOLEAN NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE assignments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users (id) ON DELETE RESTRICT,
		equipment_id TEXT NOT NULL REFERENCES equipment (id) ON DELETE RESTRICT,
		assigned_at DATE NOT NULL,
		returned_at DATE,
		status TEXT NOT NULL DEFAULT 'Activa',
		notes TEXT NOT NULL DEFAULT '',
		act_document_url TEXT,
		resume_document_url TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX idx_assignments_one_active ON assignments (equipment_id) WHERE status = 'Activa'`,
	`CREATE TABLE accessories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		asset_tag TEXT NOT NULL DEFAULT '',
		serial TEXT NOT NULL DEFAULT '',
		equipment_id TEXT REFERENCES equipment (id) ON DELETE RESTRICT,
		quantity INTEGER NOT NULL DEFAULT 1,
		status TEXT NOT NULL DEFAULT 'Disponible',
		notes TEXT NOT NULL DEFAULT '',
		registered_at DATE,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE documents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		doc_type TEXT NOT NULL,
		equipment_id TEXT REFERENCES equipment (id) ON DELETE SET NULL,
		assignment_id TEXT REFERENCES assignments (id) ON DELETE SET NULL,
		user_id TEXT REFERENCES users (id) ON DELETE SET NULL,
		url TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		uploaded_at DATETIME,
		uploaded_by TEXT NOT NULL DEFAULT '',
		created_at DATETIME,
		updated_at DATETIME
	)`,
}

// Open returns an isolated in-memory database. Each call gets its own
// named shared-cache database so pooled connections see the same data.
func Open() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// a single connection serializes transactions the way the shared cache expects
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}
	return db, nil
}
