package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

type Repository struct {
	db *sqlx.DB
}

func NewSnapshotRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const (
	equipmentQuery = `SELECT id, asset_tag, serial, equipment_type, brand, model, os, criticality, confidentiality, status, is_rented, registered_at
		FROM equipment ORDER BY asset_tag ASC`
	assignmentQuery = `SELECT id, user_id, equipment_id, assigned_at, returned_at, status, notes
		FROM assignments ORDER BY assigned_at DESC, created_at DESC`
	documentQuery = `SELECT id, doc_type, equipment_id FROM documents`
	userQuery     = `SELECT id, name, position, area FROM users ORDER BY name ASC`
)

// snapshotTxOptions pins one database snapshot for every query of a Load.
// Under READ COMMITTED each SELECT would see its own snapshot, and a return
// committing between the equipment and assignment reads would look like drift.
var snapshotTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// Load reads all four tables inside one repeatable-read transaction so
// counts agree with each other.
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	tx, err := r.db.BeginTxx(ctx, snapshotTxOptions)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	snap := &Snapshot{TakenAt: time.Now()}
	if err := tx.SelectContext(ctx, &snap.Equipment, equipmentQuery); err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}
	if err := tx.SelectContext(ctx, &snap.Assignments, assignmentQuery); err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	if err := tx.SelectContext(ctx, &snap.Documents, documentQuery); err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	if err := tx.SelectContext(ctx, &snap.Users, userQuery); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}
	return snap, nil
}
