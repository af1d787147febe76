// Package snapshot reads a consistent, read-only copy of the inventory tables
// for aggregation and reporting.
package snapshot

import (
	"database/sql"
	"time"
)

type Equipment struct {
	ID              string    `db:"id"`
	AssetTag        string    `db:"asset_tag"`
	Serial          string    `db:"serial"`
	EquipmentType   string    `db:"equipment_type"`
	Brand           string    `db:"brand"`
	Model           string    `db:"model"`
	OS              string    `db:"os"`
	Criticality     string    `db:"criticality"`
	Confidentiality string    `db:"confidentiality"`
	Status          string    `db:"status"`
	IsRented        bool      `db:"is_rented"`
	RegisteredAt    time.Time `db:"registered_at"`
}

type Assignment struct {
	ID          string       `db:"id"`
	UserID      string       `db:"user_id"`
	EquipmentID string       `db:"equipment_id"`
	AssignedAt  time.Time    `db:"assigned_at"`
	ReturnedAt  sql.NullTime `db:"returned_at"`
	Status      string       `db:"status"`
	Notes       string       `db:"notes"`
}

type Document struct {
	ID          string         `db:"id"`
	DocType     string         `db:"doc_type"`
	EquipmentID sql.NullString `db:"equipment_id"`
}

type User struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	Position string `db:"position"`
	Area     string `db:"area"`
}

// Snapshot is every row the dashboard and reports need, read in one transaction.
type Snapshot struct {
	Equipment   []Equipment
	Assignments []Assignment
	Documents   []Document
	Users       []User
	TakenAt     time.Time
}

// UsersByID indexes users for lookups from assignments.
func (s *Snapshot) UsersByID() map[string]User {
	out := make(map[string]User, len(s.Users))
	for _, u := range s.Users {
		out[u.ID] = u
	}
	return out
}

// EquipmentByID indexes equipment for lookups from assignments.
func (s *Snapshot) EquipmentByID() map[string]Equipment {
	out := make(map[string]Equipment, len(s.Equipment))
	for _, e := range s.Equipment {
		out[e.ID] = e
	}
	return out
}

// DocumentTypesByEquipment returns, per equipment id, the set of document
// types that reference it.
func (s *Snapshot) DocumentTypesByEquipment() map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, d := range s.Documents {
		if !d.EquipmentID.Valid {
			continue
		}
		types, ok := out[d.EquipmentID.String]
		if !ok {
			types = make(map[string]bool)
			out[d.EquipmentID.String] = types
		}
		types[d.DocType] = true
	}
	return out
}
