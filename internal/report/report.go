// Package report builds flat, exportable projections of the inventory.
package report

import (
	"sort"
	"time"

	"github.com/frahmantamala/asset-management/internal"
	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/frahmantamala/asset-management/internal/snapshot"
)

const (
	Inventory         = "inventory"
	MissingDocuments  = "missing-documents"
	AssignmentHistory = "assignment-history"
)

var Names = []string{Inventory, MissingDocuments, AssignmentHistory}

// Row is one exported line. Record must follow the order of the report header.
type Row interface {
	Record() []string
}

type Report struct {
	Name   string
	Header []string
	Rows   []Row
}

var inventoryHeader = []string{
	"placa", "serial", "tipo", "marca", "modelo", "so", "criticidad", "confidencialidad",
	"estado", "responsable", "area", "es_rentado", "fecha_registro",
}

type InventoryRow struct {
	AssetTag        string `json:"placa"`
	Serial          string `json:"serial"`
	EquipmentType   string `json:"tipo"`
	Brand           string `json:"marca"`
	Model           string `json:"modelo"`
	OS              string `json:"so"`
	Criticality     string `json:"criticidad"`
	Confidentiality string `json:"confidencialidad"`
	Status          string `json:"estado"`
	Responsible     string `json:"responsable"`
	Area            string `json:"area"`
	IsRented        string `json:"es_rentado"`
	RegisteredAt    string `json:"fecha_registro"`
}

func (r InventoryRow) Record() []string {
	return []string{
		r.AssetTag, r.Serial, r.EquipmentType, r.Brand, r.Model, r.OS, r.Criticality, r.Confidentiality,
		r.Status, r.Responsible, r.Area, r.IsRented, r.RegisteredAt,
	}
}

var missingDocumentsHeader = []string{"placa", "tipo", "estado", "sin_acta", "sin_hoja_vida"}

type MissingDocumentsRow struct {
	AssetTag      string `json:"placa"`
	EquipmentType string `json:"tipo"`
	Status        string `json:"estado"`
	MissingAct    string `json:"sin_acta"`
	MissingResume string `json:"sin_hoja_vida"`
}

func (r MissingDocumentsRow) Record() []string {
	return []string{r.AssetTag, r.EquipmentType, r.Status, r.MissingAct, r.MissingResume}
}

var assignmentHistoryHeader = []string{
	"equipo_placa", "equipo_tipo", "usuario", "area", "fecha_asignacion", "fecha_devolucion", "estado",
}

type AssignmentHistoryRow struct {
	AssetTag      string `json:"equipo_placa"`
	EquipmentType string `json:"equipo_tipo"`
	UserName      string `json:"usuario"`
	Area          string `json:"area"`
	AssignedAt    string `json:"fecha_asignacion"`
	ReturnedAt    string `json:"fecha_devolucion"`
	Status        string `json:"estado"`
}

func (r AssignmentHistoryRow) Record() []string {
	return []string{r.AssetTag, r.EquipmentType, r.UserName, r.Area, r.AssignedAt, r.ReturnedAt, r.Status}
}

// Build projects a snapshot into the named report. ok is false for unknown names.
func Build(name string, snap *snapshot.Snapshot) (*Report, bool) {
	switch name {
	case Inventory:
		return &Report{Name: name, Header: inventoryHeader, Rows: inventoryRows(snap)}, true
	case MissingDocuments:
		return &Report{Name: name, Header: missingDocumentsHeader, Rows: missingDocumentsRows(snap)}, true
	case AssignmentHistory:
		return &Report{Name: name, Header: assignmentHistoryHeader, Rows: assignmentHistoryRows(snap)}, true
	}
	return nil, false
}

func inventoryRows(snap *snapshot.Snapshot) []Row {
	users := snap.UsersByID()
	holder := make(map[string]snapshot.User)
	for _, a := range snap.Assignments {
		if a.Status != inventory.AssignmentActive {
			continue
		}
		if u, ok := users[a.UserID]; ok {
			holder[a.EquipmentID] = u
		}
	}

	rows := make([]Row, 0, len(snap.Equipment))
	for _, e := range snap.Equipment {
		row := InventoryRow{
			AssetTag:        e.AssetTag,
			Serial:          e.Serial,
			EquipmentType:   e.EquipmentType,
			Brand:           e.Brand,
			Model:           e.Model,
			OS:              e.OS,
			Criticality:     e.Criticality,
			Confidentiality: e.Confidentiality,
			Status:          e.Status,
			Responsible:     inventory.Unassigned,
			IsRented:        inventory.YesNo(e.IsRented),
			RegisteredAt:    formatDate(e.RegisteredAt),
		}
		if u, ok := holder[e.ID]; ok {
			row.Responsible = u.Name
			row.Area = u.Area
		}
		rows = append(rows, row)
	}
	return rows
}

func missingDocumentsRows(snap *snapshot.Snapshot) []Row {
	docs := snap.DocumentTypesByEquipment()
	rows := []Row{}
	for _, e := range snap.Equipment {
		if e.Status == inventory.StatusDecommissioned {
			continue
		}
		hasAct := docs[e.ID][inventory.DocumentAct]
		hasResume := docs[e.ID][inventory.DocumentResume]
		if hasAct && hasResume {
			continue
		}
		rows = append(rows, MissingDocumentsRow{
			AssetTag:      e.AssetTag,
			EquipmentType: e.EquipmentType,
			Status:        e.Status,
			MissingAct:    inventory.YesNo(!hasAct),
			MissingResume: inventory.YesNo(!hasResume),
		})
	}
	return rows
}

func assignmentHistoryRows(snap *snapshot.Snapshot) []Row {
	users := snap.UsersByID()
	equipment := snap.EquipmentByID()

	assignments := make([]snapshot.Assignment, len(snap.Assignments))
	copy(assignments, snap.Assignments)
	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].AssignedAt.After(assignments[j].AssignedAt)
	})

	rows := make([]Row, 0, len(assignments))
	for _, a := range assignments {
		u := users[a.UserID]
		e := equipment[a.EquipmentID]
		returned := inventory.StillActive
		if a.ReturnedAt.Valid {
			returned = formatDate(a.ReturnedAt.Time)
		}
		rows = append(rows, AssignmentHistoryRow{
			AssetTag:      e.AssetTag,
			EquipmentType: e.EquipmentType,
			UserName:      u.Name,
			Area:          u.Area,
			AssignedAt:    formatDate(a.AssignedAt),
			ReturnedAt:    returned,
			Status:        a.Status,
		})
	}
	return rows
}

func formatDate(t time.Time) string {
	return internal.NewDate(t).String()
}
