package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/frahmantamala/asset-management/internal/core/inventory"
	"github.com/frahmantamala/asset-management/internal/snapshot"
)

const (
	AlertWarning = "warning"
	AlertError   = "error"
	AlertInfo    = "info"
)

// Group is one bar of a distribution chart.
type Group struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type Alert struct {
	Type      string   `json:"tipo"`
	Message   string   `json:"mensaje"`
	AssetTags []string `json:"equipos,omitempty"`
}

type Stats struct {
	TotalEquipment int       `json:"total_equipos"`
	Assigned       int       `json:"equipos_asignados"`
	Available      int       `json:"equipos_disponibles"`
	Critical       int       `json:"equipos_criticos"`
	MissingAct     int       `json:"equipos_sin_acta"`
	MissingResume  int       `json:"equipos_sin_hoja_vida"`
	Rented         int       `json:"equipos_rentados"`
	ByArea         []Group   `json:"por_area"`
	ByCriticality  []Group   `json:"por_criticidad"`
	ByOS           []Group   `json:"por_so"`
	ByStatus       []Group   `json:"por_estado"`
	ByType         []Group   `json:"por_tipo"`
	Alerts         []Alert   `json:"alertas"`
	GeneratedAt    time.Time `json:"generado_en"`
}

// Compute derives every KPI from a snapshot. It performs no I/O.
func Compute(snap *snapshot.Snapshot) Stats {
	stats := Stats{GeneratedAt: snap.TakenAt}
	docs := snap.DocumentTypesByEquipment()

	byCriticality := map[string]int{}
	byOS := map[string]int{}
	byStatus := map[string]int{}
	byType := map[string]int{}

	for _, e := range snap.Equipment {
		byStatus[e.Status]++
		byType[e.EquipmentType]++
		if e.IsRented {
			stats.Rented++
		}
		if inventory.IsCritical(e.Criticality) {
			stats.Critical++
		}
		if e.Status == inventory.StatusDecommissioned {
			continue
		}

		stats.TotalEquipment++
		switch e.Status {
		case inventory.StatusAssigned:
			stats.Assigned++
		case inventory.StatusAvailable:
			stats.Available++
		}
		if !docs[e.ID][inventory.DocumentAct] {
			stats.MissingAct++
		}
		if !docs[e.ID][inventory.DocumentResume] {
			stats.MissingResume++
		}
		byCriticality[e.Criticality]++
		if os := strings.TrimSpace(e.OS); os != "" {
			byOS[os]++
		}
	}

	users := snap.UsersByID()
	byArea := map[string]int{}
	for _, a := range snap.Assignments {
		if a.Status != inventory.AssignmentActive {
			continue
		}
		area := inventory.NoArea
		if u, ok := users[a.UserID]; ok && strings.TrimSpace(u.Area) != "" {
			area = u.Area
		}
		byArea[area]++
	}

	stats.ByArea = groups(byArea)
	stats.ByCriticality = groups(byCriticality)
	stats.ByOS = groups(byOS)
	stats.ByStatus = groups(byStatus)
	stats.ByType = groups(byType)
	stats.Alerts = alerts(stats, FindIntegrityDrift(snap))
	return stats
}

// FindIntegrityDrift returns equipment marked Assigned that has no Active
// assignment backing it, ordered by asset tag.
func FindIntegrityDrift(snap *snapshot.Snapshot) []snapshot.Equipment {
	active := make(map[string]bool)
	for _, a := range snap.Assignments {
		if a.Status == inventory.AssignmentActive {
			active[a.EquipmentID] = true
		}
	}

	var drift []snapshot.Equipment
	for _, e := range snap.Equipment {
		if e.Status == inventory.StatusAssigned && !active[e.ID] {
			drift = append(drift, e)
		}
	}
	sort.Slice(drift, func(i, j int) bool { return drift[i].AssetTag < drift[j].AssetTag })
	return drift
}

func alerts(stats Stats, drift []snapshot.Equipment) []Alert {
	out := []Alert{}
	if stats.MissingAct > 0 {
		out = append(out, Alert{Type: AlertWarning, Message: fmt.Sprintf("%d equipos sin acta firmada", stats.MissingAct)})
	}
	if stats.MissingResume > 0 {
		out = append(out, Alert{Type: AlertWarning, Message: fmt.Sprintf("%d equipos sin hoja de vida", stats.MissingResume)})
	}
	if len(drift) > 0 {
		tags := make([]string, 0, len(drift))
		for _, e := range drift {
			tags = append(tags, e.AssetTag)
		}
		out = append(out, Alert{
			Type:      AlertError,
			Message:   fmt.Sprintf("%d equipos \"Asignado\" sin asignación activa registrada", len(drift)),
			AssetTags: tags,
		})
	}
	if stats.Rented > 0 {
		out = append(out, Alert{Type: AlertInfo, Message: fmt.Sprintf("%d equipo(s) rentado(s) activos", stats.Rented)})
	}
	return out
}

// groups flattens counts, largest first, ties broken by name.
func groups(counts map[string]int) []Group {
	out := make([]Group, 0, len(counts))
	for name, value := range counts {
		out = append(out, Group{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}
