// Package inventory holds the vocabularies shared by every asset component.
// Values are the wire and storage representation and must not be translated.
package inventory

// Equipment status.
const (
	StatusAvailable      = "Disponible"
	StatusAssigned       = "Asignado"
	StatusDamaged        = "Dañado"
	StatusDecommissioned = "Baja"
	StatusInReview       = "En revisión"
	StatusRented         = "Rentado"
)

var EquipmentStatuses = []string{
	StatusAvailable, StatusAssigned, StatusDamaged, StatusDecommissioned, StatusInReview, StatusRented,
}

// Criticality.
const (
	CriticalityLow      = "Baja"
	CriticalityMedium   = "Media"
	CriticalityHigh     = "Alta"
	CriticalityCritical = "Crítica"
)

var Criticalities = []string{CriticalityLow, CriticalityMedium, CriticalityHigh, CriticalityCritical}

// IsCritical reports whether a criticality counts toward the critical KPI.
func IsCritical(c string) bool {
	return c == CriticalityHigh || c == CriticalityCritical
}

var Confidentialities = []string{"Pública", "Interna", "Confidencial", "Restringida"}

var EquipmentTypes = []string{
	"Laptop", "Desktop", "Tablet", "Impresora", "Celular", "Monitor", "Servidor", "Switch", "Router", "UPS", "Otro",
}

// Assignment status.
const (
	AssignmentActive   = "Activa"
	AssignmentReturned = "Devuelta"
	AssignmentLost     = "Extraviada"
)

var AssignmentStatuses = []string{AssignmentActive, AssignmentReturned, AssignmentLost}

// Document types.
const (
	DocumentAct      = "Acta"
	DocumentResume   = "Hoja de vida"
	DocumentInvoice  = "Factura"
	DocumentWarranty = "Garantía"
	DocumentContract = "Contrato"
	DocumentManual   = "Manual"
	DocumentOther    = "Otro"
)

var DocumentTypes = []string{
	DocumentAct, DocumentResume, DocumentInvoice, DocumentWarranty, DocumentContract, DocumentManual, DocumentOther,
}

// Accessories reuse a subset of equipment statuses.
var AccessoryStatuses = []string{StatusAvailable, StatusAssigned, StatusDamaged, StatusDecommissioned}

const (
	NoArea      = "Sin área"
	Unassigned  = "Sin asignar"
	StillActive = "Activa"
	Yes         = "Sí"
	No          = "No"
)

func YesNo(b bool) string {
	if b {
		return Yes
	}
	return No
}
