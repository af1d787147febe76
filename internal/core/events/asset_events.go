package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAssignmentCreated  = "assignment.created"
	EventTypeAssignmentReturned = "assignment.returned"
	EventTypeAssignmentUpdated  = "assignment.updated"
	EventTypeEquipmentChanged   = "equipment.changed"
	EventTypeUserChanged        = "user.changed"
	EventTypeDocumentChanged    = "document.changed"
	EventTypeAccessoryChanged   = "accessory.changed"
)

// InventoryEventTypes lists every event that alters data the dashboard reads.
var InventoryEventTypes = []string{
	EventTypeAssignmentCreated,
	EventTypeAssignmentReturned,
	EventTypeAssignmentUpdated,
	EventTypeEquipmentChanged,
	EventTypeUserChanged,
	EventTypeDocumentChanged,
	EventTypeAccessoryChanged,
}

type AssignmentEvent struct {
	BaseEvent
	AssignmentID string `json:"assignment_id"`
	EquipmentID  string `json:"equipment_id"`
	UserID       string `json:"user_id"`
	Status       string `json:"status"`
}

func NewAssignmentEvent(eventType, assignmentID, equipmentID, userID, status string) *AssignmentEvent {
	return &AssignmentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"assignment_id": assignmentID,
				"equipment_id":  equipmentID,
				"user_id":       userID,
				"status":        status,
			},
		},
		AssignmentID: assignmentID,
		EquipmentID:  equipmentID,
		UserID:       userID,
		Status:       status,
	}
}

// EntityChangedEvent is emitted on create, update or delete of a registry entity.
type EntityChangedEvent struct {
	BaseEvent
	EntityID string `json:"entity_id"`
	Action   string `json:"action"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

func NewEntityChangedEvent(eventType, entityID, action string) *EntityChangedEvent {
	return &EntityChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entity_id": entityID,
				"action":    action,
			},
		},
		EntityID: entityID,
		Action:   action,
	}
}
