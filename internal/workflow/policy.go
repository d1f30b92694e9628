package workflow

import "diet-backend/internal/models"

// Capability names one thing a role may do. Operations declare the
// capability they need and Authorize is the only place roles are compared.
type Capability string

const (
	CapViewAllCharts       Capability = "charts:view_all"
	CapManageCharts        Capability = "charts:manage"
	CapManagePatients      Capability = "patients:manage"
	CapViewPatients        Capability = "patients:view"
	CapViewPantryQueue     Capability = "tasks:pantry_queue"
	CapViewPantryHistory   Capability = "tasks:pantry_history"
	CapViewDeliveryQueue   Capability = "tasks:delivery_queue"
	CapViewDeliveryHistory Capability = "tasks:delivery_history"
	CapViewStats           Capability = "tasks:stats"
	CapStartPreparation    Capability = "meal:start_preparation"
	CapMarkReady           Capability = "meal:mark_ready"
	CapDeliver             Capability = "meal:deliver"
	CapReports             Capability = "reports:daily"
	CapViewStaff           Capability = "users:view"
)

var grants = map[models.Role]map[Capability]bool{
	models.RoleManager: {
		CapViewAllCharts:       true,
		CapManageCharts:        true,
		CapManagePatients:      true,
		CapViewPatients:        true,
		CapViewPantryHistory:   true,
		CapViewDeliveryHistory: true,
		CapViewStats:           true,
		CapReports:             true,
		CapViewStaff:           true,
	},
	models.RolePantry: {
		CapViewPatients:      true,
		CapViewPantryQueue:   true,
		CapViewPantryHistory: true,
		CapViewStats:         true,
		CapStartPreparation:  true,
		CapMarkReady:         true,
	},
	models.RoleDelivery: {
		CapViewPatients:        true,
		CapViewDeliveryQueue:   true,
		CapViewDeliveryHistory: true,
		CapViewStats:           true,
		CapDeliver:             true,
	},
}

// Authorize reports whether role holds capability.
func Authorize(role models.Role, capability Capability) bool {
	return grants[role][capability]
}

// Actor is the authenticated identity performing an operation.
type Actor struct {
	ID   string
	Role models.Role
}

func (a Actor) Can(capability Capability) bool {
	return Authorize(a.Role, capability)
}
