package workflow

import (
	"testing"

	"diet-backend/internal/models"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role models.Role
		cap  Capability
		want bool
	}{
		{models.RoleManager, CapViewAllCharts, true},
		{models.RoleManager, CapManageCharts, true},
		{models.RoleManager, CapStartPreparation, false},
		{models.RoleManager, CapViewStaff, true},
		{models.RolePantry, CapViewStaff, false},
		{models.RolePantry, CapViewPantryQueue, true},
		{models.RolePantry, CapViewDeliveryQueue, false},
		{models.RolePantry, CapDeliver, false},
		{models.RoleDelivery, CapDeliver, true},
		{models.RoleDelivery, CapViewPantryQueue, false},
		{models.RoleDelivery, CapManagePatients, false},
		{models.Role("admin"), CapViewStats, false},
	}
	for _, tt := range tests {
		if got := Authorize(tt.role, tt.cap); got != tt.want {
			t.Errorf("Authorize(%s, %s) = %t, want %t", tt.role, tt.cap, got, tt.want)
		}
	}
}
