package models

import "time"

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Patient struct {
	ID               string           `json:"_id"`
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	Gender           string           `json:"gender"`
	RoomNumber       string           `json:"roomNumber"`
	BedNumber        string           `json:"bedNumber"`
	FloorNumber      int              `json:"floorNumber"`
	Diseases         []string         `json:"diseases"`
	Allergies        []string         `json:"allergies"`
	ContactNumber    string           `json:"contactNumber"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	IsActive         bool             `json:"isActive"` // false once discharged
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// PatientRequest is the body for creating or updating a patient
type PatientRequest struct {
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	Gender           string           `json:"gender"`
	RoomNumber       string           `json:"roomNumber"`
	BedNumber        string           `json:"bedNumber"`
	FloorNumber      int              `json:"floorNumber"`
	Diseases         []string         `json:"diseases"`
	Allergies        []string         `json:"allergies"`
	ContactNumber    string           `json:"contactNumber"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	IsActive         *bool            `json:"isActive,omitempty"`
}
