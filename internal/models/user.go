package models

import "time"

// Role is the single role a staff account acts under.
type Role string

const (
	RoleManager  Role = "manager"
	RolePantry   Role = "pantry"
	RoleDelivery Role = "delivery"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RolePantry, RoleDelivery:
		return true
	}
	return false
}

type User struct {
	ID            string    `json:"_id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	PasswordHash  string    `json:"-"` // Never expose in JSON
	Role          Role      `json:"role"`
	IsActive      bool      `json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          Role   `json:"role"`
	ContactNumber string `json:"contactNumber"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
