package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"diet-backend/internal/config"
	"diet-backend/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	j := NewJWTManager(config.JWTConfig{Secret: "k", Issuer: "diet-backend", ExpirationHours: 1})
	u := &models.User{ID: "u-1", Email: "p@example.com", Role: models.RolePantry}

	tok, err := j.GenerateToken(u)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	c, err := j.ValidateToken(tok)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if c.UserID != "u-1" || c.Role != models.RolePantry || c.Email != u.Email {
		t.Fatalf("claims = %+v", c)
	}
}

func TestTokenRejectsWrongSecretAndExpiry(t *testing.T) {
	u := &models.User{ID: "u-1", Role: models.RoleManager}
	j := NewJWTManager(config.JWTConfig{Secret: "k", ExpirationHours: 1})
	tok, err := j.GenerateToken(u)
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTManager(config.JWTConfig{Secret: "other", ExpirationHours: 1})
	if _, err := other.ValidateToken(tok); err == nil {
		t.Error("token signed with another secret accepted")
	}

	late := NewJWTManager(config.JWTConfig{Secret: "k", ExpirationHours: 1})
	late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := late.ValidateToken(tok); err == nil {
		t.Error("expired token accepted")
	}
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword(h, "hunter2") {
		t.Error("correct password rejected")
	}
	if VerifyPassword(h, "hunter3") {
		t.Error("wrong password accepted")
	}
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"", false},
		{"12345", false},
		{"123456", true},
		{strings.Repeat("x", MaxPasswordLength), true},
		{strings.Repeat("x", MaxPasswordLength+1), false},
	}
	for _, tt := range tests {
		err := CheckPassword(tt.password)
		if (err == nil) != tt.ok {
			t.Errorf("CheckPassword(len %d) = %v, want ok=%t", len(tt.password), err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrWeakPassword) {
			t.Errorf("CheckPassword(len %d) = %v, want ErrWeakPassword", len(tt.password), err)
		}
	}
	if _, err := HashPassword("abc"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("HashPassword short: err = %v", err)
	}
}
