package utils

import (
	"testing"
	"time"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", "HS256", time.Hour)

	token, err := m.GenerateToken(7, "alice@example.com", "Admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "alice@example.com" || claims.Role != "Admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestJWTManager_RejectsForeignSecret(t *testing.T) {
	issuer := NewJWTManager("secret-a", "HS256", time.Hour)
	verifier := NewJWTManager("secret-b", "HS256", time.Hour)

	token, err := issuer.GenerateToken(1, "bob@example.com", "User")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", "HS256", -time.Minute)

	token, err := m.GenerateToken(1, "bob@example.com", "User")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", "HS256", time.Hour)
	if _, err := m.ValidateToken("not-a-token"); err == nil {
		t.Fatal("garbage token must be rejected")
	}
}
