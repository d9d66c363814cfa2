package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/facesocial/facesocial-backend/internal/types"
)

func TestNormalizeUserFields(t *testing.T) {
	user := &types.User{
		Username:  "  alice ",
		Email:     " Alice@Example.COM ",
		FirstName: " Alice",
		LastName:  "Smith ",
	}
	NormalizeUserFields(user)
	if user.Username != "alice" {
		t.Fatalf("username = %q", user.Username)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email = %q", user.Email)
	}
	if user.FirstName != "Alice" || user.LastName != "Smith" {
		t.Fatalf("names = %q %q", user.FirstName, user.LastName)
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b+tag@sub.example.org", true},
		{"no-at-sign", false},
		{"spaces in@example.com", false},
		{"missing@tld", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidEmail(tc.email); got != tc.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tc.email, got, tc.want)
		}
	}
}

func TestHashPassword(t *testing.T) {
	user := &types.User{Password: "hunter2hunter2"}
	if err := HashPassword(user); err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if user.Password == "hunter2hunter2" {
		t.Fatal("password not hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter2hunter2")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
}
