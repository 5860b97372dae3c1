package utils

import (
	"strings"
	"testing"
)

func TestGenerateID(t *testing.T) {
	id := GenerateID("acc")
	if !strings.HasPrefix(id, "acc-") {
		t.Errorf("GenerateID prefix missing: %s", id)
	}
	if len(id) != len("acc-")+10 {
		t.Errorf("GenerateID length = %d: %s", len(id), id)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		next := GenerateID("tan")
		if seen[next] {
			t.Fatalf("duplicate ID generated: %s", next)
		}
		seen[next] = true
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2hunter2" {
		t.Fatal("password stored in the clear")
	}
	if !CheckPassword("hunter2hunter2", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestValidateAccountNumber(t *testing.T) {
	tests := []struct {
		number string
		valid  bool
	}{
		{"01234567", true},
		{"01000000", true},
		{"99234567", false},
		{"0123456", false},
		{"012345678", false},
		{"01abc567", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidateAccountNumber(tt.number); got != tt.valid {
			t.Errorf("ValidateAccountNumber(%q) = %v, want %v", tt.number, got, tt.valid)
		}
	}
}
