package security_test

import (
	"errors"
	"testing"

	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/angelmondragon/labstock-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}

	hash, err := security.HashPassword("very-secure-password", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestCheckPasswordLength(t *testing.T) {
	cfg := config.PasswordConfig{MinLength: 6}
	if err := security.CheckPasswordLength("abc12", cfg); !errors.Is(err, security.ErrPasswordTooShort) {
		t.Fatalf("expected too short error, got %v", err)
	}
	if err := security.CheckPasswordLength("abc123", cfg); err != nil {
		t.Fatalf("expected 6 characters to pass, got %v", err)
	}
	if err := security.CheckPasswordLength("abcde", config.PasswordConfig{}); err == nil {
		t.Fatal("expected default minimum of 6 to apply")
	}
}

func TestGenerateOTP(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		code, err := security.GenerateOTP(6)
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in code %q", code)
			}
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatal("expected codes to vary")
	}
	if _, err := security.GenerateOTP(0); err == nil {
		t.Fatal("expected zero digits to fail")
	}
}

func TestEqualCodesPassword(t *testing.T) {
	if !security.EqualCodes("012345", " 012345 ") {
		t.Fatal("expected trimmed codes to match")
	}
	if security.EqualCodes("012345", "012346") {
		t.Fatal("expected mismatch")
	}
	if security.EqualCodes("", "") {
		t.Fatal("empty codes must never match")
	}
}
