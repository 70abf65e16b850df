package security_test

import (
	"testing"

	"github.com/angelmondragon/labstock-backend/pkg/security"
)

func TestGenerateOTPLength(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := security.GenerateOTP(6)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected digits only got %q", code)
			}
		}
	}
}

func TestGenerateOTPRejectsBadDigits(t *testing.T) {
	if _, err := security.GenerateOTP(0); err == nil {
		t.Fatal("expected error for zero digits")
	}
	if _, err := security.GenerateOTP(11); err == nil {
		t.Fatal("expected error for too many digits")
	}
}

func TestEqualCodes(t *testing.T) {
	if !security.EqualCodes("012345", " 012345 ") {
		t.Fatal("expected trimmed codes to match")
	}
	if security.EqualCodes("012345", "012346") {
		t.Fatal("expected mismatch")
	}
	if security.EqualCodes("", "") {
		t.Fatal("expected empty codes to never match")
	}
}
