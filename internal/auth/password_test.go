package auth

import (
	"strings"
	"testing"
)

// Tests use a low bcrypt cost so they run fast; correctness is the same at
// every cost factor.
func newTestPasswordService() *PasswordService {
	return newPasswordServiceWithCost(4)
}

func TestHashAndVerify(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("Hash() returned the plaintext password")
	}

	ok, err := ps.Verify(hash, "correct horse battery")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if !ok {
		t.Error("Verify() = false for the correct password")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("right password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// A wrong password is not an error — it's a negative answer.
	ok, err := ps.Verify(hash, "wrong password")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if ok {
		t.Error("Verify() = true for a wrong password")
	}
}

func TestHash_TooShort(t *testing.T) {
	ps := newTestPasswordService()

	if _, err := ps.Hash("short"); err == nil {
		t.Error("Hash() should reject passwords shorter than the minimum")
	}
}

func TestHash_TooLong(t *testing.T) {
	ps := newTestPasswordService()

	// bcrypt silently truncates input past 72 bytes, so longer passwords
	// must be rejected up front.
	long := strings.Repeat("x", MaxPasswordLength+1)
	if _, err := ps.Hash(long); err == nil {
		t.Error("Hash() should reject passwords longer than the maximum")
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	ps := newTestPasswordService()

	h1, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}
