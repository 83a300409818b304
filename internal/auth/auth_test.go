package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens([]byte("test-secret-at-least-32-bytes-long!!"), time.Hour)
	userID := uuid.New()

	signed, err := tokens.Mint(userID, "Alice")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	got, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got != userID {
		t.Errorf("Verify() = %s, want %s", got, userID)
	}
}

func TestTokensRejectsExpired(t *testing.T) {
	tokens := NewTokens([]byte("test-secret-at-least-32-bytes-long!!"), -time.Minute)

	signed, err := tokens.Mint(uuid.New(), "")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	if _, err := tokens.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokensRejectsWrongSecret(t *testing.T) {
	minter := NewTokens([]byte("secret-one-which-is-32-bytes-long!!!"), time.Hour)
	verifier := NewTokens([]byte("secret-two-which-is-32-bytes-long!!!"), time.Hour)

	signed, err := minter.Mint(uuid.New(), "")
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}

	if _, err := verifier.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokensRejectsUnsignedAlgorithm(t *testing.T) {
	tokens := NewTokens([]byte("test-secret-at-least-32-bytes-long!!"), time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := tokens.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokensRejectsGarbage(t *testing.T) {
	tokens := NewTokens([]byte("test-secret-at-least-32-bytes-long!!"), time.Hour)

	for _, input := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := tokens.Verify(input); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", input, err)
		}
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash equals plaintext")
	}

	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword() error = %v, want nil", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("CheckPassword() error = %v, want ErrWrongPassword", err)
	}
}
