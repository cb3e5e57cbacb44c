package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestDecode_Unverified(t *testing.T) {
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := sign(t, jwt.MapClaims{
		"exp":      exp.Unix(),
		"is_admin": true,
		"nombre":   "Ana",
		"correo":   "ana@ups.edu.ec",
		"sub":      "7",
	}, "whatever")

	claims, err := NewDecoder("").Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Fatalf("exp = %v, want %v", claims.ExpiresAt, exp)
	}
	if !claims.IsAdmin {
		t.Fatalf("expected admin")
	}
	if claims.SubjectName != "Ana" || claims.Email != "ana@ups.edu.ec" || claims.Subject != "7" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestDecode_ExpiredIsNotAnError(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()}, "secret")

	for _, d := range []*Decoder{NewDecoder(""), NewDecoder("secret")} {
		if _, err := d.Decode(raw); err != nil {
			t.Fatalf("expired token must still decode (verifying=%v): %v", d.Verifying(), err)
		}
	}
}

func TestDecode_NumericSubject(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"exp": 2e9, "sub": 42}, "secret")
	claims, err := NewDecoder("").Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("expected subject 42, got %q", claims.Subject)
	}
}

func TestDecode_AdminFlagMustBeBool(t *testing.T) {
	for _, v := range []interface{}{"true", 1, nil, false} {
		raw := sign(t, jwt.MapClaims{"exp": 2e9, "is_admin": v}, "secret")
		claims, err := NewDecoder("").Decode(raw)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if claims.IsAdmin {
			t.Fatalf("is_admin=%v must not grant the role", v)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"two segments":   "eyJhbGciOiJIUzI1NiJ9.eyJleHAiOjF9",
		"missing exp":    sign(t, jwt.MapClaims{"nombre": "Ana"}, "secret"),
		"string exp":     sign(t, jwt.MapClaims{"exp": "tomorrow"}, "secret"),
		"bad base64":     "a.b!.c",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewDecoder("").Decode(raw)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestDecode_VerifiedRejectsBadSignature(t *testing.T) {
	raw := sign(t, jwt.MapClaims{"exp": 2e9}, "other")

	if _, err := NewDecoder("secret").Decode(raw); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if _, err := NewDecoder("other").Decode(raw); err != nil {
		t.Fatalf("matching key must verify: %v", err)
	}
}

func TestDecode_HugeExpStaysInFuture(t *testing.T) {
	now := time.Now()
	for _, exp := range []float64{1e18, 1e19, 1e20, 1e300} {
		raw := sign(t, jwt.MapClaims{"exp": exp, "is_admin": true}, "secret")
		claims, err := NewDecoder("").Decode(raw)
		if err != nil {
			t.Fatalf("exp %g: decode: %v", exp, err)
		}
		if !claims.ActiveAt(now) {
			t.Fatalf("exp %g: expected an active token, got ExpiresAt=%v", exp, claims.ExpiresAt)
		}
	}

	raw := sign(t, jwt.MapClaims{"exp": -1e300}, "secret")
	claims, err := NewDecoder("").Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.ActiveAt(now) {
		t.Fatalf("a far-past exp must not be active")
	}
}
