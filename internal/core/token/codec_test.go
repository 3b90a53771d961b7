package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCodec_RoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 10, 8, 30, 15, 123456000, time.UTC)
	c := NewCodec("super-secret", 0, WithClock(fixedClock(now)), WithLocation(time.UTC))

	for _, id := range []string{"65f1c0a4e4b0a1b2c3d4e5f6", "42", "user-1"} {
		raw, err := c.Mint(id)
		if err != nil {
			t.Fatalf("Mint(%q): %v", id, err)
		}
		p, err := c.Decode(raw)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if p.PrincipalID != id {
			t.Fatalf("principal mismatch: got %q want %q", p.PrincipalID, id)
		}
		if want := now.Add(30 * 24 * time.Hour); !p.Expiry.Equal(want) {
			t.Fatalf("expiry mismatch: got %s want %s", p.Expiry, want)
		}
	}
}

func TestCodec_MintWritesFixedFormatExpire(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewCodec("k", time.Hour, WithClock(fixedClock(now)), WithLocation(time.UTC))

	raw, err := c.Mint("7")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return []byte("k"), nil }); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims["expire"] != "2024-01-01 01:00:00.000000" {
		t.Fatalf("unexpected expire claim: %v", claims["expire"])
	}
	if claims["id"] != "7" {
		t.Fatalf("unexpected id claim: %v", claims["id"])
	}
}

func TestCodec_DecodeLegacyToken(t *testing.T) {
	legacy := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     float64(17),
		"expire": "2031-02-03 04:05:06",
	})
	raw, err := legacy.SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	c := NewCodec("k", 0, WithLocation(time.UTC))
	p, err := c.Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.PrincipalID != "17" {
		t.Fatalf("unexpected id: %q", p.PrincipalID)
	}
	if want := time.Date(2031, 2, 3, 4, 5, 6, 0, time.UTC); !p.Expiry.Equal(want) {
		t.Fatalf("unexpected expiry: %s", p.Expiry)
	}
}

func TestCodec_DecodeWrongSecret(t *testing.T) {
	raw, err := NewCodec("right", 0).Mint("u1")
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := NewCodec("wrong", 0).Decode(raw); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestCodec_DecodeMalformed(t *testing.T) {
	c := NewCodec("k", 0)
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		if _, err := c.Decode(raw); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Decode(%q): expected ErrMalformed, got %v", raw, err)
		}
	}
}

func TestCodec_DecodeMissingFields(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return raw
	}
	c := NewCodec("k", 0)

	cases := map[string]jwt.MapClaims{
		"no id":        {"expire": "2031-02-03 04:05:06.000000"},
		"empty id":     {"id": "", "expire": "2031-02-03 04:05:06.000000"},
		"no expire":    {"id": "u1"},
		"bad expire":   {"id": "u1", "expire": "tomorrow"},
		"epoch expire": {"id": "u1", "expire": float64(1900000000)},
	}
	for name, claims := range cases {
		if _, err := c.Decode(sign(claims)); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", name, err)
		}
	}
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"id":     "u1",
		"expire": "2031-02-03 04:05:06.000000",
	}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewCodec("k", 0).Decode(raw); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed for HS512, got %v", err)
	}
}
