package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewResetCode_Range(t *testing.T) {
	now := time.Now()
	for i := 0; i < 5000; i++ {
		c, err := NewResetCode("u1", now)
		if err != nil {
			t.Fatalf("NewResetCode: %v", err)
		}
		if c.Code < MinResetCode || c.Code > MaxResetCode {
			t.Fatalf("code %d out of range", c.Code)
		}
		if c.UserID != "u1" || !c.CreatedAt.Equal(now) {
			t.Fatalf("unexpected code record: %+v", c)
		}
	}
}

func TestResetCode_Expired(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &ResetCode{UserID: "u1", Code: 1234, CreatedAt: created}

	if c.Expired(0, created.Add(1000*time.Hour)) {
		t.Fatalf("zero ttl must never expire")
	}
	if c.Expired(time.Minute, created.Add(59*time.Second)) {
		t.Fatalf("code expired too early")
	}
	if !c.Expired(time.Minute, created.Add(time.Minute)) {
		t.Fatalf("code should expire exactly at ttl")
	}
}

func TestClassifyUsername(t *testing.T) {
	cases := map[string]Channel{
		"+79990001122":      ChannelPhone,
		"+7999000112":       ChannelUnknown,
		"89990001122":       ChannelUnknown,
		"+19990001122":      ChannelUnknown,
		"ann@example.com":   ChannelEmail,
		"a.b-c@mail.co.uk":  ChannelEmail,
		"ann@localhost":     ChannelUnknown,
		"ann":               ChannelUnknown,
		"":                  ChannelUnknown,
		"+79990001122 ":     ChannelUnknown,
		"first_last@ya.ru":  ChannelEmail,
		"@example.com":      ChannelUnknown,
		"ann@example.com.":  ChannelUnknown,
		"ann@@example.com":  ChannelUnknown,
		"ann@exa mple.com":  ChannelUnknown,
		"+7abcdefghij":      ChannelUnknown,
		"+7999000112233344": ChannelUnknown,
	}
	for in, want := range cases {
		if got := ClassifyUsername(in); got != want {
			t.Errorf("ClassifyUsername(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestErrorCategories(t *testing.T) {
	if !errors.Is(ErrUserExists, ErrBadCredentials) || !errors.Is(ErrWrongPassword, ErrBadCredentials) {
		t.Fatalf("bad credentials family broken")
	}
	for _, err := range []error{ErrInvalidToken, ErrTokenExpired, ErrNotAuthenticated} {
		if !errors.Is(err, ErrAuthenticationFailed) {
			t.Fatalf("%v should be an authentication failure", err)
		}
	}
	if errors.Is(ErrUserExists, ErrAuthenticationFailed) {
		t.Fatalf("categories must not overlap")
	}
	if ErrTokenExpired.Error() != "token expired" {
		t.Fatalf("unexpected message: %q", ErrTokenExpired.Error())
	}
}

func TestUser_Profile(t *testing.T) {
	u := &User{ID: "1", Username: "+79990001122", PasswordHash: "h", Name: "Ann", Photo: "p.png"}
	p := u.Profile()
	if p.Username != u.Username || p.Name != "Ann" || p.Photo != "p.png" {
		t.Fatalf("unexpected profile: %+v", p)
	}
}
