// Package token encodes and decodes the signed identity token handed to
// clients after sign-up and sign-in.
//
// The payload is {"id": <principal id>, "expire": "<local date-time>"}, signed
// with HS256. Expiry lives inside the signed payload, so verification needs no
// session store.
package token

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a freshly minted token.
const DefaultTTL = 30 * 24 * time.Hour

// ExpireLayout is the expiry format written into new tokens.
const ExpireLayout = "2006-01-02 15:04:05.000000"

// Tokens minted by the previous deployment drop the fractional part when the
// microseconds happen to be zero.
var expireLayouts = []string{ExpireLayout, "2006-01-02 15:04:05"}

// ErrMalformed is returned when a token's signature does not verify or its
// payload cannot be parsed.
var ErrMalformed = errors.New("malformed token")

// Payload is the decoded content of a token.
type Payload struct {
	PrincipalID string
	Expiry      time.Time
}

// Codec mints and decodes tokens with a process-wide secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
	loc    *time.Location
	now    func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithLocation sets the zone expiry strings are written and read in.
func WithLocation(loc *time.Location) Option {
	return func(c *Codec) { c.loc = loc }
}

// NewCodec builds a Codec. A non-positive ttl falls back to DefaultTTL.
func NewCodec(secret string, ttl time.Duration, opts ...Option) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		loc:    time.Local,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mint signs a token for principalID that expires ttl from now.
func (c *Codec) Mint(principalID string) (string, error) {
	expiry := c.now().In(c.loc).Add(c.ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":     principalID,
		"expire": expiry.Format(ExpireLayout),
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature of raw and returns its payload. It does not
// judge expiry; that is the caller's decision.
func (c *Codec) Decode(raw string) (*Payload, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	id, err := principalID(claims["id"])
	if err != nil {
		return nil, err
	}
	expiry, err := c.parseExpire(claims["expire"])
	if err != nil {
		return nil, err
	}
	return &Payload{PrincipalID: id, Expiry: expiry}, nil
}

// TTL returns the lifetime given to minted tokens.
func (c *Codec) TTL() time.Duration { return c.ttl }

func (c *Codec) parseExpire(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return time.Time{}, fmt.Errorf("%w: missing expire", ErrMalformed)
	}
	for _, layout := range expireLayouts {
		if t, err := time.ParseInLocation(layout, s, c.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: bad expire %q", ErrMalformed, s)
}

// principalID accepts string ids and the integer ids of older tokens.
func principalID(v any) (string, error) {
	switch id := v.(type) {
	case string:
		if id != "" {
			return id, nil
		}
	case float64:
		if id == math.Trunc(id) && id > 0 {
			return strconv.FormatInt(int64(id), 10), nil
		}
	}
	return "", fmt.Errorf("%w: missing id", ErrMalformed)
}
