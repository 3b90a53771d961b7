package domain

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	MinResetCode = 1000
	MaxResetCode = 9999
)

// ResetCode is the single active password-reset code of a user. Saving a new
// one for the same user replaces the previous code.
type ResetCode struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	Code      int       `json:"code" bson:"code"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewResetCode mints a fresh code in [MinResetCode, MaxResetCode] for userID.
func NewResetCode(userID string, now time.Time) (*ResetCode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(MaxResetCode-MinResetCode+1))
	if err != nil {
		return nil, err
	}
	return &ResetCode{
		UserID:    userID,
		Code:      MinResetCode + int(n.Int64()),
		CreatedAt: now,
	}, nil
}

// Expired reports whether the code is older than ttl. A non-positive ttl
// means codes never expire.
func (c *ResetCode) Expired(ttl time.Duration, now time.Time) bool {
	if ttl <= 0 {
		return false
	}
	return !now.Before(c.CreatedAt.Add(ttl))
}
