package domain

import "regexp"

// Channel is the out-of-band delivery channel implied by a username.
type Channel string

const (
	ChannelUnknown Channel = ""
	ChannelPhone   Channel = "phone"
	ChannelEmail   Channel = "email"
)

var (
	phonePattern = regexp.MustCompile(`^\+7[0-9]{10}$`)
	emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+(\.\w+)+$`)
)

// ClassifyUsername tells whether username is a phone number, an email
// address, or neither. Phone numbers take precedence.
func ClassifyUsername(username string) Channel {
	switch {
	case phonePattern.MatchString(username):
		return ChannelPhone
	case emailPattern.MatchString(username):
		return ChannelEmail
	default:
		return ChannelUnknown
	}
}
