package domain

// Notification is a message to be delivered out-of-band.
type Notification struct {
	To      string
	Subject string
	Body    string
}
