package domain

import "time"

// User models an authenticated principal. Username is the login handle and is
// either a phone number or an email address.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Photo        string    `json:"photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public projection of a User. It never carries password material.
type Profile struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Photo    string `json:"photo"`
}

// Profile returns the public projection of u.
func (u *User) Profile() Profile {
	return Profile{Username: u.Username, Name: u.Name, Photo: u.Photo}
}
