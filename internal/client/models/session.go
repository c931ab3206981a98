// Package models holds client-side records.
package models

import "time"

// User is the account as reported by the server.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is a signed-in session saved on this machine.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      User
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
