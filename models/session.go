package models

import "time"

// AccessToken binds an opaque token string to a username. LastUpdated is reset
// on every successful login; the token itself never changes.
type AccessToken struct {
	Username    string    `json:"username"`
	Token       string    `json:"token"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Session is the identity resolved from a valid access token.
type Session struct {
	Username string
	Token    string
}
