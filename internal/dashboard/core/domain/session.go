package domain

import "time"

// LoginStatus mirrors the three states reported by the login provider.
type LoginStatus string

const (
	StatusConnected     LoginStatus = "connected"
	StatusNotAuthorized LoginStatus = "not_authorized"
	StatusUnknown       LoginStatus = "unknown"
)

// User is the authenticated identity shown in the header.
type User struct {
	ID         string
	Name       string
	Email      string
	PictureURL string
}

// Page is a resource the user administers. AccessToken is the page-scoped
// credential and must never be rendered or logged.
type Page struct {
	ID          string
	Name        string
	Category    string
	AccessToken string
}

// AuthResponse is returned by a completed interactive login.
type AuthResponse struct {
	TokenType string
	ExpiresAt time.Time // zero when the credential does not expire
}
