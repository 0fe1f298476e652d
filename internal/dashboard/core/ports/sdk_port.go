package ports

import (
	"context"
	"fmt"
	"net/url"

	"page-insights-dashboard/internal/dashboard/core/domain"
)

// SDK is the login/graph capability a dashboard controller delegates to.
// One SDK instance is bound to one browser session.
type SDK interface {
	GetLoginStatus(ctx context.Context) (domain.LoginStatus, error)
	LoginURL(state string) string
	Login(ctx context.Context, code string) (*domain.AuthResponse, error)
	Logout(ctx context.Context) error
	// API issues a read against path with params and returns the raw JSON body.
	// Implementations should report an upstream error object as *APIError;
	// callers still check the body for an "error" member.
	API(ctx context.Context, path string, params url.Values) ([]byte, error)
}

// APIError is an error object reported by the graph endpoint.
type APIError struct {
	Status       int    `json:"-"`
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode,omitempty"`
	UserTitle    string `json:"error_user_title,omitempty"`
	UserMessage  string `json:"error_user_msg,omitempty"`
	FBTraceID    string `json:"fbtrace_id,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("graph api error (status %d)", e.Status)
	}
	return fmt.Sprintf("graph api error %d (%s): %s", e.Code, e.Type, e.Message)
}
