package graph

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"

	"page-insights-dashboard/internal/dashboard/core/domain"
	"page-insights-dashboard/internal/dashboard/core/ports"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

var ErrNoAccessToken = errors.New("no access token")

// codeInvalidToken is the graph error code for expired or revoked tokens.
const codeInvalidToken = 190

const maxResponseBytes = 4 << 20

// Session implements ports.SDK for one user.
type Session struct {
	client *Client

	mu      sync.Mutex
	token   *oauth2.Token
	revoked bool
}

var _ ports.SDK = (*Session)(nil)

func (s *Session) GetLoginStatus(ctx context.Context) (domain.LoginStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.token == nil:
		return domain.StatusUnknown, nil
	case s.revoked || !s.token.Valid():
		return domain.StatusNotAuthorized, nil
	default:
		return domain.StatusConnected, nil
	}
}

func (s *Session) LoginURL(state string) string {
	return s.client.oauth.AuthCodeURL(state)
}

// Login exchanges the authorization code for a user access token.
func (s *Session) Login(ctx context.Context, code string) (*domain.AuthResponse, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client.httpClient)

	tok, err := s.client.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	s.mu.Lock()
	s.token = tok
	s.revoked = false
	s.mu.Unlock()

	return &domain.AuthResponse{TokenType: tok.Type(), ExpiresAt: tok.Expiry}, nil
}

// Logout forgets the user token. The provider keeps its own browser session.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = nil
	s.revoked = false
	s.mu.Unlock()
	return nil
}

// API performs GET {base}/{version}{path}. The user token is used unless
// params already carry an access_token (page-scoped calls).
func (s *Session) API(ctx context.Context, path string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}

	usingUserToken := false
	if q.Get("access_token") == "" {
		tok := s.currentToken()
		if tok == "" {
			return nil, ErrNoAccessToken
		}
		q.Set("access_token", tok)
		usingUserToken = true
	}
	if s.client.cfg.AppSecret != "" {
		q.Set("appsecret_proof", appSecretProof(q.Get("access_token"), s.client.cfg.AppSecret))
	}

	if err := s.client.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := s.client.cfg.BaseURL + "/" + s.client.cfg.Version + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	s.client.logger.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Msg("graph request")

	if apiErr := decodeError(resp.StatusCode, body); apiErr != nil {
		if apiErr.Code == codeInvalidToken && usingUserToken {
			s.markRevoked()
		}
		return nil, apiErr
	}
	return body, nil
}

func (s *Session) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return ""
	}
	return s.token.AccessToken
}

func (s *Session) markRevoked() {
	s.mu.Lock()
	s.revoked = true
	s.mu.Unlock()
}

func decodeError(status int, body []byte) *ports.APIError {
	var envelope struct {
		Error *ports.APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		envelope.Error.Status = status
		return envelope.Error
	}
	if status < 200 || status > 299 {
		return &ports.APIError{Status: status, Message: http.StatusText(status)}
	}
	return nil
}

func appSecretProof(token, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
