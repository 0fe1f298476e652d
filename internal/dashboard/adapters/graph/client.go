package graph

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://graph.facebook.com"
	DefaultDialogURL = "https://www.facebook.com"
	DefaultVersion   = "v20.0"
)

var DefaultScopes = []string{
	"public_profile",
	"email",
	"pages_show_list",
	"read_insights",
	"pages_read_engagement",
}

type Config struct {
	AppID       string
	AppSecret   string
	RedirectURL string
	Scopes      []string

	BaseURL   string // graph API host
	DialogURL string // host serving the login dialog
	Version   string

	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client holds the app-wide pieces shared by every user session: OAuth config,
// the HTTP client and the outbound limiter.
type Client struct {
	cfg        Config
	oauth      *oauth2.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default tuned client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(cfg Config, logger zerolog.Logger, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.DialogURL == "" {
		cfg.DialogURL = DefaultDialogURL
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = DefaultScopes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.DialogURL = strings.TrimRight(cfg.DialogURL, "/")

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c := &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.DialogURL + "/" + cfg.Version + "/dialog/oauth",
				TokenURL:  cfg.BaseURL + "/" + cfg.Version + "/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: newHTTPClient(cfg.Timeout),
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.With().Str("component", "graph_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewSession returns an SDK bound to a single browser session.
func (c *Client) NewSession() *Session {
	return &Session{client: c}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        50,
			MaxConnsPerHost:     10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}
}
