// Package gstore implements the remote store contract against an HTTP
// drive API (drives addressed by id, items addressed by (driveId, itemId),
// Graph-style wire schema). Authentication uses the OAuth authorization
// code flow: InitiateAuthFlow builds the popup URL and ExchangeCode turns
// the callback code into a bearer token.
package gstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/drivebrowse/drivebrowse/pkg/config"
	"github.com/drivebrowse/drivebrowse/pkg/remote"
)

const requestTimeout = 30 * time.Second

// Service is the HTTP drive API client.
type Service struct {
	cfg        config.APIConfig
	httpClient *http.Client
	oauth      *oauth2.Config
	log        *slog.Logger

	mu        sync.RWMutex
	token     *oauth2.Token
	authState string
}

// New creates the drive API client from the api section of the config.
func New(cfg config.Config) *Service {
	return &Service{
		cfg: cfg.API,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		oauth: &oauth2.Config{
			ClientID:     cfg.API.ClientID,
			ClientSecret: cfg.API.ClientSecret,
			RedirectURL:  cfg.API.RedirectURL,
			Scopes:       cfg.API.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.API.AuthURL,
				TokenURL: cfg.API.TokenURL,
			},
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger.
func (s *Service) SetLogger(log *slog.Logger) {
	s.log = log
}

// SetToken injects a bearer token, e.g. one restored from storage.
func (s *Service) SetToken(tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = tok
}

// HasValidToken asks the service whether a usable token exists for the
// current user.
func (s *Service) HasValidToken(ctx context.Context) (bool, error) {
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()
	if tok == nil {
		return false, nil
	}
	if !tok.Valid() {
		return false, nil
	}

	var status struct {
		HasToken bool `json:"hasToken"`
	}
	if err := s.getJSON(ctx, "/v1/token/status", &status); err != nil {
		return false, err
	}
	return status.HasToken, nil
}

// InitiateAuthFlow builds the authorization URL the popup opens. The
// random state is remembered for callback validation.
func (s *Service) InitiateAuthFlow(_ context.Context) (string, error) {
	state := uuid.NewString()
	s.mu.Lock()
	s.authState = state
	s.mu.Unlock()
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// ExchangeCode validates the callback state and exchanges the code for a
// bearer token, completing the authorization flow.
func (s *Service) ExchangeCode(ctx context.Context, state, code string) error {
	s.mu.Lock()
	expected := s.authState
	s.authState = ""
	s.mu.Unlock()

	if expected == "" || state != expected {
		return remote.NewOpError("ExchangeCode", "authorization state mismatch")
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("ExchangeCode: %w", err)
	}

	s.mu.Lock()
	s.token = tok
	s.mu.Unlock()
	s.log.Info("authorization code exchanged", slog.Time("expiry", tok.Expiry))
	return nil
}

// do runs one API request with the bearer token applied and decodes the
// JSON response into out when it is non-nil. Remote error messages are
// surfaced verbatim.
func (s *Service) do(req *http.Request, op string, out any) error {
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()
	if tok != nil {
		tok.SetAuthHeader(req)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return remote.NewOpError(op, decodeErrorMessage(resp))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (s *Service) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+path, nil)
	if err != nil {
		return err
	}
	return s.do(req, "GET "+path, out)
}

// decodeErrorMessage extracts the human-readable message from an error
// body, falling back to the raw body or the HTTP status.
func decodeErrorMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return resp.Status
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(data, &envelope) == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(data))
}
