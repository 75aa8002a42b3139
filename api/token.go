package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PasswordTokenSource logs in to the remote API with service credentials and
// keeps the access/refresh token pair in memory. Refresh exchanges the
// refresh token; when that fails (rotated out or expired), it falls back to
// a full login so a stale pair never wedges the gateway.
type PasswordTokenSource struct {
	baseURL    string
	email      string
	password   string
	httpClient *http.Client
	logger     *zap.Logger

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func NewPasswordTokenSource(baseURL, email, password string, logger *zap.Logger) (*PasswordTokenSource, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("API credentials are required")
	}

	return &PasswordTokenSource{
		baseURL:  baseURL,
		email:    email,
		password: password,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}, nil
}

// Token returns the cached access token, logging in on first use.
func (s *PasswordTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accessToken != "" {
		return s.accessToken, nil
	}
	return s.login(ctx)
}

// Refresh obtains a new access token. Callers invoke it after a 401; the
// client guarantees at most one refresh per request.
func (s *PasswordTokenSource) Refresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refreshToken != "" {
		pair, err := s.exchange(ctx, "/auth/refresh", map[string]string{
			"refresh_token": s.refreshToken,
		})
		if err == nil {
			s.accessToken = pair.AccessToken
			if pair.RefreshToken != "" {
				s.refreshToken = pair.RefreshToken
			}
			return s.accessToken, nil
		}
		s.logger.Warn("Refresh token exchange failed, falling back to login", zap.Error(err))
	}

	return s.login(ctx)
}

// login must be called with the mutex held.
func (s *PasswordTokenSource) login(ctx context.Context) (string, error) {
	pair, err := s.exchange(ctx, "/auth/login", map[string]string{
		"email":    s.email,
		"password": s.password,
	})
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	s.accessToken = pair.AccessToken
	s.refreshToken = pair.RefreshToken
	return s.accessToken, nil
}

func (s *PasswordTokenSource) exchange(ctx context.Context, path string, body map[string]string) (*tokenPair, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: extractErrorMessage(respBody)}
	}

	var pair tokenPair
	if err := json.Unmarshal(respBody, &pair); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if pair.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access token")
	}

	return &pair, nil
}

// StaticTokenSource wraps a fixed bearer token. Refresh returns the same
// token, so a 401 retry with it will surface the backend's rejection.
type StaticTokenSource struct {
	token string
}

func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) Token(ctx context.Context) (string, error) {
	return s.token, nil
}

func (s *StaticTokenSource) Refresh(ctx context.Context) (string, error) {
	return s.token, nil
}
