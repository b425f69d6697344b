// Package orion is a client for administering entities in an NGSI-v2
// context broker behind a Keystone-style identity manager. A Session
// authenticates once against the IdM and then lists and deletes
// entities scoped by FIWARE service and servicepath headers.
//
// Listings are taken from a single response page; the broker's
// pagination is not followed, so very large subservices may be
// enumerated incompletely per pass.
package orion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	headerService      = "Fiware-Service"
	headerServicePath  = "Fiware-Servicepath"
	headerAuthToken    = "X-Auth-Token"
	headerCorrelator   = "Fiware-Correlator"
	headerSubjectToken = "X-Subject-Token"
)

// Session owns an authenticated connection to the context broker: the
// HTTP transport plus the subject token obtained at open time. The
// token is never refreshed; a session holds exactly one token for its
// whole life. A Session supports one caller at a time.
type Session struct {
	config     *SessionConfig
	creds      Credentials
	httpClient *http.Client
	token      string
	correlator string
	closeOnce  sync.Once
}

// OpenSession creates the transport, authenticates against the IdM and
// returns a ready session. If authentication fails the transport is
// released before the error is returned, so a failed open never leaks
// a connection. The caller must Close the returned session.
func OpenSession(ctx context.Context, creds Credentials, options ...SessionOption) (*Session, error) {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: config.Timeout,
		}
	}

	session := &Session{
		config:     config,
		creds:      creds,
		httpClient: httpClient,
		correlator: uuid.NewString(),
	}

	token, err := session.login(ctx)
	if err != nil {
		session.Close()
		return nil, err
	}
	session.token = token

	log.Debug().
		Str("auth_domain", creds.AuthDomain).
		Str("service", creds.Service).
		Str("user", creds.Username).
		Msg("broker session opened")

	return session, nil
}

// Close releases the session's transport. It is safe to call more than
// once and on a session whose login failed; the release happens
// exactly once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.httpClient.CloseIdleConnections()
	})
}

// login exchanges the credentials for a subject token. The IdM answers
// 201 and puts the token in the X-Subject-Token response header; any
// other status, or a 201 without that header, is a failure.
func (s *Session) login(ctx context.Context) (string, error) {
	url := s.creds.AuthDomain + "/idm/auth/tokens"

	body, err := json.Marshal(s.creds.authRequest())
	if err != nil {
		return "", fmt.Errorf("failed to marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.applyCommonHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return "", &FetchError{
			URL:        url,
			Status:     resp.StatusCode,
			Meta:       redactedAuthRequest(s.creds),
			Correlator: resp.Header.Get(headerCorrelator),
		}
	}

	token := resp.Header.Get(headerSubjectToken)
	if token == "" {
		return "", fmt.Errorf("login succeeded but response has no %s header", headerSubjectToken)
	}

	return token, nil
}

// brokerHeaders builds the scoping headers every context broker call
// carries: tenant, subservice path and the bearer token.
func (s *Session) brokerHeaders(servicePath string) map[string]string {
	return map[string]string{
		headerService:     s.creds.Service,
		headerServicePath: servicePath,
		headerAuthToken:   s.token,
	}
}

func (s *Session) applyCommonHeaders(req *http.Request) {
	req.Header.Set(headerCorrelator, s.correlator)
	if s.config.UserAgent != "" {
		req.Header.Set("User-Agent", s.config.UserAgent)
	}
}

// doBrokerRequest issues one request against the context broker with
// the scoping headers applied.
func (s *Session) doBrokerRequest(ctx context.Context, method, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	s.applyCommonHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// drainAndClose consumes the rest of a response body before closing it
// so the underlying connection can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}

// redactedAuthRequest renders the login body for diagnostics with the
// password masked.
func redactedAuthRequest(creds Credentials) string {
	redacted := creds
	redacted.Password = "[redacted]"
	body, err := json.Marshal(redacted.authRequest())
	if err != nil {
		return ""
	}
	return string(body)
}

// headersMeta renders scoping headers for diagnostics with the token
// masked.
func headersMeta(headers map[string]string) string {
	redacted := make(map[string]string, len(headers))
	for key, value := range headers {
		if key == headerAuthToken {
			value = "[redacted]"
		}
		redacted[key] = value
	}
	meta, err := json.Marshal(redacted)
	if err != nil {
		return ""
	}
	return string(meta)
}
