package wildapricot

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clubops/eventwatch/internal/domain"
	"github.com/clubops/eventwatch/internal/logging"
	"github.com/clubops/eventwatch/internal/ports"
)

// refreshMargin is subtracted from the token lifetime so a refresh happens
// before the service-side expiry, absorbing clock skew and in-flight latency.
const refreshMargin = 100 * time.Second

const maxTokenResponseBytes = 1 << 20

// AuthError reports a failed call against the token endpoint or a missing
// token.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("wildapricot auth: %s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

type token struct {
	accessToken  string
	refreshToken string
	expiresIn    int64
	retrievedAt  time.Time
	accountID    int64
}

// deadline is the moment after which the token must not be used without a
// refresh.
func (t *token) deadline() time.Time {
	return t.retrievedAt.Add(time.Duration(t.expiresIn)*time.Second - refreshMargin)
}

// TokenManager owns the OAuth token for one authenticated account and
// refreshes it transparently. Not safe for concurrent use: the
// check-then-refresh in ValidAccessToken is not guarded.
type TokenManager struct {
	authURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	clock        ports.Clock

	basicUser string
	basicPass string
	token     *token
}

func NewTokenManager(authURL, clientID, clientSecret string, httpClient *http.Client, clock ports.Clock) *TokenManager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &TokenManager{
		authURL:      authURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		clock:        clock,
	}
}

// AuthenticateAPIKey obtains a token with the client-credentials grant. An
// empty scope requests full access ("auto").
func (m *TokenManager) AuthenticateAPIKey(ctx context.Context, apiKey, scope string) error {
	if scope == "" {
		scope = "auto"
	}
	logging.For(ctx).WithField("scope", scope).Info("authenticating with api key")

	values := url.Values{}
	values.Set("grant_type", "client_credentials")
	values.Set("scope", scope)

	m.basicUser, m.basicPass = "APIKEY", apiKey
	return m.requestToken(ctx, "authenticate", values)
}

// AuthenticateContact obtains a token with the resource-owner password grant,
// using the configured client credentials for the Basic header.
func (m *TokenManager) AuthenticateContact(ctx context.Context, username, password string) error {
	logging.For(ctx).WithField("username", username).Info("authenticating with contact credentials")

	values := url.Values{}
	values.Set("grant_type", "password")
	values.Set("username", username)
	values.Set("password", password)

	m.basicUser, m.basicPass = m.clientID, m.clientSecret
	return m.requestToken(ctx, "authenticate", values)
}

// ValidAccessToken returns a bearer token, refreshing it first once the
// validity deadline (retrieved_at + expires_in - margin) has been reached.
func (m *TokenManager) ValidAccessToken(ctx context.Context) (string, error) {
	if m.token == nil {
		return "", &AuthError{Op: "access token", Err: domain.ErrNotAuthenticated}
	}
	if !m.clock.Now().Before(m.token.deadline()) {
		if err := m.refresh(ctx); err != nil {
			return "", err
		}
	}
	return m.token.accessToken, nil
}

// AccountID reports the account derived from the token's first permission
// entry, or zero before authentication.
func (m *TokenManager) AccountID() int64 {
	if m.token == nil {
		return 0
	}
	return m.token.accountID
}

func (m *TokenManager) refresh(ctx context.Context) error {
	logging.For(ctx).Info("refreshing auth token")

	values := url.Values{}
	values.Set("grant_type", "refresh_token")
	values.Set("refresh_token", m.token.refreshToken)

	return m.requestToken(ctx, "refresh", values)
}

func (m *TokenManager) requestToken(ctx context.Context, op string, values url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.authURL, strings.NewReader(values.Encode()))
	if err != nil {
		return &AuthError{Op: op, Err: fmt.Errorf("create token request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	basic := base64.StdEncoding.EncodeToString([]byte(m.basicUser + ":" + m.basicPass))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return &AuthError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
		return &AuthError{
			Op:  op,
			Err: fmt.Errorf("token endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(body))),
		}
	}

	parsed, err := parseToken(io.LimitReader(resp.Body, maxTokenResponseBytes), m.clock.Now())
	if err != nil {
		return &AuthError{Op: op, Err: err}
	}

	m.token = parsed
	logging.For(ctx).WithField("account_id", parsed.accountID).Info("authenticated")
	return nil
}

// parseToken decodes a token-endpoint response through the dynamic object
// mapper, the same path API payloads take.
func parseToken(r io.Reader, now time.Time) (*token, error) {
	value, err := domain.ParseJSON(r)
	if err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	obj, ok := value.Object()
	if !ok {
		return nil, fmt.Errorf("token response is not a JSON object")
	}

	access, ok := obj.Str("access_token")
	if !ok || access == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}
	refreshToken, _ := obj.Str("refresh_token")
	expiresIn, ok := obj.Int64("expires_in")
	if !ok {
		return nil, fmt.Errorf("token response missing expires_in")
	}

	perms, ok := obj.ListOf("Permissions")
	if !ok || len(perms) == 0 {
		return nil, fmt.Errorf("token response missing permissions")
	}
	permObj, ok := perms[0].Object()
	if !ok {
		return nil, fmt.Errorf("token response permission entry is not an object")
	}
	accountID, ok := permObj.Int64("AccountId")
	if !ok {
		return nil, fmt.Errorf("token response permission entry missing AccountId")
	}

	return &token{
		accessToken:  access,
		refreshToken: refreshToken,
		expiresIn:    expiresIn,
		retrievedAt:  now,
		accountID:    accountID,
	}, nil
}
