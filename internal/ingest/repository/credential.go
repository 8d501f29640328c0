package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"video_ingest_service/pkg/token"
)

// ErrEmptyCredential the token endpoint answered without a token
var ErrEmptyCredential = errors.New("credential endpoint returned no token")

// Credential is a bearer token; a zero ExpiresAt never expires
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

func (c Credential) valid(now time.Time) bool {
	return c.Token != "" && (c.ExpiresAt.IsZero() || now.Before(c.ExpiresAt))
}

// CredentialFetcher obtain a fresh credential
type CredentialFetcher func(ctx context.Context) (Credential, error)

// CredentialProvider hand out the mirror store's bearer token
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// CachedCredential fetch the credential lazily, once, and share it for the life of the process.
// Concurrent first calls wait on the mutex so the fetch runs once; a failed fetch is not cached.
// A credential with an expiry is fetched again after it expires.
type CachedCredential struct {
	fetch CredentialFetcher
	now   func() time.Time

	mu   sync.Mutex
	cred Credential
}

var _ CredentialProvider = (*CachedCredential)(nil)

// NewCachedCredential create a CachedCredential
func NewCachedCredential(fetch CredentialFetcher) *CachedCredential {
	return &CachedCredential{fetch: fetch, now: time.Now}
}

// Token return the cached token, fetching it on first use
func (c *CachedCredential) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cred.valid(c.now()) {
		return c.cred.Token, nil
	}

	cred, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}
	if cred.Token == "" {
		return "", ErrEmptyCredential
	}
	c.cred = cred
	return cred.Token, nil
}

// tokenResponse accept both OAuth style and plain token bodies
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// HTTPCredentialFetcher exchange client credentials at tokenURL for a bearer token
func HTTPCredentialFetcher(tokenURL, clientID, clientSecret string, client HTTPDoer) CredentialFetcher {
	if client == nil {
		client = defaultHTTPClient()
	}
	return func(ctx context.Context) (Credential, error) {
		status, body, err := postJSON(ctx, client, tokenURL, nil, map[string]string{
			"client_id":     clientID,
			"client_secret": clientSecret,
			"grant_type":    "client_credentials",
		})
		if err != nil {
			return Credential{}, fmt.Errorf("fetch credential: %w", err)
		}
		if !isSuccess(status) {
			return Credential{}, fmt.Errorf("fetch credential: status %d: %s", status, body)
		}

		var resp tokenResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return Credential{}, fmt.Errorf("decode credential: %w", err)
		}

		cred := Credential{Token: resp.AccessToken}
		if cred.Token == "" {
			cred.Token = resp.Token
		}
		if resp.ExpiresIn > 0 {
			cred.ExpiresAt = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
		}
		return cred, nil
	}
}

// JWTCredentialFetcher sign a HS256 token with the secret shared with the mirror store
func JWTCredentialFetcher(secret, clientID, issuer string, ttl time.Duration) CredentialFetcher {
	return func(ctx context.Context) (Credential, error) {
		signed, expiresAt, err := token.GenerateJWTFunc([]byte(secret), clientID, "records:write", issuer, ttl)
		if err != nil {
			return Credential{}, fmt.Errorf("sign credential: %w", err)
		}
		// 提前一分鐘換新
		return Credential{Token: signed, ExpiresAt: expiresAt.Add(-time.Minute)}, nil
	}
}
