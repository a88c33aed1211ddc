package gateway

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrConfiguration marks missing or malformed deployment secret material.
// It is always raised before any network call.
var ErrConfiguration = errors.New("push gateway configuration error")

// ErrCredentialExchange marks a rejection by the identity provider's token
// endpoint. Fatal for the current dispatch; retrying is the caller's decision.
var ErrCredentialExchange = errors.New("credential exchange failed")

const jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// ServiceAccount is the service identity supplied as a deployment secret.
type ServiceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

// LoadServiceAccount reads and parses the service account JSON at path.
func LoadServiceAccount(path string) (*ServiceAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read credentials: %v", ErrConfiguration, err)
	}
	return ParseServiceAccount(raw)
}

// ParseServiceAccount parses service account JSON.
func ParseServiceAccount(raw []byte) (*ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(raw, &sa); err != nil {
		return nil, fmt.Errorf("%w: parse credentials: %v", ErrConfiguration, err)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" || sa.ProjectID == "" {
		return nil, fmt.Errorf("%w: credentials missing project_id, client_email or private_key", ErrConfiguration)
	}
	return &sa, nil
}

// AccessToken is a short-lived bearer token usable against the gateway's send
// API. Never persisted; a fresh one is obtained per dispatch.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

// Exchanger trades a signed assertion derived from the service account for a
// bearer token at the identity provider's token endpoint.
type Exchanger struct {
	clientEmail string
	key         *rsa.PrivateKey
	tokenURL    string
	scope       string
	ttl         time.Duration
	client      *http.Client
}

// NewExchanger validates the service account's signing key and returns an
// Exchanger. Malformed key material fails here, before anything touches the
// network.
func NewExchanger(sa *ServiceAccount, tokenURL, scope string, ttl time.Duration, client *http.Client) (*Exchanger, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(sa.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("%w: private key does not parse as an RSA signing key: %v", ErrConfiguration, err)
	}

	if tokenURL == "" && sa.TokenURI != "" {
		tokenURL = sa.TokenURI
	}
	if tokenURL == "" {
		return nil, fmt.Errorf("%w: no token endpoint configured", ErrConfiguration)
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Exchanger{
		clientEmail: sa.ClientEmail,
		key:         key,
		tokenURL:    tokenURL,
		scope:       scope,
		ttl:         ttl,
		client:      client,
	}, nil
}

// Exchange signs a fresh assertion and presents it to the token endpoint.
func (e *Exchanger) Exchange(ctx context.Context) (*AccessToken, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   e.clientEmail,
		"scope": e.scope,
		"aud":   e.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(e.ttl).Unix(),
	}

	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(e.key)
	if err != nil {
		return nil, fmt.Errorf("sign assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrantType},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCredentialExchange, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: token endpoint returned %d: %s", ErrCredentialExchange, resp.StatusCode, body)
	}

	var tokens struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, fmt.Errorf("%w: decode token response: %v", ErrCredentialExchange, err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("%w: token endpoint returned no access_token", ErrCredentialExchange)
	}

	return &AccessToken{
		Token:     tokens.AccessToken,
		ExpiresAt: now.Add(time.Duration(tokens.ExpiresIn) * time.Second),
	}, nil
}
