package partysdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the campus party service. It covers the
// unauthenticated endpoints and creates Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a student account. The email must be a .edu address.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Profile, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/accounts/register", req)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := decodeJSON(resp, &profile, http.StatusCreated); err != nil {
		return nil, err
	}

	return &profile, nil
}

// Login exchanges credentials for an access token. username may also be the
// account's email.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/accounts/login", LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var token TokenResponse
	if err := decodeJSON(resp, &token, http.StatusOK); err != nil {
		return nil, err
	}

	return &token, nil
}

// Authenticate logs in and wraps the token in a Session.
func (c *SDKClient) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	token, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.NewSession(token.AccessToken), nil
}

// NewSession wraps an existing access token.
func (c *SDKClient) NewSession(accessToken string) *Session {
	return &Session{client: c, accessToken: accessToken}
}
