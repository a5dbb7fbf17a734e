package pomodorosdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the Pomodoro task service. It provides the public
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a client with a 10 second request timeout.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSession wraps an existing bearer token, for example one kept from an
// earlier login.
func (c *SDKClient) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}
