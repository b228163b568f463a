package authsdk

import (
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the BarTab single sign-on service. Applications
// embedded in a browser normally talk to the service through the iframe
// bridge; SDKClient covers server-side callers that already hold a session
// cookie value, plus health probing.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new SSO client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			// The login endpoint answers with redirects that callers want to see.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}
