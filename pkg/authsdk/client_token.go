package authsdk

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Login submits the login form. On success the service redirects to the
// callback URL and sets the session cookie, which is returned in the result.
// A rejected username or password yields ErrLoginFailed.
func (c *SDKClient) Login(ctx context.Context, username, password, callbackURL string) (*LoginResult, error) {
	data := url.Values{
		"username":    {username},
		"password":    {password},
		"callbackUrl": {callbackURL},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/login", strings.NewReader(data.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	}, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		body, _ := io.ReadAll(resp.Body)
		if err := parseErrorResponse(resp, body); err != nil {
			return nil, err
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	result := &LoginResult{Location: resp.Header.Get("Location")}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName && cookie.Value != "" {
			result.SessionID = cookie.Value
		}
	}

	if result.SessionID == "" {
		return result, ErrLoginFailed
	}

	return result, nil
}

// Token exchanges a session for a signed token addressed to audience. The
// origin must be one the service is configured to accept.
func (c *SDKClient) Token(ctx context.Context, sessionID, audience, origin string) (string, error) {
	query := url.Values{
		"aud":    {audience},
		"origin": {origin},
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/token?"+query.Encode(), nil, nil, sessionID)
	if err != nil {
		return "", err
	}

	return readText(resp, http.StatusOK)
}

// Logout ends the session on the service.
func (c *SDKClient) Logout(ctx context.Context, sessionID string) error {
	resp, err := c.doRequest(ctx, http.MethodGet, "/logout", nil, nil, sessionID)
	if err != nil {
		return err
	}

	_, err = readText(resp, http.StatusOK)
	return err
}
