/*
Package authsdk provides a client SDK for the BarTab single sign-on service.

# Overview

The service authenticates users with a form login, keeps the session
identifier in a "session_id" cookie and exchanges that session for short-lived
HS256 tokens addressed to a downstream application (the audience).

Browser applications normally obtain tokens through the service's /iframe
bridge. Server-side callers that hold the session cookie value, test suites
and health probes use SDKClient:

	client := authsdk.NewSDKClient("https://sso.example.com")

	// Check service health
	health, err := client.GetReadiness(ctx)

	// Log in with a form post, keeping the session cookie
	login, err := client.Login(ctx, "alice", "correct-horse", "https://app.example.com/")

	// Exchange the session for a token addressed to the app
	token, err := client.Token(ctx, login.SessionID, "app", "https://app.example.com")

	// End the session
	err = client.Logout(ctx, login.SessionID)

# Verifying tokens

Downstream applications verify tokens with the shared secret, the service's
ssoUrl as issuer and their own audience name:

	v, err := authsdk.NewVerifier(secret, "https://sso.example.com", "app")
	id, err := v.Verify(token)
	fmt.Println("logged in as", id.Username)

# Error Handling

  - ErrUnauthorized: the token request was refused (no session, expired
    session, audience or origin not allowed)
  - ErrLoginFailed: wrong username or password
  - ErrCallbackRejected: the callback URL is not on the allow-list
  - *StatusError: any other unexpected response
*/
package authsdk
