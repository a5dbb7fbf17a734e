package pomodorosdk

import (
	"context"
	"net/http"
)

// Register creates an account.
func (c *SDKClient) Register(ctx context.Context, email, password string) (*RegisterResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/register", RegisterRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a Session.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/login", LoginRequest{Email: email, Password: password}, "")
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return c.NewSession(out.Token), nil
}

// ForgotPassword asks the service to email a reset link.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/forgot-password", ForgotPasswordRequest{Email: email}, "")
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword redeems a token from a reset link.
func (c *SDKClient) ResetPassword(ctx context.Context, token, password string) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/reset-password", ResetPasswordRequest{Token: token, Password: password}, "")
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout clears the server-side session cookie. It needs no bearer token.
func (c *SDKClient) Logout(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/logout", nil, "")
	if err != nil {
		return "", err
	}
	return readText(resp)
}
